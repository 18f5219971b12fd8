package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/responses"
	"github.com/jithuth/roneywo/api/validators"
	"github.com/jithuth/roneywo/internal/wizard"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/types"
)

type wizardService interface {
	Start(ctx context.Context, identity wizard.Identity) (*wizard.Draft, error)
	Get(ctx context.Context, userID uuid.UUID) (*wizard.Draft, error)
	SetDevice(ctx context.Context, userID uuid.UUID, device types.DeviceInfo) (*wizard.Draft, error)
	Analyze(ctx context.Context, userID uuid.UUID) (*wizard.Draft, error)
	Advance(ctx context.Context, identity wizard.Identity) (*wizard.Draft, error)
	SelectWallet(ctx context.Context, userID uuid.UUID, currency string) (*wizard.Draft, error)
	Submit(ctx context.Context, identity wizard.Identity, upload wizard.ProofUpload) (*wizard.SubmitResult, error)
	Reset(ctx context.Context, userID uuid.UUID) error
}

// WizardStart opens (or resumes) the caller's intake draft.
func WizardStart(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Start(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, draft)
	}
}

// WizardGet returns the caller's current draft.
func WizardGet(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Get(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// WizardSetDevice stores the device details on the selection step.
func WizardSetDevice(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var device types.DeviceInfo
		if err := validators.DecodeJSONBody(r, &device); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SetDevice(r.Context(), identity.UserID, device)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// WizardAnalyze runs the technical advisory for the selected device.
func WizardAnalyze(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Analyze(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// WizardAdvance moves the draft to its next step.
func WizardAdvance(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Advance(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

type selectWalletRequest struct {
	Currency string `json:"currency" validate:"required"`
}

// WizardSelectWallet picks the payment destination on the payment step.
func WizardSelectWallet(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body selectWalletRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SelectWallet(r.Context(), identity.UserID, body.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// WizardSubmit receives the multipart payment proof and opens the order.
func WizardSubmit(svc wizardService, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// One extra byte so an oversized part is detected, not truncated.
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("proof")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "a proof file is required"))
			return
		}
		defer func() { _ = file.Close() }()

		result, err := svc.Submit(r.Context(), identity, wizard.ProofUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// WizardReset abandons the caller's draft.
func WizardReset(svc wizardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reset(r.Context(), identity.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}
