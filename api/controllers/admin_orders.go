package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/responses"
	"github.com/jithuth/roneywo/api/validators"
	internalorders "github.com/jithuth/roneywo/internal/orders"
	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/pagination"
)

type adminOrderService interface {
	Get(ctx context.Context, actorID uuid.UUID, actorEmail string, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, actorID uuid.UUID, actorEmail string, filter internalorders.Filter, page pagination.Params) (*internalorders.ListResult, error)
	Transition(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error)
}

// AdminOrders lists orders with the back-office filters applied.
func AdminOrders(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := orderFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), actor.UserID, actor.Email, filter, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns one order for the back office.
func AdminOrderDetail(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), actor.UserID, actor.Email, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	UnlockCode string `json:"unlockCode"`
}

// AdminUpdateOrderStatus applies a lifecycle transition to an order.
func AdminUpdateOrderStatus(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.Transition(r.Context(), internalorders.TransitionInput{
			OrderID:    orderID,
			Target:     target,
			UnlockCode: body.UnlockCode,
			ActorID:    actor.UserID,
			ActorEmail: actor.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func orderFilterFromQuery(r *http.Request) (internalorders.Filter, error) {
	filter := internalorders.Filter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Email:  strings.TrimSpace(r.URL.Query().Get("email")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" && raw != "all" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return internalorders.Filter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter.Status = status
	}

	start, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return internalorders.Filter{}, err
	}
	end, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return internalorders.Filter{}, err
	}
	filter.StartDate = start
	filter.EndDate = end
	return filter, nil
}
