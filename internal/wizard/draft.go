package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/internal/advisor"
	"github.com/jithuth/roneywo/internal/wallets"
	"github.com/jithuth/roneywo/pkg/enums"
	"github.com/jithuth/roneywo/pkg/types"
)

// Identity is the authenticated account driving the wizard.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

// Draft is the in-progress state of one unlock intake, stored in Redis
// keyed by the account. Nothing touches the orders table until submit.
type Draft struct {
	Step         enums.WizardStep   `json:"step"`
	Device       *types.DeviceInfo  `json:"device,omitempty"`
	Advisory     *advisor.Advisory  `json:"advisory,omitempty"`
	AnalysisDone bool               `json:"analysisDone"`
	Identity     *Identity          `json:"identity,omitempty"`
	Wallet       *wallets.WalletDTO `json:"wallet,omitempty"`
	OrderID      *uuid.UUID         `json:"orderId,omitempty"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func newDraft() *Draft {
	return &Draft{Step: enums.WizardStepSelection, UpdatedAt: time.Now().UTC()}
}
