package enums

import "fmt"

// WizardStep names a stage of the unlock intake flow. Steps form an
// explicit chain; jumps outside nextWizardStep are rejected rather than
// compared numerically.
type WizardStep string

const (
	WizardStepSelection    WizardStep = "selection"
	WizardStepAuth         WizardStep = "auth"
	WizardStepPayment      WizardStep = "payment"
	WizardStepConfirmation WizardStep = "confirmation"
	WizardStepSuccess      WizardStep = "success"
)

var validWizardSteps = []WizardStep{
	WizardStepSelection,
	WizardStepAuth,
	WizardStepPayment,
	WizardStepConfirmation,
	WizardStepSuccess,
}

var nextWizardStep = map[WizardStep]WizardStep{
	WizardStepSelection:    WizardStepAuth,
	WizardStepAuth:         WizardStepPayment,
	WizardStepPayment:      WizardStepConfirmation,
	WizardStepConfirmation: WizardStepSuccess,
}

// String implements fmt.Stringer.
func (s WizardStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known WizardStep.
func (s WizardStep) IsValid() bool {
	for _, candidate := range validWizardSteps {
		if candidate == s {
			return true
		}
	}
	return false
}

// Next returns the step that follows s, or false when s is terminal.
func (s WizardStep) Next() (WizardStep, bool) {
	next, ok := nextWizardStep[s]
	return next, ok
}

// CanAdvanceTo reports whether target is the single legal successor of s.
func (s WizardStep) CanAdvanceTo(target WizardStep) bool {
	next, ok := nextWizardStep[s]
	return ok && next == target
}

// ParseWizardStep converts raw input into a WizardStep.
func ParseWizardStep(value string) (WizardStep, error) {
	for _, candidate := range validWizardSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wizard step %q", value)
}
