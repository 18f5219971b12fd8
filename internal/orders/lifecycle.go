package orders

import "github.com/jithuth/roneywo/pkg/enums"

// allowedTransitions enumerates every legal status change. Completed and
// failed have no entries, so no transition ever leaves them.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusVerified,
		enums.OrderStatusCompleted,
		enums.OrderStatusFailed,
	},
	enums.OrderStatusVerified: {
		enums.OrderStatusCompleted,
		enums.OrderStatusFailed,
	},
}

// CanTransition reports whether the status change is allowed.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
