package entity

// OrderStatus is one of the six recognized order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// OrderStatuses lists every recognized status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is one of the recognized literals.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no forward transition leaves this status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// ReleasesStock reports whether entering this status returns the items to stock.
func (s OrderStatus) ReleasesStock() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// TransitionPolicy decides which status changes are accepted. Both arguments
// are already known to be valid statuses.
type TransitionPolicy interface {
	Name() string
	Allows(from, to OrderStatus) bool
}

const (
	TransitionPolicyLenient = "lenient"
	TransitionPolicyStrict  = "strict"
)

// LenientTransitions accepts any recognized status from any other, which lets
// admins and sellers correct a mistaken status by hand.
type LenientTransitions struct{}

func (LenientTransitions) Name() string { return TransitionPolicyLenient }

func (LenientTransitions) Allows(_, _ OrderStatus) bool { return true }

// StrictTransitions only follows the forward graph
// pending → processing → shipped → delivered, plus cancelled and refunded
// from any non-terminal status. Re-setting the current status is a no-op and allowed.
type StrictTransitions struct{}

func (StrictTransitions) Name() string { return TransitionPolicyStrict }

func (StrictTransitions) Allows(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled || to == OrderStatusRefunded {
		return true
	}

	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing
	case OrderStatusProcessing:
		return to == OrderStatusShipped
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

// TransitionPolicyByName resolves a configured policy name. An empty name
// selects the lenient policy.
func TransitionPolicyByName(name string) (TransitionPolicy, bool) {
	switch name {
	case "", TransitionPolicyLenient:
		return LenientTransitions{}, true
	case TransitionPolicyStrict:
		return StrictTransitions{}, true
	default:
		return nil, false
	}
}
