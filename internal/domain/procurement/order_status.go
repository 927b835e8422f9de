package procurement

// OrderStatus represents the lifecycle status of a purchase order.
// The status machine is:
//
//	PENDING -> VENDOR_SOURCING -> VENDOR_NEGOTIATION -> CONFIRMED -> IN_PRODUCTION -> COMPLETED
//
// with two side branches: CANCELLED is reachable from any non-terminal
// status, and EXPIRED is reachable only from the sourcing and negotiation
// statuses via the expiration sweep. COMPLETED, CANCELLED and EXPIRED are
// terminal.
type OrderStatus string

// Order statuses
const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusVendorSourcing    OrderStatus = "VENDOR_SOURCING"
	OrderStatusVendorNegotiation OrderStatus = "VENDOR_NEGOTIATION"
	OrderStatusConfirmed         OrderStatus = "CONFIRMED"
	OrderStatusInProduction      OrderStatus = "IN_PRODUCTION"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
	OrderStatusExpired           OrderStatus = "EXPIRED"
)

// IsValid checks if the status is one of the known statuses
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusVendorSourcing, OrderStatusVendorNegotiation,
		OrderStatusConfirmed, OrderStatusInProduction, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are permitted
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// orderTransitions is the single source of truth for legal status
// transitions. Guards beyond the pure status check (vendor existence,
// tenant consistency, price validity) live in the aggregate methods.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {
		OrderStatusVendorSourcing,
		OrderStatusCancelled,
	},
	OrderStatusVendorSourcing: {
		OrderStatusVendorNegotiation,
		OrderStatusCancelled,
		OrderStatusExpired,
	},
	OrderStatusVendorNegotiation: {
		OrderStatusVendorNegotiation, // re-quoting stays in negotiation
		OrderStatusConfirmed,
		OrderStatusCancelled,
		OrderStatusExpired,
	},
	OrderStatusConfirmed: {
		OrderStatusInProduction,
		OrderStatusCancelled,
	},
	OrderStatusInProduction: {
		OrderStatusCompleted,
		OrderStatusCancelled,
	},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
	OrderStatusExpired:   {},
}

// CanTransitionTo checks if a transition to the target status is legal
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowsVendorAssignment returns true if a vendor may be assigned in this
// status. Assignment is the first transition into negotiation and is only
// legal while sourcing.
func (s OrderStatus) AllowsVendorAssignment() bool {
	return s == OrderStatusVendorSourcing
}

// AllowsNegotiation returns true if vendor negotiation (including
// re-quoting) is permitted in this status
func (s OrderStatus) AllowsNegotiation() bool {
	return s == OrderStatusVendorSourcing || s == OrderStatusVendorNegotiation
}

// IsExpirable returns true if the expiration sweep may transition an order
// in this status to EXPIRED
func (s OrderStatus) IsExpirable() bool {
	return s == OrderStatusVendorSourcing || s == OrderStatusVendorNegotiation
}

// ExpirableStatuses returns the statuses the expiration sweep considers
func ExpirableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusVendorSourcing, OrderStatusVendorNegotiation}
}

// PaymentStatus represents how much of the order total has been paid.
// Payment reconciliation itself is external; the order only tracks the
// resulting status and running totals.
type PaymentStatus string

// Payment statuses
const (
	PaymentStatusUnpaid          PaymentStatus = "UNPAID"
	PaymentStatusDownPaymentPaid PaymentStatus = "DOWN_PAYMENT_PAID"
	PaymentStatusFullyPaid       PaymentStatus = "FULLY_PAID"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusDownPaymentPaid, PaymentStatusFullyPaid:
		return true
	}
	return false
}

// String returns the string representation of the payment status
func (s PaymentStatus) String() string {
	return string(s)
}
