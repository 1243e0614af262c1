package model

import (
	"fmt"
	"time"
)

// Period selects the fiscal year the dashboard aggregates over.
type Period string

// Periods accepted by the backend.
const (
	PeriodCurrent  Period = "current"
	PeriodPrevious Period = "previous"
)

// OrderStatus filters client orders.
type OrderStatus string

// Order statuses accepted by the backend.
const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusAll       OrderStatus = "all"
)

// Filters is the user's current selection. It is forwarded to the backend verbatim.
type Filters struct {
	Period      Period
	OrderStatus OrderStatus
}

// DefaultFilters returns the selection the dashboard opens with.
func DefaultFilters() Filters {
	return Filters{Period: PeriodCurrent, OrderStatus: OrderStatusActive}
}

// Validate checks that both selectors hold known values.
func (f Filters) Validate() error {
	switch f.Period {
	case PeriodCurrent, PeriodPrevious:
	default:
		return fmt.Errorf("unknown period %q", f.Period)
	}
	switch f.OrderStatus {
	case OrderStatusActive, OrderStatusCompleted, OrderStatusAll:
	default:
		return fmt.Errorf("unknown order status %q", f.OrderStatus)
	}
	return nil
}

// Key identifies the filter pair for caching.
func (f Filters) Key() string {
	return string(f.Period) + "/" + string(f.OrderStatus)
}

// NextPeriod cycles through periods.
func (f Filters) NextPeriod() Filters {
	if f.Period == PeriodCurrent {
		f.Period = PeriodPrevious
	} else {
		f.Period = PeriodCurrent
	}
	return f
}

// NextOrderStatus cycles through order statuses.
func (f Filters) NextOrderStatus() Filters {
	switch f.OrderStatus {
	case OrderStatusActive:
		f.OrderStatus = OrderStatusCompleted
	case OrderStatusCompleted:
		f.OrderStatus = OrderStatusAll
	default:
		f.OrderStatus = OrderStatusActive
	}
	return f
}

// Label is the human label for the period selector.
func (p Period) Label() string {
	if p == PeriodPrevious {
		return "Прошлый фин. год"
	}
	return "Текущий фин. год"
}

// Label is the human label for the status selector.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusCompleted:
		return "Завершённые"
	case OrderStatusAll:
		return "Все"
	default:
		return "Активные"
	}
}

// Credentials identify a user to the backend.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Session is an authenticated backend session.
type Session struct {
	CreatedAt time.Time
	Token     string
	TokenType string
	UserName  string
	UserEmail string
}

// Profile is the user identity returned by the backend.
type Profile struct {
	Name  string `json:"user_name"`
	Email string `json:"user_email"`
}
