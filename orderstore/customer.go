package orderstore

import (
	"strings"
	"time"
)

const maxCustomerNameLength = 100

// Customer is an entry in the customer directory. Orders reference customers
// by denormalized name match, not by foreign key, so an order may carry a name
// that no longer exists in the directory. Identity is unique by
// case-insensitive, whitespace-normalized name.
type Customer struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerWithOrderCount is a directory entry joined with the number of
// orders currently carrying its name.
type CustomerWithOrderCount struct {
	Customer
	OrderCount int
}

// NormalizeCustomerName trims the name and collapses inner whitespace runs to
// single spaces. All identity comparisons work on this normalized form,
// lowercased.
func NormalizeCustomerName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateCustomerName checks the normalized name against the directory's
// constraints.
func ValidateCustomerName(name string) error {
	normalized := NormalizeCustomerName(name)

	if normalized == "" {
		return NewValidationError("Customer name is required")
	}

	if len(normalized) > maxCustomerNameLength {
		return NewValidationError("Customer name must be less than 100 characters")
	}

	return nil
}

// CustomerNamesEqual reports whether two names refer to the same customer
// identity (case-insensitive on the normalized form).
func CustomerNamesEqual(a, b string) bool {
	return strings.EqualFold(NormalizeCustomerName(a), NormalizeCustomerName(b))
}
