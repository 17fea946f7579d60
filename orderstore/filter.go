package orderstore

import (
	"fmt"
	"time"
)

// FilterVariant determines the value shape a clause carries and how it is
// compiled into a predicate.
type FilterVariant = string

const (
	// VariantText matches case-insensitive substring containment.
	VariantText FilterVariant = "text"

	// VariantMultiSelect matches membership in the supplied set.
	// An empty set means "no constraint", not "exclude all". This asymmetry
	// is intentional and load-bearing for the filter option badges.
	VariantMultiSelect FilterVariant = "multiSelect"

	// VariantNumberRange matches an inclusive [min, max] range; either bound
	// may be omitted for an open range.
	VariantNumberRange FilterVariant = "numberRange"

	// VariantDateRange matches an inclusive [from, until] range compared at
	// calendar-day granularity; either bound may be omitted.
	VariantDateRange FilterVariant = "dateRange"
)

// JoinOperator combines the clauses of an advanced filter specification.
type JoinOperator = string

const (
	JoinAnd JoinOperator = "and"
	JoinOr  JoinOperator = "or"
)

// FilterClause is one declarative constraint over a single order field.
// Exactly the value slot matching the Variant is meaningful; the rest are
// ignored. Build clauses with the factory functions to keep that invariant.
type FilterClause struct {
	Field   FieldID       `json:"field"`
	Variant FilterVariant `json:"variant"`

	Text   string     `json:"text,omitempty"`
	Values []string   `json:"values,omitempty"`
	Min    *float64   `json:"min,omitempty"`
	Max    *float64   `json:"max,omitempty"`
	From   *time.Time `json:"from,omitempty"`
	Until  *time.Time `json:"until,omitempty"`
}

// TextClause builds a case-insensitive substring containment clause.
func TextClause(field FieldID, substring string) FilterClause {
	return FilterClause{Field: field, Variant: VariantText, Text: substring}
}

// MultiSelectClause builds a set membership clause.
func MultiSelectClause(field FieldID, values ...string) FilterClause {
	return FilterClause{Field: field, Variant: VariantMultiSelect, Values: values}
}

// NumberRangeClause builds an inclusive numeric range clause; nil bounds are open.
func NumberRangeClause(field FieldID, minValue *float64, maxValue *float64) FilterClause {
	return FilterClause{Field: field, Variant: VariantNumberRange, Min: minValue, Max: maxValue}
}

// DateRangeClause builds an inclusive date range clause; nil bounds are open.
// Bounds are compared at calendar-day granularity.
func DateRangeClause(field FieldID, from *time.Time, until *time.Time) FilterClause {
	return FilterClause{Field: field, Variant: VariantDateRange, From: from, Until: until}
}

// Validate rejects clauses naming unknown fields and clauses whose variant
// does not fit the field's kind. It fails deterministically instead of
// silently ignoring the clause.
func (c FilterClause) Validate() error {
	field, ok := FieldByID(c.Field)
	if !ok {
		return NewValidationError(fmt.Sprintf("unknown filter field %q", c.Field))
	}

	switch c.Variant {
	case VariantText:
		if field.Kind != FieldKindText {
			return variantMismatch(c.Field, c.Variant)
		}

	case VariantMultiSelect:
		if field.Kind != FieldKindEnum {
			return variantMismatch(c.Field, c.Variant)
		}

	case VariantNumberRange:
		if field.Kind != FieldKindNumber {
			return variantMismatch(c.Field, c.Variant)
		}

	case VariantDateRange:
		if field.Kind != FieldKindDate {
			return variantMismatch(c.Field, c.Variant)
		}

	default:
		return NewValidationError(fmt.Sprintf("unknown filter variant %q", c.Variant))
	}

	return nil
}

// IsConstraining reports whether the clause narrows the result set at all.
// Empty text, an empty multi-select set, and fully open ranges do not.
func (c FilterClause) IsConstraining() bool {
	switch c.Variant {
	case VariantText:
		return c.Text != ""
	case VariantMultiSelect:
		return len(c.Values) > 0
	case VariantNumberRange:
		return c.Min != nil || c.Max != nil
	case VariantDateRange:
		return c.From != nil || c.Until != nil
	default:
		return false
	}
}

func variantMismatch(field FieldID, variant FilterVariant) error {
	return NewValidationError(fmt.Sprintf("filter variant %q does not apply to field %q", variant, field))
}
