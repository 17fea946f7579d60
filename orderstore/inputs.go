package orderstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // one validator instance for all boundary checks
var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateOrderInput is the full order payload minus identity, derived, and
// timestamp fields. All enumeration checks happen here, at the boundary;
// the store below trusts validated input.
type CreateOrderInput struct {
	PartNumber  string  `json:"partNumber" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Qty         float64 `json:"qty" validate:"required,gt=0"`

	Customer string    `json:"customer" validate:"required"`
	CustPO   string    `json:"custPo" validate:"required"`
	PODate   time.Time `json:"poDate" validate:"required"`
	Term     Term      `json:"term" validate:"required"`
	Currency Currency  `json:"currency" validate:"required"`

	POValue     float64  `json:"poValue" validate:"gte=0"`
	Costs       float64  `json:"costs" validate:"gte=0"`
	CustomsDuty *float64 `json:"customsDuty" validate:"omitempty,gte=0"`
	FreightCost *float64 `json:"freightCost" validate:"omitempty,gte=0"`

	Status          Status `json:"status" validate:"required"`
	PaymentReceived YesNo  `json:"paymentReceived" validate:"required"`
	InvestorPaid    YesNo  `json:"investorPaid" validate:"required"`
	Remarks         string `json:"remarks"`

	TargetDate     *time.Time `json:"targetDate"`
	DispatchDate   *time.Time `json:"dispatchDate"`
	Supplier       string     `json:"supplier" validate:"required"`
	SupplierPO     string     `json:"supplierPo" validate:"required"`
	SupplierPODate time.Time  `json:"supplierPoDate" validate:"required"`
	AWBToUAE       string     `json:"awbToUae"`

	Stability float64 `json:"stability" validate:"gte=0,lte=10"`
}

// Validate checks required fields, numeric constraints, and enumeration
// membership. It returns a ValidationError before any persistence attempt.
func (in CreateOrderInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return NewValidationError(validationMessage(err))
	}

	if !IsValidStatus(in.Status) {
		return NewValidationError(fmt.Sprintf("unknown status %q", in.Status))
	}

	if !IsValidTerm(in.Term) {
		return NewValidationError(fmt.Sprintf("unknown payment term %q", in.Term))
	}

	if !IsValidCurrency(in.Currency) {
		return NewValidationError(fmt.Sprintf("unknown currency %q", in.Currency))
	}

	if !IsValidYesNo(in.PaymentReceived) {
		return NewValidationError(fmt.Sprintf("paymentReceived must be Yes or No, got %q", in.PaymentReceived))
	}

	if !IsValidYesNo(in.InvestorPaid) {
		return NewValidationError(fmt.Sprintf("investorPaid must be Yes or No, got %q", in.InvestorPaid))
	}

	return nil
}

// UpdateOrderInput is a partial order payload: nil fields are left untouched.
// When any of the four monetary inputs is present, the profit fields are
// re-derived from the merged order before the write.
type UpdateOrderInput struct {
	PartNumber  *string  `json:"partNumber"`
	Description *string  `json:"description"`
	Qty         *float64 `json:"qty" validate:"omitempty,gt=0"`

	Customer *string    `json:"customer"`
	CustPO   *string    `json:"custPo"`
	PODate   *time.Time `json:"poDate"`
	Term     *Term      `json:"term"`
	Currency *Currency  `json:"currency"`

	POValue     *float64 `json:"poValue" validate:"omitempty,gte=0"`
	Costs       *float64 `json:"costs" validate:"omitempty,gte=0"`
	CustomsDuty *float64 `json:"customsDuty" validate:"omitempty,gte=0"`
	FreightCost *float64 `json:"freightCost" validate:"omitempty,gte=0"`

	Status          *Status `json:"status"`
	PaymentReceived *YesNo  `json:"paymentReceived"`
	InvestorPaid    *YesNo  `json:"investorPaid"`
	Remarks         *string `json:"remarks"`

	TargetDate     *time.Time `json:"targetDate"`
	DispatchDate   *time.Time `json:"dispatchDate"`
	Supplier       *string    `json:"supplier"`
	SupplierPO     *string    `json:"supplierPo"`
	SupplierPODate *time.Time `json:"supplierPoDate"`
	AWBToUAE       *string    `json:"awbToUae"`

	Stability *float64 `json:"stability" validate:"omitempty,gte=0,lte=10"`
}

// Validate checks numeric constraints and enumeration membership on the
// fields that are present.
func (in UpdateOrderInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return NewValidationError(validationMessage(err))
	}

	if in.Status != nil && !IsValidStatus(*in.Status) {
		return NewValidationError(fmt.Sprintf("unknown status %q", *in.Status))
	}

	if in.Term != nil && !IsValidTerm(*in.Term) {
		return NewValidationError(fmt.Sprintf("unknown payment term %q", *in.Term))
	}

	if in.Currency != nil && !IsValidCurrency(*in.Currency) {
		return NewValidationError(fmt.Sprintf("unknown currency %q", *in.Currency))
	}

	if in.PaymentReceived != nil && !IsValidYesNo(*in.PaymentReceived) {
		return NewValidationError(fmt.Sprintf("paymentReceived must be Yes or No, got %q", *in.PaymentReceived))
	}

	if in.InvestorPaid != nil && !IsValidYesNo(*in.InvestorPaid) {
		return NewValidationError(fmt.Sprintf("investorPaid must be Yes or No, got %q", *in.InvestorPaid))
	}

	return nil
}

// ApplyTo merges the present fields into the order in place. Derived profit
// fields are not touched here; callers re-derive them when
// TouchesMonetaryInputs reports true.
func (in UpdateOrderInput) ApplyTo(order *Order) {
	if in.PartNumber != nil {
		order.PartNumber = *in.PartNumber
	}
	if in.Description != nil {
		order.Description = *in.Description
	}
	if in.Qty != nil {
		order.Qty = *in.Qty
	}
	if in.Customer != nil {
		order.Customer = *in.Customer
	}
	if in.CustPO != nil {
		order.CustPO = *in.CustPO
	}
	if in.PODate != nil {
		order.PODate = *in.PODate
	}
	if in.Term != nil {
		order.Term = *in.Term
	}
	if in.Currency != nil {
		order.Currency = *in.Currency
	}
	if in.POValue != nil {
		order.POValue = *in.POValue
	}
	if in.Costs != nil {
		order.Costs = *in.Costs
	}
	if in.CustomsDuty != nil {
		order.CustomsDuty = in.CustomsDuty
	}
	if in.FreightCost != nil {
		order.FreightCost = in.FreightCost
	}
	if in.Status != nil {
		order.Status = *in.Status
	}
	if in.PaymentReceived != nil {
		order.PaymentReceived = *in.PaymentReceived
	}
	if in.InvestorPaid != nil {
		order.InvestorPaid = *in.InvestorPaid
	}
	if in.Remarks != nil {
		order.Remarks = *in.Remarks
	}
	if in.TargetDate != nil {
		order.TargetDate = in.TargetDate
	}
	if in.DispatchDate != nil {
		order.DispatchDate = in.DispatchDate
	}
	if in.Supplier != nil {
		order.Supplier = *in.Supplier
	}
	if in.SupplierPO != nil {
		order.SupplierPO = *in.SupplierPO
	}
	if in.SupplierPODate != nil {
		order.SupplierPODate = *in.SupplierPODate
	}
	if in.AWBToUAE != nil {
		order.AWBToUAE = *in.AWBToUAE
	}
	if in.Stability != nil {
		order.Stability = *in.Stability
	}
}

// TouchesMonetaryInputs reports whether the partial update changes any of the
// four inputs of the profit derivation.
func (in UpdateOrderInput) TouchesMonetaryInputs() bool {
	return in.POValue != nil || in.Costs != nil || in.CustomsDuty != nil || in.FreightCost != nil
}

// ChangesStatus reports whether the partial update carries a status value.
func (in UpdateOrderInput) ChangesStatus() bool {
	return in.Status != nil
}

// BulkUpdateInput applies status and/or flag changes uniformly to a set of
// serial numbers as one all-or-nothing unit.
type BulkUpdateInput struct {
	SerialNumbers []int64 `json:"sns" validate:"required,min=1"`

	Status          *Status `json:"status"`
	PaymentReceived *YesNo  `json:"paymentReceived"`
	InvestorPaid    *YesNo  `json:"investorPaid"`
}

// Validate checks the serial list and the enumeration membership of the
// fields that are present.
func (in BulkUpdateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return NewValidationError(validationMessage(err))
	}

	if in.Status == nil && in.PaymentReceived == nil && in.InvestorPaid == nil {
		return NewValidationError("bulk update requires at least one of status, paymentReceived, investorPaid")
	}

	if in.Status != nil && !IsValidStatus(*in.Status) {
		return NewValidationError(fmt.Sprintf("unknown status %q", *in.Status))
	}

	if in.PaymentReceived != nil && !IsValidYesNo(*in.PaymentReceived) {
		return NewValidationError(fmt.Sprintf("paymentReceived must be Yes or No, got %q", *in.PaymentReceived))
	}

	if in.InvestorPaid != nil && !IsValidYesNo(*in.InvestorPaid) {
		return NewValidationError(fmt.Sprintf("investorPaid must be Yes or No, got %q", *in.InvestorPaid))
	}

	return nil
}

// validationMessage flattens the first validator error into a caller-facing message.
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]

		switch first.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", first.Field())
		case "gt":
			return fmt.Sprintf("%s must be greater than %s", first.Field(), first.Param())
		case "gte":
			return fmt.Sprintf("%s must be at least %s", first.Field(), first.Param())
		case "lte":
			return fmt.Sprintf("%s must be at most %s", first.Field(), first.Param())
		case "min":
			return fmt.Sprintf("%s must have at least %s element(s)", first.Field(), first.Param())
		default:
			return fmt.Sprintf("%s is invalid", first.Field())
		}
	}

	return err.Error()
}
