package orderstore

import (
	"time"
)

// Status is one of the fixed lifecycle labels an order moves through.
// There is no enforced transition graph: any status may be set from any other
// status via an explicit update.
type Status = string

const (
	StatusYetToBeProcessed     Status = "Order yet to be processed"
	StatusProcessed            Status = "Order processed"
	StatusCancelled            Status = "Cancelled"
	StatusPaymentPending       Status = "Payment pending to Supplier"
	StatusSupplierPaid         Status = "Supplier Paid"
	StatusLongLTAwaitingESD    Status = "Long LT - Awaiting ESD"
	StatusLongLTESDProvided    Status = "Long LT - ESD Provided"
	StatusAwaitingCollection   Status = "Awaiting Collection Details"
	StatusReadyForCollection   Status = "Ready for Collection from Supplier"
	StatusAwaitingAWB          Status = "Awaiting AWB from FF"
	StatusAWBSharedToSupplier  Status = "AWB Shared to Supplier"
	StatusTransitToUAE         Status = "Transit to UAE"
	StatusNeedToCollect        Status = "Need to Collect"
	StatusReceivedInUAE        Status = "Received in UAE"
	StatusHold                 Status = "Hold"
	StatusIssue                Status = "Issue"
	StatusReadyForDispatch     Status = "Ready for Dispatch"
	StatusDelivered            Status = "Delivered"
)

// Term is the payment term agreed with the supplier.
type Term = string

const (
	TermPrepay Term = "PREPAY"
	TermNet7   Term = "NET 7"
	TermNet30  Term = "NET 30"
)

// Currency is the currency the purchase order is denominated in.
type Currency = string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyAED Currency = "AED"
	CurrencyINR Currency = "INR"
)

// YesNo is the boolean-like flag representation used by the dashboard
// for payment-received and investor-paid.
type YesNo = string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// Statuses returns the complete lifecycle label enumeration in display order.
func Statuses() []Status {
	return []Status{
		StatusYetToBeProcessed,
		StatusProcessed,
		StatusCancelled,
		StatusPaymentPending,
		StatusSupplierPaid,
		StatusLongLTAwaitingESD,
		StatusLongLTESDProvided,
		StatusAwaitingCollection,
		StatusReadyForCollection,
		StatusAwaitingAWB,
		StatusAWBSharedToSupplier,
		StatusTransitToUAE,
		StatusNeedToCollect,
		StatusReceivedInUAE,
		StatusHold,
		StatusIssue,
		StatusReadyForDispatch,
		StatusDelivered,
	}
}

// Terms returns the payment term enumeration.
func Terms() []Term {
	return []Term{TermPrepay, TermNet7, TermNet30}
}

// Currencies returns the currency enumeration.
func Currencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyEUR, CurrencyAED, CurrencyINR}
}

// IsValidStatus reports whether s is one of the fixed lifecycle labels.
func IsValidStatus(s Status) bool {
	for _, valid := range Statuses() {
		if s == valid {
			return true
		}
	}

	return false
}

// IsValidTerm reports whether t is one of the payment terms.
func IsValidTerm(t Term) bool {
	return t == TermPrepay || t == TermNet7 || t == TermNet30
}

// IsValidCurrency reports whether c is one of the supported currencies.
func IsValidCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencyEUR || c == CurrencyAED || c == CurrencyINR
}

// IsValidYesNo reports whether v is "Yes" or "No".
func IsValidYesNo(v YesNo) bool {
	return v == Yes || v == No
}

// Order is the central entity of the dashboard: one purchase order tracked
// through the sales/logistics lifecycle.
//
// SerialNumber is assigned by the store at creation time (max existing + 1,
// never reused while the order exists). The four profit fields are derived
// (see DeriveProfit) and are nil only until first computed; once POValue and
// Costs are set they must be present and consistent with the derivation law.
type Order struct {
	SerialNumber int64

	PartNumber  string
	Description string
	Qty         float64

	Customer string
	CustPO   string
	PODate   time.Time
	Term     Term
	Currency Currency

	POValue     float64
	Costs       float64
	CustomsDuty *float64
	FreightCost *float64

	GrossProfit            *float64
	NetProfit              *float64
	ProfitPercent          *float64
	ProfitPercentAfterCost *float64

	Status          Status
	PaymentReceived YesNo
	InvestorPaid    YesNo
	Remarks         string

	TargetDate     *time.Time
	DispatchDate   *time.Time
	Supplier       string
	SupplierPO     string
	SupplierPODate time.Time
	AWBToUAE       string

	// Dormant audit/invoicing references carried by the dashboard schema.
	HAInvDate string
	HAInv     string
	ANPODate  string
	ANPO      string
	ANInvDate string
	ANInv     string
	Audited   string

	Stability  float64
	LastEdited time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ApplyProfit overwrites all four derived profit fields from the breakdown.
// Partial staleness is not allowed: either all four are rewritten or none.
func (o *Order) ApplyProfit(p ProfitBreakdown) {
	gross := p.GrossProfit
	net := p.NetProfit
	percent := p.ProfitPercent
	percentAfterCost := p.ProfitPercentAfterCost

	o.GrossProfit = &gross
	o.NetProfit = &net
	o.ProfitPercent = &percent
	o.ProfitPercentAfterCost = &percentAfterCost
}

// Slug returns the URL identifier for the order detail view: "sn-custPo-partNumber".
func (o Order) Slug() string {
	return BuildOrderSlug(o.SerialNumber, o.CustPO, o.PartNumber)
}
