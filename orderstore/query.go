package orderstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// FilterFlag selects between the two mutually exclusive filtering modes of a
// query request. The empty flag means basic mode (the fixed per-column filter
// fields joined with implicit AND); the advanced flags switch to the general
// clause-list compiler.
type FilterFlag = string

const (
	FilterFlagBasic    FilterFlag = ""
	FilterFlagAdvanced FilterFlag = "advancedFilters"
	FilterFlagCommand  FilterFlag = "commandFilters"
)

// SortField is one (field, direction) pair of a sort order.
type SortField struct {
	Field FieldID `json:"field"`
	Desc  bool    `json:"desc"`
}

// BasicFilters is the fixed hand-built filter set of basic mode.
// Zero values mean "no constraint" for every field.
type BasicFilters struct {
	PartNumber string `json:"partNumber,omitempty"`
	Customer   string `json:"customer,omitempty"`
	Supplier   string `json:"supplier,omitempty"`
	SupplierPO string `json:"supplierPo,omitempty"`
	CustPO     string `json:"custPo,omitempty"`

	Status          []string `json:"status,omitempty"`
	Term            []string `json:"term,omitempty"`
	Currency        []string `json:"currency,omitempty"`
	PaymentReceived []string `json:"paymentReceived,omitempty"`

	POValueMin *float64   `json:"poValueMin,omitempty"`
	POValueMax *float64   `json:"poValueMax,omitempty"`
	PODateFrom *time.Time `json:"poDateFrom,omitempty"`
	PODateTo   *time.Time `json:"poDateTo,omitempty"`
}

// Clauses translates the basic filter fields into the equivalent clause list.
// Basic and advanced mode must produce identical results for equivalent
// constraints, so basic mode is expressed in terms of the same clause
// vocabulary and compiled by the same code path, joined with implicit AND.
func (b BasicFilters) Clauses() []FilterClause {
	clauses := []FilterClause{
		TextClause(FieldPartNumber, b.PartNumber),
		TextClause(FieldCustomer, b.Customer),
		TextClause(FieldSupplier, b.Supplier),
		TextClause(FieldSupplierPO, b.SupplierPO),
		TextClause(FieldCustPO, b.CustPO),
		MultiSelectClause(FieldStatus, b.Status...),
		MultiSelectClause(FieldTerm, b.Term...),
		MultiSelectClause(FieldCurrency, b.Currency...),
		MultiSelectClause(FieldPaymentReceived, b.PaymentReceived...),
		NumberRangeClause(FieldPOValue, b.POValueMin, b.POValueMax),
		DateRangeClause(FieldPODate, b.PODateFrom, b.PODateTo),
	}

	constraining := clauses[:0]
	for _, clause := range clauses {
		if clause.IsConstraining() {
			constraining = append(constraining, clause)
		}
	}

	return constraining
}

// QueryRequest is the declarative filter+sort+pagination request shape.
type QueryRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`

	Sort []SortField `json:"sort,omitempty"`

	FilterFlag   FilterFlag     `json:"filterFlag,omitempty"`
	Filters      []FilterClause `json:"filters,omitempty"`
	JoinOperator JoinOperator   `json:"joinOperator,omitempty"`

	Basic BasicFilters `json:"basic"`
}

// DefaultQueryRequest returns the request the dashboard opens with:
// first page of ten, no filters, newest first.
func DefaultQueryRequest() QueryRequest {
	return QueryRequest{Page: 1, PerPage: 10, JoinOperator: JoinAnd}
}

// Advanced reports whether the request selects the general clause-list compiler.
func (r QueryRequest) Advanced() bool {
	return r.FilterFlag == FilterFlagAdvanced || r.FilterFlag == FilterFlagCommand
}

// EffectiveClauses returns the clause list and join operator the predicate
// compiler will work from, regardless of mode.
func (r QueryRequest) EffectiveClauses() ([]FilterClause, JoinOperator) {
	if r.Advanced() {
		join := r.JoinOperator
		if join == "" {
			join = JoinAnd
		}

		return r.Filters, join
	}

	return r.Basic.Clauses(), JoinAnd
}

// Validate rejects structurally invalid requests: bad pagination bounds,
// unknown sort fields, invalid clauses, or an unknown join operator.
func (r QueryRequest) Validate() error {
	if r.Page < 1 {
		return NewValidationError("page must be >= 1")
	}

	if r.PerPage < 1 {
		return NewValidationError("perPage must be >= 1")
	}

	if r.JoinOperator != "" && r.JoinOperator != JoinAnd && r.JoinOperator != JoinOr {
		return NewValidationError(fmt.Sprintf("unknown join operator %q", r.JoinOperator))
	}

	switch r.FilterFlag {
	case FilterFlagBasic, FilterFlagAdvanced, FilterFlagCommand:
	default:
		return NewValidationError(fmt.Sprintf("unknown filter flag %q", r.FilterFlag))
	}

	for _, sort := range r.Sort {
		if _, ok := FieldByID(sort.Field); !ok {
			return NewValidationError(fmt.Sprintf("unknown sort field %q", sort.Field))
		}
	}

	clauses, _ := r.EffectiveClauses()
	for _, clause := range clauses {
		if err := clause.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Offset returns the zero-based row offset of the requested page.
func (r QueryRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// CacheKey serializes the full request into the memoization key for the
// order-query cache. Two requests with the same signature share one entry.
func (r QueryRequest) CacheKey() string {
	serialized, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(r)
	if err != nil {
		// Marshaling a plain value struct cannot fail in practice; fall back
		// to an uncacheable-looking but stable key.
		return fmt.Sprintf("orders:%d:%d", r.Page, r.PerPage)
	}

	return "orders:" + string(serialized)
}

// QueryResult is the paginated outcome of one order query.
// Invariants: len(Data) <= PerPage of the request, and Data is drawn from the
// TotalMatching-sized filtered set in the requested sort order.
type QueryResult struct {
	Data          []Order `json:"data"`
	TotalMatching int     `json:"totalMatching"`
	PageCount     int     `json:"pageCount"`
}

// EmptyQueryResult is what query callers receive when anything fails
// internally: queries are best-effort and degrade instead of propagating.
func EmptyQueryResult() QueryResult {
	return QueryResult{Data: []Order{}, TotalMatching: 0, PageCount: 0}
}

// PageCount derives the number of pages for total rows at perPage rows each.
func PageCount(total int, perPage int) int {
	if perPage < 1 || total < 1 {
		return 0
	}

	return (total + perPage - 1) / perPage
}

// StatusCounts is the status histogram over the whole order collection,
// with zero-count statuses omitted.
type StatusCounts = map[Status]int

// CustomerCounts is the per-customer order histogram over the whole
// collection, with zero-count customers omitted.
type CustomerCounts = map[string]int

// POValueRange is the [min, max] PO value across all orders; {0, 0} when the
// collection is empty.
type POValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BuildOrderSlug composes the order detail URL identifier "sn-custPo-partNumber".
func BuildOrderSlug(serialNumber int64, custPO string, partNumber string) string {
	return fmt.Sprintf("%d-%s-%s", serialNumber, custPO, partNumber)
}

// ParseOrderSlug extracts the serial number from an order slug.
// A slug needs at least three dash-separated parts and a numeric first part;
// anything else is reported as not-ok rather than as an error, matching the
// not-found semantics of the detail view.
func ParseOrderSlug(slug string) (int64, bool) {
	parts := strings.Split(slug, "-")
	if len(parts) < 3 {
		return 0, false
	}

	serialNumber, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}

	return serialNumber, true
}
