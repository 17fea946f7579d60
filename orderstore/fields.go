package orderstore

// FieldID identifies one filterable/sortable order attribute at the request boundary.
type FieldID = string

// FieldKind determines which filter variant a field accepts and how it sorts.
type FieldKind int

const (
	FieldKindText FieldKind = iota
	FieldKindEnum
	FieldKindNumber
	FieldKindDate
)

// Field maps a boundary-facing field identifier onto its database column.
// The enumeration is closed on purpose: unknown identifiers are rejected at
// validation time instead of being dereferenced dynamically.
type Field struct {
	ID     FieldID
	Column string
	Kind   FieldKind
}

// The complete closed enumeration of order fields.
const (
	FieldSerialNumber           FieldID = "sn"
	FieldPartNumber             FieldID = "partNumber"
	FieldDescription            FieldID = "description"
	FieldQty                    FieldID = "qty"
	FieldPODate                 FieldID = "poDate"
	FieldTerm                   FieldID = "term"
	FieldCustomer               FieldID = "customer"
	FieldCustPO                 FieldID = "custPo"
	FieldStatus                 FieldID = "status"
	FieldRemarks                FieldID = "remarks"
	FieldCurrency               FieldID = "currency"
	FieldPOValue                FieldID = "poValue"
	FieldCosts                  FieldID = "costs"
	FieldCustomsDuty            FieldID = "customsDuty"
	FieldFreightCost            FieldID = "freightCost"
	FieldGrossProfit            FieldID = "grossProfit"
	FieldNetProfit              FieldID = "netProfit"
	FieldProfitPercent          FieldID = "profitPercent"
	FieldProfitPercentAfterCost FieldID = "profitPercentAfterCost"
	FieldPaymentReceived        FieldID = "paymentReceived"
	FieldInvestorPaid           FieldID = "investorPaid"
	FieldTargetDate             FieldID = "targetDate"
	FieldDispatchDate           FieldID = "dispatchDate"
	FieldSupplierPODate         FieldID = "supplierPoDate"
	FieldSupplier               FieldID = "supplier"
	FieldSupplierPO             FieldID = "supplierPo"
	FieldAWBToUAE               FieldID = "awbToUae"
	FieldStability              FieldID = "stability"
	FieldCreatedAt              FieldID = "createdAt"
	FieldUpdatedAt              FieldID = "updatedAt"
)

//nolint:gochecknoglobals // closed field registry, read-only after init
var orderFields = map[FieldID]Field{
	FieldSerialNumber:           {ID: FieldSerialNumber, Column: "sn", Kind: FieldKindNumber},
	FieldPartNumber:             {ID: FieldPartNumber, Column: "part_number", Kind: FieldKindText},
	FieldDescription:            {ID: FieldDescription, Column: "description", Kind: FieldKindText},
	FieldQty:                    {ID: FieldQty, Column: "qty", Kind: FieldKindNumber},
	FieldPODate:                 {ID: FieldPODate, Column: "po_date", Kind: FieldKindDate},
	FieldTerm:                   {ID: FieldTerm, Column: "term", Kind: FieldKindEnum},
	FieldCustomer:               {ID: FieldCustomer, Column: "customer", Kind: FieldKindText},
	FieldCustPO:                 {ID: FieldCustPO, Column: "cust_po", Kind: FieldKindText},
	FieldStatus:                 {ID: FieldStatus, Column: "status", Kind: FieldKindEnum},
	FieldRemarks:                {ID: FieldRemarks, Column: "remarks", Kind: FieldKindText},
	FieldCurrency:               {ID: FieldCurrency, Column: "currency", Kind: FieldKindEnum},
	FieldPOValue:                {ID: FieldPOValue, Column: "po_value", Kind: FieldKindNumber},
	FieldCosts:                  {ID: FieldCosts, Column: "costs", Kind: FieldKindNumber},
	FieldCustomsDuty:            {ID: FieldCustomsDuty, Column: "customs_duty", Kind: FieldKindNumber},
	FieldFreightCost:            {ID: FieldFreightCost, Column: "freight_cost", Kind: FieldKindNumber},
	FieldGrossProfit:            {ID: FieldGrossProfit, Column: "gross_profit", Kind: FieldKindNumber},
	FieldNetProfit:              {ID: FieldNetProfit, Column: "net_profit", Kind: FieldKindNumber},
	FieldProfitPercent:          {ID: FieldProfitPercent, Column: "profit_percent", Kind: FieldKindNumber},
	FieldProfitPercentAfterCost: {ID: FieldProfitPercentAfterCost, Column: "profit_percent_after_cost", Kind: FieldKindNumber},
	FieldPaymentReceived:        {ID: FieldPaymentReceived, Column: "payment_received", Kind: FieldKindEnum},
	FieldInvestorPaid:           {ID: FieldInvestorPaid, Column: "investor_paid", Kind: FieldKindEnum},
	FieldTargetDate:             {ID: FieldTargetDate, Column: "target_date", Kind: FieldKindDate},
	FieldDispatchDate:           {ID: FieldDispatchDate, Column: "dispatch_date", Kind: FieldKindDate},
	FieldSupplierPODate:         {ID: FieldSupplierPODate, Column: "supplier_po_date", Kind: FieldKindDate},
	FieldSupplier:               {ID: FieldSupplier, Column: "supplier", Kind: FieldKindText},
	FieldSupplierPO:             {ID: FieldSupplierPO, Column: "supplier_po", Kind: FieldKindText},
	FieldAWBToUAE:               {ID: FieldAWBToUAE, Column: "awb_to_uae", Kind: FieldKindText},
	FieldStability:              {ID: FieldStability, Column: "stability", Kind: FieldKindNumber},
	FieldCreatedAt:              {ID: FieldCreatedAt, Column: "created_at", Kind: FieldKindDate},
	FieldUpdatedAt:              {ID: FieldUpdatedAt, Column: "updated_at", Kind: FieldKindDate},
}

// FieldByID looks up a field in the closed enumeration.
func FieldByID(id FieldID) (Field, bool) {
	field, ok := orderFields[id]
	return field, ok
}
