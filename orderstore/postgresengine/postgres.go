// Package postgresengine implements the order store on PostgreSQL.
//
// The engine compiles declarative filter specifications into SQL with goqu,
// runs every rows+count pair and every read-then-write mutation inside a
// single transaction, and keeps the fixed-population policy of the dashboard:
// each create evicts the oldest order and each delete inserts a generated
// replacement, so the collection size stays constant.
package postgresengine

import (
	"database/sql"
	"math/rand"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine/internal/adapters"
)

const (
	defaultOrdersTableName    = "orders"
	defaultCustomersTableName = "customers"

	dialectPostgres = "postgres"

	logMsgBuildQueryFailed     = "failed to build sql query"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgDBExecFailed         = "database execution failed"
	logMsgBeginTxFailed        = "failed to begin transaction"
	logMsgCommitTxFailed       = "failed to commit transaction"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgRowsAffectedFailed   = "failed to get rows affected count"
	logMsgQueryCompleted       = "order query completed"
	logMsgOrderCreated         = "order created"
	logMsgOrderUpdated         = "order updated"
	logMsgOrdersBulkUpdated    = "orders bulk updated"
	logMsgOrdersDeleted        = "orders deleted"
	logMsgOldestOrderEvicted   = "oldest order evicted to keep population constant"
	logMsgReplacementsInserted = "replacement orders inserted to keep population constant"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "orderstore operation: "

	logAttrError         = "error"
	logAttrQuery         = "query"
	logAttrSerialNumber  = "serial_number"
	logAttrRowCount      = "row_count"
	logAttrTotalMatching = "total_matching"
	logAttrRowsAffected  = "rows_affected"
	logAttrDurationMS    = "duration_ms"

	logActionQuery    = "query"
	logActionMutation = "mutation"
)

// Column names of the orders table, in canonical select/insert order.
const (
	colSerialNumber           = "sn"
	colPartNumber             = "part_number"
	colDescription            = "description"
	colQty                    = "qty"
	colCustomer               = "customer"
	colCustPO                 = "cust_po"
	colPODate                 = "po_date"
	colTerm                   = "term"
	colCurrency               = "currency"
	colPOValue                = "po_value"
	colCosts                  = "costs"
	colCustomsDuty            = "customs_duty"
	colFreightCost            = "freight_cost"
	colGrossProfit            = "gross_profit"
	colNetProfit              = "net_profit"
	colProfitPercent          = "profit_percent"
	colProfitPercentAfterCost = "profit_percent_after_cost"
	colStatus                 = "status"
	colPaymentReceived        = "payment_received"
	colInvestorPaid           = "investor_paid"
	colRemarks                = "remarks"
	colTargetDate             = "target_date"
	colDispatchDate           = "dispatch_date"
	colSupplier               = "supplier"
	colSupplierPO             = "supplier_po"
	colSupplierPODate         = "supplier_po_date"
	colAWBToUAE               = "awb_to_uae"
	colHAInvDate              = "ha_inv_date"
	colHAInv                  = "ha_inv"
	colANPODate               = "an_po_date"
	colANPO                   = "an_po"
	colANInvDate              = "an_inv_date"
	colANInv                  = "an_inv"
	colAudited                = "audited"
	colStability              = "stability"
	colLastEdited             = "last_edited"
	colCreatedAt              = "created_at"
	colUpdatedAt              = "updated_at"
)

// Column names of the customers table.
const (
	colCustomerID        = "id"
	colCustomerName      = "name"
	colCustomerCreatedAt = "created_at"
	colCustomerUpdatedAt = "updated_at"
)

type (
	sqlQueryString = string
	clockFunc      = func() time.Time
	generatorFunc  = func(serialNumber int64) orderstore.Order
)

// OrderStore is the PostgreSQL implementation of the order dashboard's
// persistence contract. It leverages a database adapter and supports
// customizable logging, metrics, tracing, table names, clock, and
// replacement-order generation.
type OrderStore struct {
	db                 adapters.DBAdapter
	ordersTableName    string
	customersTableName string
	logger             orderstore.Logger
	contextualLogger   orderstore.ContextualLogger
	metricsCollector   orderstore.MetricsCollector
	tracingCollector   orderstore.TracingCollector
	clock              clockFunc
	generateOrder      generatorFunc
}

// NewOrderStoreFromPGXPool creates a new OrderStore using a pgx pool with optional configuration.
func NewOrderStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*OrderStore, error) {
	if db == nil {
		return nil, orderstore.ErrNilDatabaseConnection
	}

	return newOrderStore(adapters.NewPGXAdapter(db), options...)
}

// NewOrderStoreFromPGXPoolWithReplica creates a new OrderStore using a primary
// pgx pool and a replica pool for eventually consistent reads.
func NewOrderStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*OrderStore, error) {
	if db == nil || replica == nil {
		return nil, orderstore.ErrNilDatabaseConnection
	}

	return newOrderStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewOrderStoreFromSQLDB creates a new OrderStore using a sql.DB with optional configuration.
func NewOrderStoreFromSQLDB(db *sql.DB, options ...Option) (*OrderStore, error) {
	if db == nil {
		return nil, orderstore.ErrNilDatabaseConnection
	}

	return newOrderStore(adapters.NewSQLAdapter(db), options...)
}

// NewOrderStoreFromSQLX creates a new OrderStore using a sqlx.DB with optional configuration.
func NewOrderStoreFromSQLX(db *sqlx.DB, options ...Option) (*OrderStore, error) {
	if db == nil {
		return nil, orderstore.ErrNilDatabaseConnection
	}

	return newOrderStore(adapters.NewSQLXAdapter(db), options...)
}

func newOrderStore(db adapters.DBAdapter, options ...Option) (*OrderStore, error) {
	store := &OrderStore{
		db:                 db,
		ordersTableName:    defaultOrdersTableName,
		customersTableName: defaultCustomersTableName,
		clock:              time.Now,
		generateOrder:      defaultReplacementGenerator,
	}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// defaultReplacementGenerator backs the fixed-population replacement inserts
// when no custom generator is configured.
func defaultReplacementGenerator(serialNumber int64) orderstore.Order {
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // fixture data, not security sensitive

	return orderstore.GenerateRandomOrder(serialNumber, rng)
}

func orderColumns() []any {
	return []any{
		colSerialNumber,
		colPartNumber,
		colDescription,
		colQty,
		colCustomer,
		colCustPO,
		colPODate,
		colTerm,
		colCurrency,
		colPOValue,
		colCosts,
		colCustomsDuty,
		colFreightCost,
		colGrossProfit,
		colNetProfit,
		colProfitPercent,
		colProfitPercentAfterCost,
		colStatus,
		colPaymentReceived,
		colInvestorPaid,
		colRemarks,
		colTargetDate,
		colDispatchDate,
		colSupplier,
		colSupplierPO,
		colSupplierPODate,
		colAWBToUAE,
		colHAInvDate,
		colHAInv,
		colANPODate,
		colANPO,
		colANInvDate,
		colANInv,
		colAudited,
		colStability,
		colLastEdited,
		colCreatedAt,
		colUpdatedAt,
	}
}
