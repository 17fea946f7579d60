package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine/internal/adapters"
)

// Query executes one paginated order query. The page rows and the total
// matching count are read inside a single transaction so both reflect the
// same snapshot of the collection.
func (s *OrderStore) Query(ctx context.Context, req orderstore.QueryRequest) ([]orderstore.Order, int, error) {
	start := time.Now()

	ctx, span := s.startSpan(ctx, logActionQuery)

	rowsSQL, countSQL, err := s.buildQuerySQL(req)
	if err != nil {
		s.finishSpan(span, err)
		s.recordErrorMetrics(logActionQuery, errorTypeBuildQuery)

		return nil, 0, err
	}

	orders, total, err := s.queryRowsAndCount(ctx, rowsSQL, countSQL)
	if err != nil {
		s.finishSpan(span, err)

		return nil, 0, err
	}

	duration := time.Since(start)
	s.finishSpan(span, nil)
	s.recordDurationMetrics(orderstore.MetricQueryDuration, duration, logActionQuery, statusSuccess)
	s.logQueryWithDuration(rowsSQL, logActionQuery, duration)
	s.logOperation(logMsgQueryCompleted, logAttrRowCount, len(orders), logAttrTotalMatching, total)

	return orders, total, nil
}

// GetBySerial loads one order by serial number, or ErrOrderNotFound.
func (s *OrderStore) GetBySerial(ctx context.Context, serialNumber int64) (orderstore.Order, error) {
	sqlQuery, _, toSQLErr := s.selectOrders().
		Where(goqu.C(colSerialNumber).Eq(serialNumber)).
		Limit(1).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionQuery, errorTypeBuildQuery)

		return orderstore.Order{}, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionQuery, errorTypeQuery)

		return orderstore.Order{}, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return orderstore.Order{}, orderstore.ErrOrderNotFound
	}

	order, err := scanOrderRow(rows)
	if err != nil {
		s.logError(logMsgScanRowFailed, err)
		s.recordErrorMetrics(logActionQuery, errorTypeScan)

		return orderstore.Order{}, errors.Join(orderstore.ErrScanningDBRowFailed, err)
	}

	return order, nil
}

// GetBySlug loads one order addressed by its detail-view slug
// ("sn-custPo-partNumber"). A malformed slug reads as not found.
func (s *OrderStore) GetBySlug(ctx context.Context, slug string) (orderstore.Order, error) {
	serialNumber, ok := orderstore.ParseOrderSlug(slug)
	if !ok {
		return orderstore.Order{}, orderstore.ErrOrderNotFound
	}

	return s.GetBySerial(ctx, serialNumber)
}

// buildQuerySQL compiles the request into the page-rows query and the
// matching-count query, sharing one predicate.
func (s *OrderStore) buildQuerySQL(req orderstore.QueryRequest) (sqlQueryString, sqlQueryString, error) {
	clauses, join := req.EffectiveClauses()

	whereExpr, err := compileFilterExpr(clauses, join)
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)

		return "", "", err
	}

	rowsStmt := s.selectOrders().
		Order(s.orderings(req.Sort)...).
		Limit(uint(req.PerPage)).   //nolint:gosec // validated >= 1
		Offset(uint(req.Offset())) //nolint:gosec // validated >= 0

	countStmt := goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(goqu.COUNT(goqu.Star()))

	if whereExpr != nil {
		rowsStmt = rowsStmt.Where(whereExpr)
		countStmt = countStmt.Where(whereExpr)
	}

	rowsSQL, _, err := rowsStmt.ToSQL()
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)

		return "", "", errors.Join(orderstore.ErrBuildingQueryFailed, err)
	}

	countSQL, _, err := countStmt.ToSQL()
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)

		return "", "", errors.Join(orderstore.ErrBuildingQueryFailed, err)
	}

	return rowsSQL, countSQL, nil
}

// orderings maps the requested sort onto column order expressions.
// Without an explicit sort the newest orders come first; the serial number is
// always appended as the final tiebreak so pagination is deterministic.
func (s *OrderStore) orderings(sort []orderstore.SortField) []exp.OrderedExpression {
	if len(sort) == 0 {
		return []exp.OrderedExpression{
			goqu.C(colCreatedAt).Desc(),
			goqu.C(colSerialNumber).Desc(),
		}
	}

	orderings := make([]exp.OrderedExpression, 0, len(sort)+1)

	for _, sortField := range sort {
		field, ok := orderstore.FieldByID(sortField.Field)
		if !ok {
			continue // validated upstream, skip rather than panic
		}

		if sortField.Desc {
			orderings = append(orderings, goqu.C(field.Column).Desc())
		} else {
			orderings = append(orderings, goqu.C(field.Column).Asc())
		}
	}

	return append(orderings, goqu.C(colSerialNumber).Asc())
}

// queryRowsAndCount runs both statements in one transaction and scans the results.
func (s *OrderStore) queryRowsAndCount(ctx context.Context, rowsSQL, countSQL sqlQueryString) ([]orderstore.Order, int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionQuery, errorTypeTx)

		return nil, 0, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.rollback(ctx, tx)

	orders, err := s.queryOrderRows(ctx, tx, rowsSQL)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.queryCount(ctx, tx, countSQL)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionQuery, errorTypeTx)

		return nil, 0, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}

	return orders, total, nil
}

func (s *OrderStore) queryOrderRows(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) ([]orderstore.Order, error) {
	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionQuery, errorTypeQuery)

		return nil, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	orders := make([]orderstore.Order, 0)

	for rows.Next() {
		order, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionQuery, errorTypeScan)

			return nil, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

func (s *OrderStore) queryCount(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) (int, error) {
	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionQuery, errorTypeQuery)

		return 0, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	var count int

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionQuery, errorTypeScan)

			return 0, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	return count, nil
}

// selectOrders starts a select over all order columns in canonical order.
func (s *OrderStore) selectOrders() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(orderColumns()...)
}

// closeRows closes database rows and logs any error that occurs during closing.
func (s *OrderStore) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.logError(logMsgCloseRowsFailed, err)
	}
}

// rollback rolls a transaction back, tolerating the no-op error after commit.
func (s *OrderStore) rollback(ctx context.Context, tx adapters.DBTx) {
	_ = tx.Rollback(ctx)
}

// scanOrderRow scans one row of the canonical column list into an Order,
// unwrapping the nullable monetary, profit, and date columns.
func scanOrderRow(rows adapters.DBRows) (orderstore.Order, error) {
	var (
		order                  orderstore.Order
		customsDuty            sql.NullFloat64
		freightCost            sql.NullFloat64
		grossProfit            sql.NullFloat64
		netProfit              sql.NullFloat64
		profitPercent          sql.NullFloat64
		profitPercentAfterCost sql.NullFloat64
		targetDate             sql.NullTime
		dispatchDate           sql.NullTime
	)

	err := rows.Scan(
		&order.SerialNumber,
		&order.PartNumber,
		&order.Description,
		&order.Qty,
		&order.Customer,
		&order.CustPO,
		&order.PODate,
		&order.Term,
		&order.Currency,
		&order.POValue,
		&order.Costs,
		&customsDuty,
		&freightCost,
		&grossProfit,
		&netProfit,
		&profitPercent,
		&profitPercentAfterCost,
		&order.Status,
		&order.PaymentReceived,
		&order.InvestorPaid,
		&order.Remarks,
		&targetDate,
		&dispatchDate,
		&order.Supplier,
		&order.SupplierPO,
		&order.SupplierPODate,
		&order.AWBToUAE,
		&order.HAInvDate,
		&order.HAInv,
		&order.ANPODate,
		&order.ANPO,
		&order.ANInvDate,
		&order.ANInv,
		&order.Audited,
		&order.Stability,
		&order.LastEdited,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return orderstore.Order{}, err
	}

	order.CustomsDuty = nullableFloat(customsDuty)
	order.FreightCost = nullableFloat(freightCost)
	order.GrossProfit = nullableFloat(grossProfit)
	order.NetProfit = nullableFloat(netProfit)
	order.ProfitPercent = nullableFloat(profitPercent)
	order.ProfitPercentAfterCost = nullableFloat(profitPercentAfterCost)
	order.TargetDate = nullableTime(targetDate)
	order.DispatchDate = nullableTime(dispatchDate)

	return order, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	value := v.Float64

	return &value
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}

	value := v.Time

	return &value
}
