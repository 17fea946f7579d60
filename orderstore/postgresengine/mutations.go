package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine/internal/adapters"
)

// CreateOrder inserts a new order assembled from validated input. The serial
// number is assigned inside the transaction as max existing + 1, and the
// oldest order (by creation time, excluding the new one) is evicted so the
// population size stays constant.
func (s *OrderStore) CreateOrder(ctx context.Context, input orderstore.CreateOrderInput) (orderstore.Order, error) {
	start := time.Now()

	ctx, span := s.startSpan(ctx, "create_order")

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return orderstore.Order{}, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	maxSerial, err := s.queryMaxSerialNumber(ctx, tx)
	if err != nil {
		s.finishSpan(span, err)

		return orderstore.Order{}, err
	}

	order := s.buildOrderFromInput(input, maxSerial+1)

	if err = s.insertOrders(ctx, tx, order); err != nil {
		s.finishSpan(span, err)

		return orderstore.Order{}, err
	}

	if err = s.evictOldestOrder(ctx, tx, order.SerialNumber); err != nil {
		s.finishSpan(span, err)

		return orderstore.Order{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return orderstore.Order{}, errors.Join(orderstore.ErrPersistence, err)
	}

	s.finishSpan(span, nil)
	s.recordDurationMetrics(orderstore.MetricMutationDuration, time.Since(start), logActionMutation, statusSuccess)
	s.logOperation(logMsgOrderCreated, logAttrSerialNumber, order.SerialNumber)

	return order, nil
}

// UpdateOrder merges the partial input into the stored order and writes the
// whole record back. When any monetary input changes, the profit fields are
// re-derived from the merged values before the write. The returned order is
// the post-write state.
func (s *OrderStore) UpdateOrder(ctx context.Context, serialNumber int64, input orderstore.UpdateOrderInput) (orderstore.Order, error) {
	start := time.Now()

	ctx, span := s.startSpan(ctx, "update_order")

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return orderstore.Order{}, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	order, err := s.queryOrderForUpdate(ctx, tx, serialNumber)
	if err != nil {
		s.finishSpan(span, err)

		return orderstore.Order{}, err
	}

	input.ApplyTo(&order)

	if input.TouchesMonetaryInputs() {
		order.ApplyProfit(orderstore.DeriveProfit(order.POValue, order.Costs, order.CustomsDuty, order.FreightCost))
	}

	now := s.clock()
	order.LastEdited = now
	order.UpdatedAt = now

	if err = s.writeOrder(ctx, tx, order); err != nil {
		s.finishSpan(span, err)

		return orderstore.Order{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return orderstore.Order{}, errors.Join(orderstore.ErrPersistence, err)
	}

	s.finishSpan(span, nil)
	s.recordDurationMetrics(orderstore.MetricMutationDuration, time.Since(start), logActionMutation, statusSuccess)
	s.logOperation(logMsgOrderUpdated, logAttrSerialNumber, order.SerialNumber)

	return order, nil
}

// BulkUpdate applies the present status/flag fields uniformly to all listed
// serial numbers as one statement, so the change is all-or-nothing. It
// returns the number of orders updated; ErrOrderNotFound when none of the
// serial numbers exist.
func (s *OrderStore) BulkUpdate(ctx context.Context, input orderstore.BulkUpdateInput) (int64, error) {
	start := time.Now()

	ctx, span := s.startSpan(ctx, "bulk_update")

	now := s.clock()
	record := goqu.Record{
		colLastEdited: now,
		colUpdatedAt:  now,
	}

	if input.Status != nil {
		record[colStatus] = *input.Status
	}

	if input.PaymentReceived != nil {
		record[colPaymentReceived] = *input.PaymentReceived
	}

	if input.InvestorPaid != nil {
		record[colInvestorPaid] = *input.InvestorPaid
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Update(s.ordersTableName).
		Set(record).
		Where(goqu.C(colSerialNumber).In(input.SerialNumbers)).
		ToSQL()
	if toSQLErr != nil {
		s.finishSpan(span, toSQLErr)
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return 0, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	result, err := s.db.Exec(ctx, sqlQuery)
	if err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.finishSpan(span, err)
		s.logError(logMsgRowsAffectedFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}

	if affected == 0 {
		s.finishSpan(span, orderstore.ErrOrderNotFound)
		s.recordErrorMetrics(logActionMutation, errorTypeNotFound)

		return 0, orderstore.ErrOrderNotFound
	}

	s.finishSpan(span, nil)
	s.recordDurationMetrics(orderstore.MetricMutationDuration, time.Since(start), logActionMutation, statusSuccess)
	s.logOperation(logMsgOrdersBulkUpdated, logAttrRowsAffected, affected)

	return affected, nil
}

// DeleteOrder removes one order and inserts a generated replacement.
func (s *OrderStore) DeleteOrder(ctx context.Context, serialNumber int64) error {
	_, err := s.DeleteOrders(ctx, []int64{serialNumber})
	return err
}

// DeleteOrders removes the listed orders and inserts one freshly generated
// replacement per row actually deleted, at serial numbers above the current
// maximum, keeping the population size constant. ErrOrderNotFound is returned
// when none of the serial numbers exist.
func (s *OrderStore) DeleteOrders(ctx context.Context, serialNumbers []int64) (int, error) {
	if len(serialNumbers) == 0 {
		return 0, orderstore.NewValidationError("at least one serial number is required")
	}

	start := time.Now()

	ctx, span := s.startSpan(ctx, "delete_orders")

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	deleted, err := s.deleteBySerialNumbers(ctx, tx, serialNumbers)
	if err != nil {
		s.finishSpan(span, err)

		return 0, err
	}

	if deleted == 0 {
		s.finishSpan(span, orderstore.ErrOrderNotFound)
		s.recordErrorMetrics(logActionMutation, errorTypeNotFound)

		return 0, orderstore.ErrOrderNotFound
	}

	maxSerial, err := s.queryMaxSerialNumber(ctx, tx)
	if err != nil {
		s.finishSpan(span, err)

		return 0, err
	}

	replacements := make([]orderstore.Order, 0, deleted)
	for i := range deleted {
		replacements = append(replacements, s.generateOrder(maxSerial+1+int64(i)))
	}

	if err = s.insertOrders(ctx, tx, replacements...); err != nil {
		s.finishSpan(span, err)

		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.finishSpan(span, err)
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}

	s.finishSpan(span, nil)
	s.recordDurationMetrics(orderstore.MetricMutationDuration, time.Since(start), logActionMutation, statusSuccess)
	s.logOperation(logMsgOrdersDeleted, logAttrRowsAffected, deleted)
	s.logOperation(logMsgReplacementsInserted, logAttrRowCount, len(replacements))

	return deleted, nil
}

// buildOrderFromInput assembles a full order from validated create input,
// stamping timestamps and deriving the profit fields.
func (s *OrderStore) buildOrderFromInput(input orderstore.CreateOrderInput, serialNumber int64) orderstore.Order {
	now := s.clock()

	order := orderstore.Order{
		SerialNumber:    serialNumber,
		PartNumber:      input.PartNumber,
		Description:     input.Description,
		Qty:             input.Qty,
		Customer:        input.Customer,
		CustPO:          input.CustPO,
		PODate:          input.PODate,
		Term:            input.Term,
		Currency:        input.Currency,
		POValue:         input.POValue,
		Costs:           input.Costs,
		CustomsDuty:     input.CustomsDuty,
		FreightCost:     input.FreightCost,
		Status:          input.Status,
		PaymentReceived: input.PaymentReceived,
		InvestorPaid:    input.InvestorPaid,
		Remarks:         input.Remarks,
		TargetDate:      input.TargetDate,
		DispatchDate:    input.DispatchDate,
		Supplier:        input.Supplier,
		SupplierPO:      input.SupplierPO,
		SupplierPODate:  input.SupplierPODate,
		AWBToUAE:        input.AWBToUAE,
		Stability:       input.Stability,
		LastEdited:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	order.ApplyProfit(orderstore.DeriveProfit(order.POValue, order.Costs, order.CustomsDuty, order.FreightCost))

	return order
}

// queryMaxSerialNumber reads the current maximum serial number inside the transaction.
func (s *OrderStore) queryMaxSerialNumber(ctx context.Context, tx adapters.DBTx) (int64, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(goqu.COALESCE(goqu.MAX(goqu.C(colSerialNumber)), 0)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return 0, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeQuery)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.closeRows(rows)

	var maxSerial int64

	if rows.Next() {
		if scanErr := rows.Scan(&maxSerial); scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionMutation, errorTypeScan)

			return 0, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	return maxSerial, nil
}

// queryOrderForUpdate loads the order being updated inside the transaction.
func (s *OrderStore) queryOrderForUpdate(ctx context.Context, tx adapters.DBTx, serialNumber int64) (orderstore.Order, error) {
	sqlQuery, _, toSQLErr := s.selectOrders().
		Where(goqu.C(colSerialNumber).Eq(serialNumber)).
		Limit(1).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return orderstore.Order{}, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeQuery)

		return orderstore.Order{}, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		s.recordErrorMetrics(logActionMutation, errorTypeNotFound)

		return orderstore.Order{}, orderstore.ErrOrderNotFound
	}

	order, scanErr := scanOrderRow(rows)
	if scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		s.recordErrorMetrics(logActionMutation, errorTypeScan)

		return orderstore.Order{}, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
	}

	return order, nil
}

// insertOrders inserts full order records inside the transaction.
func (s *OrderStore) insertOrders(ctx context.Context, tx adapters.DBTx, orders ...orderstore.Order) error {
	records := make([]any, 0, len(orders))
	for _, order := range orders {
		records = append(records, orderRecord(order))
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Insert(s.ordersTableName).
		Rows(records...).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	if _, err := tx.Exec(ctx, sqlQuery); err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	return nil
}

// writeOrder overwrites the stored record with the merged order state.
func (s *OrderStore) writeOrder(ctx context.Context, tx adapters.DBTx, order orderstore.Order) error {
	record := orderRecord(order)
	delete(record, colSerialNumber) // identity, never rewritten

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Update(s.ordersTableName).
		Set(record).
		Where(goqu.C(colSerialNumber).Eq(order.SerialNumber)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	if _, err := tx.Exec(ctx, sqlQuery); err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	return nil
}

// evictOldestOrder removes the oldest order by creation time, excluding the
// just-created serial number, so every create keeps the population constant.
func (s *OrderStore) evictOldestOrder(ctx context.Context, tx adapters.DBTx, excludeSerialNumber int64) error {
	oldest := goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(goqu.C(colSerialNumber)).
		Where(goqu.C(colSerialNumber).Neq(excludeSerialNumber)).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colSerialNumber).Asc()).
		Limit(1)

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(s.ordersTableName).
		Where(goqu.C(colSerialNumber).In(oldest)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	result, err := tx.Exec(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	if affected, affectedErr := result.RowsAffected(); affectedErr == nil && affected > 0 {
		s.logOperation(logMsgOldestOrderEvicted, logAttrRowsAffected, affected)
	}

	return nil
}

// deleteBySerialNumbers deletes the listed orders and returns how many rows went away.
func (s *OrderStore) deleteBySerialNumbers(ctx context.Context, tx adapters.DBTx, serialNumbers []int64) (int, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(s.ordersTableName).
		Where(goqu.C(colSerialNumber).In(serialNumbers)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

		return 0, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	result, err := tx.Exec(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logError(logMsgRowsAffectedFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeExec)

		return 0, errors.Join(orderstore.ErrPersistence, err)
	}

	return int(affected), nil
}

// orderRecord maps an order onto its column/value record for insert/update.
// Nil pointers become SQL NULLs.
func orderRecord(order orderstore.Order) goqu.Record {
	return goqu.Record{
		colSerialNumber:           order.SerialNumber,
		colPartNumber:             order.PartNumber,
		colDescription:            order.Description,
		colQty:                    order.Qty,
		colCustomer:               order.Customer,
		colCustPO:                 order.CustPO,
		colPODate:                 order.PODate,
		colTerm:                   order.Term,
		colCurrency:               order.Currency,
		colPOValue:                order.POValue,
		colCosts:                  order.Costs,
		colCustomsDuty:            nullableFloatValue(order.CustomsDuty),
		colFreightCost:            nullableFloatValue(order.FreightCost),
		colGrossProfit:            nullableFloatValue(order.GrossProfit),
		colNetProfit:              nullableFloatValue(order.NetProfit),
		colProfitPercent:          nullableFloatValue(order.ProfitPercent),
		colProfitPercentAfterCost: nullableFloatValue(order.ProfitPercentAfterCost),
		colStatus:                 order.Status,
		colPaymentReceived:        order.PaymentReceived,
		colInvestorPaid:           order.InvestorPaid,
		colRemarks:                order.Remarks,
		colTargetDate:             nullableTimeValue(order.TargetDate),
		colDispatchDate:           nullableTimeValue(order.DispatchDate),
		colSupplier:               order.Supplier,
		colSupplierPO:             order.SupplierPO,
		colSupplierPODate:         order.SupplierPODate,
		colAWBToUAE:               order.AWBToUAE,
		colHAInvDate:              order.HAInvDate,
		colHAInv:                  order.HAInv,
		colANPODate:               order.ANPODate,
		colANPO:                   order.ANPO,
		colANInvDate:              order.ANInvDate,
		colANInv:                  order.ANInv,
		colAudited:                order.Audited,
		colStability:              order.Stability,
		colLastEdited:             order.LastEdited,
		colCreatedAt:              order.CreatedAt,
		colUpdatedAt:              order.UpdatedAt,
	}
}

func nullableFloatValue(v *float64) any {
	if v == nil {
		return nil
	}

	return *v
}

func nullableTimeValue(v *time.Time) any {
	if v == nil {
		return nil
	}

	return *v
}
