package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine/internal/adapters"
)

const (
	logMsgOrdersSeeded    = "order population seeded"
	logMsgCustomersSeeded = "customer directory seeded"

	seedInsertBatchSize = 500
)

// SeedOrders replaces the entire order population with the given orders in one
// transaction. It is meant for initial seeding and test fixtures, not for
// regular operation.
func (s *OrderStore) SeedOrders(ctx context.Context, orders []orderstore.Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	if err = s.deleteAllRows(ctx, tx, s.ordersTableName); err != nil {
		return err
	}

	for start := 0; start < len(orders); start += seedInsertBatchSize {
		end := min(start+seedInsertBatchSize, len(orders))

		if err = s.insertOrders(ctx, tx, orders[start:end]...); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	s.logOperation(logMsgOrdersSeeded, logAttrRowCount, len(orders))

	return nil
}

// SeedCustomers replaces the customer directory with the given names, in one
// transaction. Identifiers are assigned by the database.
func (s *OrderStore) SeedCustomers(ctx context.Context, names []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	if err = s.deleteAllRows(ctx, tx, s.customersTableName); err != nil {
		return err
	}

	now := s.clock()

	records := make([]any, 0, len(names))
	for _, name := range names {
		records = append(records, goqu.Record{
			colCustomerName:      orderstore.NormalizeCustomerName(name),
			colCustomerCreatedAt: now,
			colCustomerUpdatedAt: now,
		})
	}

	if len(records) > 0 {
		sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
			Insert(s.customersTableName).
			Rows(records...).
			ToSQL()
		if toSQLErr != nil {
			s.logError(logMsgBuildQueryFailed, toSQLErr)
			s.recordErrorMetrics(logActionMutation, errorTypeBuildQuery)

			return errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
		}

		if _, err = tx.Exec(ctx, sqlQuery); err != nil {
			s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
			s.recordErrorMetrics(logActionMutation, errorTypeExec)

			return errors.Join(orderstore.ErrPersistence, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionMutation, errorTypeTx)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	s.logOperation(logMsgCustomersSeeded, logAttrRowCount, len(names))

	return nil
}

// deleteAllRows clears a table inside the seeding transaction.
func (s *OrderStore) deleteAllRows(ctx context.Context, tx adapters.DBTx, tableName string) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(tableName).
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
