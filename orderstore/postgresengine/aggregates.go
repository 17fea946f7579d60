package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

const (
	aliasCount = "cnt"

	logActionAggregate = "aggregate"
)

// StatusCounts returns the status histogram over the whole collection.
// Statuses with no orders are absent from the map.
func (s *OrderStore) StatusCounts(ctx context.Context) (orderstore.StatusCounts, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(goqu.C(colStatus), goqu.COUNT(goqu.Star()).As(aliasCount)).
		GroupBy(goqu.C(colStatus)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionAggregate, errorTypeBuildQuery)

		return nil, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	counts := make(orderstore.StatusCounts)

	err := s.queryGroupedCounts(ctx, sqlQuery, func(key string, count int) {
		counts[key] = count
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// CustomerCounts returns the per-customer order histogram over the whole
// collection, keyed by the denormalized customer name on the orders.
func (s *OrderStore) CustomerCounts(ctx context.Context) (orderstore.CustomerCounts, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(goqu.C(colCustomer), goqu.COUNT(goqu.Star()).As(aliasCount)).
		GroupBy(goqu.C(colCustomer)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionAggregate, errorTypeBuildQuery)

		return nil, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	counts := make(orderstore.CustomerCounts)

	err := s.queryGroupedCounts(ctx, sqlQuery, func(key string, count int) {
		counts[key] = count
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// POValueRange returns the [min, max] PO value across all orders, {0, 0} for
// an empty collection.
func (s *OrderStore) POValueRange(ctx context.Context) (orderstore.POValueRange, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(s.ordersTableName).
		Select(
			goqu.COALESCE(goqu.MIN(goqu.C(colPOValue)), 0),
			goqu.COALESCE(goqu.MAX(goqu.C(colPOValue)), 0),
		).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionAggregate, errorTypeBuildQuery)

		return orderstore.POValueRange{}, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionAggregate, errorTypeQuery)

		return orderstore.POValueRange{}, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	var valueRange orderstore.POValueRange

	if rows.Next() {
		if scanErr := rows.Scan(&valueRange.Min, &valueRange.Max); scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionAggregate, errorTypeScan)

			return orderstore.POValueRange{}, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	return valueRange, nil
}

// queryGroupedCounts runs a (key, count) grouped query and feeds each row to collect.
func (s *OrderStore) queryGroupedCounts(ctx context.Context, sqlQuery sqlQueryString, collect func(key string, count int)) error {
	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionAggregate, errorTypeQuery)

		return errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	for rows.Next() {
		var (
			key   string
			count int
		)

		if scanErr := rows.Scan(&key, &count); scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionAggregate, errorTypeScan)

			return errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}

		collect(key, count)
	}

	return nil
}
