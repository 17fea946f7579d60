package postgresengine

import (
	"context"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine/internal/adapters"
)

const (
	aliasOrderCount = "order_count"

	logActionCustomer = "customer"

	logMsgCustomerCreated = "customer created"
	logMsgCustomerRenamed = "customer renamed"
	logMsgCustomerDeleted = "customer deleted"

	logAttrCustomerID = "customer_id"
)

// ListCustomers returns the whole directory sorted by name, each entry joined
// with the number of orders currently carrying that exact name. Orders
// reference customers by denormalized name, so a rename does not follow
// through to existing orders.
func (s *OrderStore) ListCustomers(ctx context.Context) ([]orderstore.CustomerWithOrderCount, error) {
	customers := goqu.T(s.customersTableName)
	orders := goqu.T(s.ordersTableName)

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(customers).
		LeftJoin(orders, goqu.On(customers.Col(colCustomerName).Eq(orders.Col(colCustomer)))).
		Select(
			customers.Col(colCustomerID),
			customers.Col(colCustomerName),
			customers.Col(colCustomerCreatedAt),
			customers.Col(colCustomerUpdatedAt),
			goqu.COUNT(orders.Col(colSerialNumber)).As(aliasOrderCount),
		).
		GroupBy(
			customers.Col(colCustomerID),
			customers.Col(colCustomerName),
			customers.Col(colCustomerCreatedAt),
			customers.Col(colCustomerUpdatedAt),
		).
		Order(customers.Col(colCustomerName).Asc()).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return nil, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeQuery)

		return nil, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	entries := make([]orderstore.CustomerWithOrderCount, 0)

	for rows.Next() {
		var entry orderstore.CustomerWithOrderCount

		scanErr := rows.Scan(&entry.ID, &entry.Name, &entry.CreatedAt, &entry.UpdatedAt, &entry.OrderCount)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionCustomer, errorTypeScan)

			return nil, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// CustomerNames returns just the directory names sorted alphabetically, for
// dropdown population.
func (s *OrderStore) CustomerNames(ctx context.Context) ([]string, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(s.customersTableName).
		Select(goqu.C(colCustomerName)).
		Order(goqu.C(colCustomerName).Asc()).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return nil, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeQuery)

		return nil, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	names := make([]string, 0)

	for rows.Next() {
		var name string

		if scanErr := rows.Scan(&name); scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionCustomer, errorTypeScan)

			return nil, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}

		names = append(names, name)
	}

	return names, nil
}

// GetCustomerByName looks a directory entry up by case-insensitive,
// whitespace-normalized name, or ErrCustomerNotFound.
func (s *OrderStore) GetCustomerByName(ctx context.Context, name string) (orderstore.Customer, error) {
	normalized := orderstore.NormalizeCustomerName(name)

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(s.customersTableName).
		Select(goqu.C(colCustomerID), goqu.C(colCustomerName), goqu.C(colCustomerCreatedAt), goqu.C(colCustomerUpdatedAt)).
		Where(goqu.Func("LOWER", goqu.C(colCustomerName)).Eq(strings.ToLower(normalized))).
		Limit(1).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return orderstore.Customer{}, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeQuery)

		return orderstore.Customer{}, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return orderstore.Customer{}, orderstore.ErrCustomerNotFound
	}

	var customer orderstore.Customer

	if scanErr := rows.Scan(&customer.ID, &customer.Name, &customer.CreatedAt, &customer.UpdatedAt); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeScan)

		return orderstore.Customer{}, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
	}

	return customer, nil
}

// CreateCustomer inserts a new directory entry. The name is stored as
// entered after whitespace normalization; identity conflicts are checked
// case-insensitively inside the transaction.
func (s *OrderStore) CreateCustomer(ctx context.Context, name string) (orderstore.Customer, error) {
	if err := orderstore.ValidateCustomerName(name); err != nil {
		return orderstore.Customer{}, err
	}

	normalized := orderstore.NormalizeCustomerName(name)
	now := s.clock()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionCustomer, errorTypeTx)

		return orderstore.Customer{}, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	conflict, err := s.customerNameTaken(ctx, tx, normalized, 0)
	if err != nil {
		return orderstore.Customer{}, err
	}

	if conflict {
		return orderstore.Customer{}, orderstore.ErrCustomerExists
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Insert(s.customersTableName).
		Rows(goqu.Record{
			colCustomerName:      normalized,
			colCustomerCreatedAt: now,
			colCustomerUpdatedAt: now,
		}).
		Returning(goqu.C(colCustomerID)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return orderstore.Customer{}, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeExec)

		return orderstore.Customer{}, errors.Join(orderstore.ErrPersistence, err)
	}

	customer := orderstore.Customer{Name: normalized, CreatedAt: now, UpdatedAt: now}

	if rows.Next() {
		if scanErr := rows.Scan(&customer.ID); scanErr != nil {
			s.closeRows(rows)
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionCustomer, errorTypeScan)

			return orderstore.Customer{}, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	s.closeRows(rows)

	if err = tx.Commit(ctx); err != nil {
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionCustomer, errorTypeTx)

		return orderstore.Customer{}, errors.Join(orderstore.ErrPersistence, err)
	}

	s.logOperation(logMsgCustomerCreated, logAttrCustomerID, customer.ID)

	return customer, nil
}

// RenameCustomer changes a directory entry's name. Existing orders keep the
// old denormalized name. Renaming onto another entry's identity fails with
// ErrCustomerExists; renaming that only changes casing or spacing of the same
// entry is allowed.
func (s *OrderStore) RenameCustomer(ctx context.Context, id int64, newName string) error {
	if err := orderstore.ValidateCustomerName(newName); err != nil {
		return err
	}

	normalized := orderstore.NormalizeCustomerName(newName)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logErrorContext(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(logActionCustomer, errorTypeTx)

		return errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.rollback(ctx, tx)

	conflict, err := s.customerNameTaken(ctx, tx, normalized, id)
	if err != nil {
		return err
	}

	if conflict {
		return orderstore.ErrCustomerExists
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Update(s.customersTableName).
		Set(goqu.Record{
			colCustomerName:      normalized,
			colCustomerUpdatedAt: s.clock(),
		}).
		Where(goqu.C(colCustomerID).Eq(id)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	result, err := tx.Exec(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logError(logMsgRowsAffectedFailed, err)
		s.recordErrorMetrics(logActionCustomer, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	if affected == 0 {
		s.recordErrorMetrics(logActionCustomer, errorTypeNotFound)

		return orderstore.ErrCustomerNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		s.logErrorContext(ctx, logMsgCommitTxFailed, err)
		s.recordErrorMetrics(logActionCustomer, errorTypeTx)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	s.logOperation(logMsgCustomerRenamed, logAttrCustomerID, id)

	return nil
}

// DeleteCustomer removes a directory entry. Orders carrying its name keep it;
// only the directory row goes away.
func (s *OrderStore) DeleteCustomer(ctx context.Context, id int64) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(s.customersTableName).
		Where(goqu.C(colCustomerID).Eq(id)).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	result, err := s.db.Exec(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logError(logMsgRowsAffectedFailed, err)
		s.recordErrorMetrics(logActionCustomer, errorTypeExec)

		return errors.Join(orderstore.ErrPersistence, err)
	}

	if affected == 0 {
		s.recordErrorMetrics(logActionCustomer, errorTypeNotFound)

		return orderstore.ErrCustomerNotFound
	}

	s.logOperation(logMsgCustomerDeleted, logAttrCustomerID, id)

	return nil
}

// CustomerOrders returns every order carrying the exact customer name,
// oldest purchase order first.
func (s *OrderStore) CustomerOrders(ctx context.Context, customerName string) ([]orderstore.Order, error) {
	sqlQuery, _, toSQLErr := s.selectOrders().
		Where(goqu.C(colCustomer).Eq(customerName)).
		Order(goqu.C(colPODate).Asc(), goqu.C(colSerialNumber).Asc()).
		ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return nil, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeQuery)

		return nil, errors.Join(orderstore.ErrQueryingOrdersFailed, err)
	}
	defer s.closeRows(rows)

	orders := make([]orderstore.Order, 0)

	for rows.Next() {
		order, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionCustomer, errorTypeScan)

			return nil, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

// customerNameTaken checks whether another directory entry already claims the
// normalized name, case-insensitively. excludeID skips the entry being
// renamed; zero excludes nothing.
func (s *OrderStore) customerNameTaken(ctx context.Context, tx adapters.DBTx, normalizedName string, excludeID int64) (bool, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(s.customersTableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Func("LOWER", goqu.C(colCustomerName)).Eq(strings.ToLower(normalizedName)))

	if excludeID != 0 {
		stmt = stmt.Where(goqu.C(colCustomerID).Neq(excludeID))
	}

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		s.recordErrorMetrics(logActionCustomer, errorTypeBuildQuery)

		return false, errors.Join(orderstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(logActionCustomer, errorTypeQuery)

		return false, errors.Join(orderstore.ErrPersistence, err)
	}
	defer s.closeRows(rows)

	var count int

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(logActionCustomer, errorTypeScan)

			return false, errors.Join(orderstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	return count > 0, nil
}
