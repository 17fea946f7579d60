// Package dashboard implements the application services of the order
// dashboard on top of the order store: memoized best-effort queries,
// validated mutations with tag-based cache invalidation, and the customer
// directory.
package dashboard

import (
	"context"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

// OrderStorage is the persistence contract the dashboard services consume.
// The PostgreSQL engine implements it.
type OrderStorage interface {
	Query(ctx context.Context, req orderstore.QueryRequest) ([]orderstore.Order, int, error)
	GetBySerial(ctx context.Context, serialNumber int64) (orderstore.Order, error)
	GetBySlug(ctx context.Context, slug string) (orderstore.Order, error)

	StatusCounts(ctx context.Context) (orderstore.StatusCounts, error)
	CustomerCounts(ctx context.Context) (orderstore.CustomerCounts, error)
	POValueRange(ctx context.Context) (orderstore.POValueRange, error)

	CreateOrder(ctx context.Context, input orderstore.CreateOrderInput) (orderstore.Order, error)
	UpdateOrder(ctx context.Context, serialNumber int64, input orderstore.UpdateOrderInput) (orderstore.Order, error)
	BulkUpdate(ctx context.Context, input orderstore.BulkUpdateInput) (int64, error)
	DeleteOrder(ctx context.Context, serialNumber int64) error
	DeleteOrders(ctx context.Context, serialNumbers []int64) (int, error)
}

// CustomerStorage is the customer directory persistence contract.
type CustomerStorage interface {
	ListCustomers(ctx context.Context) ([]orderstore.CustomerWithOrderCount, error)
	CustomerNames(ctx context.Context) ([]string, error)
	GetCustomerByName(ctx context.Context, name string) (orderstore.Customer, error)
	CreateCustomer(ctx context.Context, name string) (orderstore.Customer, error)
	RenameCustomer(ctx context.Context, id int64, newName string) error
	DeleteCustomer(ctx context.Context, id int64) error
	CustomerOrders(ctx context.Context, customerName string) ([]orderstore.Order, error)
}
