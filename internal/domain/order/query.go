package order

import (
	"fmt"
	"slices"
)

type Pagination struct {
	PageSize   int
	PageNumber int
}

type OrdersQuery struct {
	IDs                []string
	CustomerIDs        []string
	VendorIDs          []string
	PaymentIDs         []string
	EscrowStatuses     []EscrowStatus
	PaymentMethods     []PaymentMethod
	CommissionStatuses []CommissionStatus
	Pagination         *Pagination
	SortBy             *string
	SortOrder          *string
}

func (q *OrdersQuery) Validate() error {
	if q.SortBy != nil && !slices.Contains([]string{"created_at", "updated_at", "subtotal"}, *q.SortBy) {
		return fmt.Errorf("invalid sort by: %s", *q.SortBy)
	}
	if q.SortOrder != nil && *q.SortOrder != "asc" && *q.SortOrder != "desc" {
		return fmt.Errorf("invalid sort order: %s", *q.SortOrder)
	}
	if q.Pagination != nil && (q.Pagination.PageSize <= 0 || q.Pagination.PageNumber <= 0) {
		return fmt.Errorf("invalid pagination: page %d size %d", q.Pagination.PageNumber, q.Pagination.PageSize)
	}
	return nil
}

type OrdersQueryBuilder struct {
	query *OrdersQuery
}

func NewOrdersQueryBuilder() *OrdersQueryBuilder {
	return &OrdersQueryBuilder{query: &OrdersQuery{}}
}

func (b *OrdersQueryBuilder) Build() (*OrdersQuery, error) {
	if err := b.query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, err.Error())
	}
	return b.query, nil
}

func (b *OrdersQueryBuilder) WithIDs(ids ...string) *OrdersQueryBuilder {
	b.query.IDs = ids
	return b
}

func (b *OrdersQueryBuilder) WithCustomerIDs(ids ...string) *OrdersQueryBuilder {
	b.query.CustomerIDs = ids
	return b
}

func (b *OrdersQueryBuilder) WithVendorIDs(ids ...string) *OrdersQueryBuilder {
	b.query.VendorIDs = ids
	return b
}

func (b *OrdersQueryBuilder) WithPaymentIDs(ids ...string) *OrdersQueryBuilder {
	b.query.PaymentIDs = ids
	return b
}

func (b *OrdersQueryBuilder) WithEscrowStatuses(statuses ...EscrowStatus) *OrdersQueryBuilder {
	b.query.EscrowStatuses = statuses
	return b
}

func (b *OrdersQueryBuilder) WithPaymentMethods(methods ...PaymentMethod) *OrdersQueryBuilder {
	b.query.PaymentMethods = methods
	return b
}

func (b *OrdersQueryBuilder) WithCommissionStatuses(statuses ...CommissionStatus) *OrdersQueryBuilder {
	b.query.CommissionStatuses = statuses
	return b
}

func (b *OrdersQueryBuilder) WithPagination(pageSize, pageNumber int) *OrdersQueryBuilder {
	b.query.Pagination = &Pagination{PageSize: pageSize, PageNumber: pageNumber}
	return b
}

func (b *OrdersQueryBuilder) WithSort(by, order string) *OrdersQueryBuilder {
	b.query.SortBy = &by
	b.query.SortOrder = &order
	return b
}
