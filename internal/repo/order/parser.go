package order_repo

import (
	"fmt"

	"marketplace/internal/domain/order"

	"github.com/jackc/pgx/v5"
)

// ParseOrderRow scans a row selected with Columns.
func ParseOrderRow(row pgx.Row) (order.Order, error) {
	var m Order

	err := row.Scan(
		&m.ID, &m.PaymentID, &m.CustomerID, &m.VendorID, &m.Items, &m.Subtotal, &m.ShippingFee, &m.Shipping,
		&m.TrackingNumber, &m.PaymentMethod, &m.PaymentStatus, &m.Status, &m.EscrowStatus,
		&m.HoldReason, &m.RefundRequestedBy, &m.RefundReason, &m.RefundAmount, &m.RefundPaymentID,
		&m.ReleasedAt, &m.RefundedAt,
		&m.CommissionAmount, &m.CommissionStatus, &m.CommissionRemittedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	return m.toDomain()
}

func ParseOrderRows(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var orders []order.Order

	for rows.Next() {
		o, err := ParseOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}
