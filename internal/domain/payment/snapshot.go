package payment

import "time"

// CheckoutSnapshot is the immutable copy of the cart captured when the
// checkout payment is created. Order materialization reads nothing else.
type CheckoutSnapshot struct {
	Items           []SnapshotItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress Address        `json:"shipping_address"`
	CustomerName    string         `json:"customer_name" validate:"required"`
	CustomerPhone   string         `json:"customer_phone" validate:"required"`
	ShippingMethod  string         `json:"shipping_method" validate:"required"`
	ShippingFee     int64          `json:"shipping_fee" validate:"gte=0"`
	CapturedAt      time.Time      `json:"captured_at"`
}

// SnapshotItem is one cart line. VendorID may be empty in legacy carts;
// such lines are dropped when orders are materialized.
type SnapshotItem struct {
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id" validate:"required"`
	OptionID  string `json:"option_id,omitempty"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price" validate:"gt=0"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type Address struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country" validate:"required,len=2"`
}

func (i SnapshotItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

func (s CheckoutSnapshot) ItemsTotal() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.LineTotal()
	}
	return total
}

// Total is the amount charged for the snapshot.
func (s CheckoutSnapshot) Total() int64 {
	return s.ItemsTotal() + s.ShippingFee
}

// VendorIDs returns distinct non-empty vendor IDs in order of first appearance.
func (s CheckoutSnapshot) VendorIDs() []string {
	seen := make(map[string]struct{}, len(s.Items))
	var ids []string
	for _, item := range s.Items {
		if item.VendorID == "" {
			continue
		}
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		ids = append(ids, item.VendorID)
	}
	return ids
}
