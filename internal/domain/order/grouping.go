package order

import "marketplace/internal/domain/payment"

type VendorGroup struct {
	VendorID string
	Items    []Item
}

// GroupByVendor splits snapshot items into per-vendor groups in order of
// first appearance. Items without a vendor are dropped and counted.
func GroupByVendor(items []payment.SnapshotItem) (groups []VendorGroup, dropped int) {
	index := make(map[string]int)
	for _, it := range items {
		if it.VendorID == "" {
			dropped++
			continue
		}
		i, ok := index[it.VendorID]
		if !ok {
			i = len(groups)
			index[it.VendorID] = i
			groups = append(groups, VendorGroup{VendorID: it.VendorID})
		}
		groups[i].Items = append(groups[i].Items, Item{
			ProductID: it.ProductID,
			OptionID:  it.OptionID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return groups, dropped
}
