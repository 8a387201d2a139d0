// Package analytics derives the admin dashboard figures from order history.
package analytics

import (
	"sort"

	"rnimart-be/internal/order"
)

// TopN is the length limit of the top product and top customer lists.
const TopN = 5

type ProductQty struct {
	Name string `json:"nama"`
	Qty  int    `json:"qty"`
}

type CustomerSpend struct {
	Name  string `json:"nama"`
	Total int64  `json:"total"`
}

type Stats struct {
	TotalRevenue int64           `json:"totalOmzet"`
	TotalOrders  int             `json:"totalOrders"`
	PendingCount int             `json:"pendingCount"`
	SelesaiCount int             `json:"selesaiCount"`
	TopProducts  []ProductQty    `json:"topProducts"`
	TopCustomers []CustomerSpend `json:"topCustomers"`
}

// ComputeStats aggregates orders in a single pass. Only completed orders add
// revenue, product quantities and customer spend; cancelled orders only count
// towards TotalOrders. Products are keyed by the frozen item name and customers
// by display name, so equal names merge.
//
// Ranking ties keep the order in which a name was first seen in orders, which
// makes the output a pure function of the input slice.
func ComputeStats(orders []order.Order) Stats {
	s := Stats{
		TotalOrders:  len(orders),
		TopProducts:  []ProductQty{},
		TopCustomers: []CustomerSpend{},
	}

	productIdx := map[string]int{}
	customerIdx := map[string]int{}

	for _, o := range orders {
		switch o.Status {
		case order.StatusPending:
			s.PendingCount++
			continue
		case order.StatusCompleted:
			s.SelesaiCount++
		default:
			continue
		}

		s.TotalRevenue += o.Total

		for _, it := range o.Items {
			i, ok := productIdx[it.Name]
			if !ok {
				i = len(s.TopProducts)
				productIdx[it.Name] = i
				s.TopProducts = append(s.TopProducts, ProductQty{Name: it.Name})
			}
			s.TopProducts[i].Qty += it.Qty
		}

		i, ok := customerIdx[o.Customer]
		if !ok {
			i = len(s.TopCustomers)
			customerIdx[o.Customer] = i
			s.TopCustomers = append(s.TopCustomers, CustomerSpend{Name: o.Customer})
		}
		s.TopCustomers[i].Total += o.Total
	}

	sort.SliceStable(s.TopProducts, func(i, j int) bool {
		return s.TopProducts[i].Qty > s.TopProducts[j].Qty
	})
	sort.SliceStable(s.TopCustomers, func(i, j int) bool {
		return s.TopCustomers[i].Total > s.TopCustomers[j].Total
	})

	if len(s.TopProducts) > TopN {
		s.TopProducts = s.TopProducts[:TopN]
	}
	if len(s.TopCustomers) > TopN {
		s.TopCustomers = s.TopCustomers[:TopN]
	}
	return s
}
