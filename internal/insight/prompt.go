// Package insight asks a language model for a short business recommendation
// based on the admin stats. Any failure degrades to FallbackText.
package insight

import (
	"context"
	"fmt"
	"strings"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/notification"
)

const (
	FallbackText    = "Could not generate business insights at this time. Please check your analytics manually."
	PlaceholderText = "Sedang menganalisis performa bisnis..."
)

// Generator never fails: on any error it returns FallbackText.
type Generator interface {
	Generate(ctx context.Context, stats analytics.Stats) string
}

func BuildPrompt(stats analytics.Stats) string {
	products := make([]string, len(stats.TopProducts))
	for i, p := range stats.TopProducts {
		products[i] = fmt.Sprintf("%s (%d sold)", p.Name, p.Qty)
	}
	customers := make([]string, len(stats.TopCustomers))
	for i, c := range stats.TopCustomers {
		customers[i] = fmt.Sprintf("%s (Spent: Rp %s)", c.Name, notification.FormatRupiah(c.Total))
	}

	var b strings.Builder
	b.WriteString("Analyze this business data for RNI Mart:\n")
	fmt.Fprintf(&b, "- Total Revenue: Rp %s\n", notification.FormatRupiah(stats.TotalRevenue))
	fmt.Fprintf(&b, "- Total Orders: %d\n", stats.TotalOrders)
	fmt.Fprintf(&b, "- Top Products: %s\n", strings.Join(products, ", "))
	fmt.Fprintf(&b, "- Top Customers: %s\n", strings.Join(customers, ", "))
	fmt.Fprintf(&b, "- Pending Orders: %d\n", stats.PendingCount)
	fmt.Fprintf(&b, "- Completed Orders: %d\n\n", stats.SelesaiCount)
	b.WriteString("Provide a concise (max 3 sentences) expert business insight and one actionable recommendation for the owner.\n")
	b.WriteString("Format the response as a friendly advice from an Enterprise consultant.")
	return b.String()
}
