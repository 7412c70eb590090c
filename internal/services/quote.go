package services

// GSTRate is the fixed tax rate applied to every quoted line item.
const GSTRate = 0.15

// QuoteItem is one line of a quote, invoice or receipt. Cost is a
// pointer so a missing cost can be told apart from zero.
type QuoteItem struct {
	Description string   `json:"description"`
	Cost        *float64 `json:"cost"`
}

// QuoteLine is a computed line: the input plus its GST and line total.
type QuoteLine struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	GST         float64 `json:"gst"`
	LineTotal   float64 `json:"line_total"`
}

// QuoteTotals aggregates a quote's money columns.
type QuoteTotals struct {
	Subtotal   float64 `json:"subtotal"`
	TotalGST   float64 `json:"total_gst"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeQuoteLines expands items into computed lines. Items with an
// empty description or a missing/negative cost are excluded entirely,
// not treated as zero.
func ComputeQuoteLines(items []QuoteItem) []QuoteLine {
	lines := make([]QuoteLine, 0, len(items))
	for _, item := range items {
		if item.Description == "" || item.Cost == nil || *item.Cost < 0 {
			continue
		}
		cost := *item.Cost
		gst := cost * GSTRate
		lines = append(lines, QuoteLine{
			Description: item.Description,
			Cost:        cost,
			GST:         gst,
			LineTotal:   cost + gst,
		})
	}
	return lines
}

// ComputeQuoteTotals sums the computed lines. The same function backs
// both the live preview and the sent email so the two never drift.
func ComputeQuoteTotals(items []QuoteItem) QuoteTotals {
	var totals QuoteTotals
	for _, line := range ComputeQuoteLines(items) {
		totals.Subtotal += line.Cost
		totals.TotalGST += line.GST
	}
	totals.GrandTotal = totals.Subtotal + totals.TotalGST
	return totals
}
