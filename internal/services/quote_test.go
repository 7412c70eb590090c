package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func costOf(v float64) *float64 {
	return &v
}

func TestComputeQuoteTotals(t *testing.T) {
	items := []QuoteItem{
		{Description: "Work A", Cost: costOf(100)},
		{Description: "Work B", Cost: costOf(50)},
	}

	totals := ComputeQuoteTotals(items)

	assert.InDelta(t, 150.00, totals.Subtotal, 0.001)
	assert.InDelta(t, 22.50, totals.TotalGST, 0.001)
	assert.InDelta(t, 172.50, totals.GrandTotal, 0.001)
}

func TestComputeQuoteTotalsExcludesInvalidItems(t *testing.T) {
	tests := []struct {
		name  string
		items []QuoteItem
	}{
		{
			name: "empty description excluded",
			items: []QuoteItem{
				{Description: "Work A", Cost: costOf(100)},
				{Description: "", Cost: costOf(999)},
			},
		},
		{
			name: "missing cost excluded",
			items: []QuoteItem{
				{Description: "Work A", Cost: costOf(100)},
				{Description: "No cost", Cost: nil},
			},
		},
		{
			name: "negative cost excluded",
			items: []QuoteItem{
				{Description: "Work A", Cost: costOf(100)},
				{Description: "Refund", Cost: costOf(-10)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeQuoteTotals(tt.items)
			assert.InDelta(t, 100.00, totals.Subtotal, 0.001)
			assert.InDelta(t, 15.00, totals.TotalGST, 0.001)
			assert.InDelta(t, 115.00, totals.GrandTotal, 0.001)
		})
	}
}

func TestComputeQuoteLines(t *testing.T) {
	lines := ComputeQuoteLines([]QuoteItem{
		{Description: "Move house", Cost: costOf(200)},
		{Description: "", Cost: costOf(50)},
	})

	assert.Len(t, lines, 1)
	assert.Equal(t, "Move house", lines[0].Description)
	assert.InDelta(t, 30.00, lines[0].GST, 0.001)
	assert.InDelta(t, 230.00, lines[0].LineTotal, 0.001)
}

func TestComputeQuoteTotalsEmpty(t *testing.T) {
	totals := ComputeQuoteTotals(nil)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.TotalGST)
	assert.Zero(t, totals.GrandTotal)
}
