package dashboard

// Stats is the aggregate snapshot the dashboard renders.
type Stats struct {
	ActiveProducts  int            `json:"active_products"`
	LowStockQuants  int            `json:"low_stock_quants"`
	PendingPickings map[string]int `json:"pending_pickings"`
}
