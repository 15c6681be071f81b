package dto

type ProductFilters struct {
	// BestSellersOnly restricts to on-sale retail products and projects the listing fields.
	BestSellersOnly bool
	SearchQuery     string
	// Cursor is the id of the last product of the previous batch.
	Cursor string
	Limit  int
}
