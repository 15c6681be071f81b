package model

type Product struct {
	BaseModel
	Name               string   `json:"name"`
	Price              Numeric  `json:"price"`
	DiscountPrice      *Numeric `json:"discount_price,omitempty"`
	StockQuantity      Numeric  `json:"stock_quantity"`
	CategoryID         string   `json:"category_id"`
	Images             []string `json:"images"`
	Tags               []string `json:"tags"`
	IsOnSale           bool     `json:"is_on_sale"`
	IsWholesaleProduct bool     `json:"is_wholesale_product"`
}

// InStock is false for a NaN stock quantity.
func (p *Product) InStock() bool {
	return float64(p.StockQuantity) > 0
}
