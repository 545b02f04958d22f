package models

import (
	"github.com/shopspring/decimal"
)

// Product is a catalogue entry quotes reference by id
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	ProductType string          `json:"product_type"` // window/door/conservatory
	BasePrice   decimal.Decimal `json:"base_price"`   // fallback unit price, 2dp
}
