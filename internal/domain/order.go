package domain

import "github.com/shopspring/decimal"

// Order records one enquiry handed off to WhatsApp. Nothing is paid or
// reserved; it only tells the shop what was asked about.
type Order struct {
	ID          string          `db:"id" json:"id"`
	SessionID   string          `db:"session_id" json:"-"`
	ProductID   string          `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName"`
	Color       string          `db:"color" json:"color,omitempty"`
	Size        string          `db:"size" json:"size,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
}
