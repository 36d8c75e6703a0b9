package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BulkThreshold = 10

var BulkDiscount = decimal.RequireFromString("0.05")

// Sale is one sales log entry. Total is what was charged, after any bulk
// discount but before membership pricing.
type Sale struct {
	ID           uuid.UUID
	ItemName     string
	CustomerName string
	Quantity     int
	Total        decimal.Decimal
	SoldAt       time.Time
}

// ChargedTotal returns the gross price × quantity, less the bulk discount when
// quantity reaches BulkThreshold, and whether that discount applied.
func ChargedTotal(price decimal.Decimal, quantity int) (decimal.Decimal, bool) {
	gross := price.Mul(decimal.NewFromInt(int64(quantity)))
	if quantity >= BulkThreshold {
		return gross.Mul(decimal.NewFromInt(1).Sub(BulkDiscount)), true
	}
	return gross, false
}
