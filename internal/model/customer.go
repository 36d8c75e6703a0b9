package model

import (
	"github.com/shopspring/decimal"
)

const (
	MembershipRegular = "Regular"
	MembershipPremium = "Premium"
)

var (
	// LoyaltyRate is the share of each purchase subtotal credited as points.
	LoyaltyRate     = decimal.RequireFromString("0.01")
	PremiumDiscount = decimal.RequireFromString("0.1")
	RegularDiscount = decimal.Zero
)

// PurchaseLine is one entry of a customer's purchase history. It refers to the
// catalog entry by ID rather than holding a copy of the item.
type PurchaseLine struct {
	ItemID   ItemID
	Quantity int
}

type Customer struct {
	ID            int
	Name          string
	Membership    string
	LoyaltyPoints decimal.Decimal
	History       []PurchaseLine
}

// Catalog resolves the item IDs held in purchase histories.
type Catalog interface {
	Item(id ItemID) (*Item, bool)
}

// IsPremium reports whether the membership earns the premium discount.
// Anything other than "Premium" is billed as Regular.
func (c *Customer) IsPremium() bool {
	return c.Membership == MembershipPremium
}

func (c *Customer) DiscountRate() decimal.Decimal {
	if c.IsPremium() {
		return PremiumDiscount
	}
	return RegularDiscount
}

// RecordPurchase takes quantity units of item and, only when that succeeds,
// appends the purchase to the history and accrues loyalty points on the raw
// subtotal.
func (c *Customer) RecordPurchase(item *Item, quantity int) error {
	if err := item.Purchase(quantity); err != nil {
		return err
	}
	c.History = append(c.History, PurchaseLine{ItemID: item.ID, Quantity: quantity})
	c.LoyaltyPoints = c.LoyaltyPoints.Add(item.Subtotal(quantity).Mul(LoyaltyRate))
	return nil
}

// BillLine is a resolved purchase history entry.
type BillLine struct {
	ItemName string
	Quantity int
	Subtotal decimal.Decimal
}

type Bill struct {
	Lines         []BillLine
	Total         decimal.Decimal
	Discount      decimal.Decimal
	Final         decimal.Decimal
	LoyaltyPoints decimal.Decimal
}

// ComputeBill totals the purchase history at current catalog prices and
// applies the membership discount. Bulk discounts are not part of this view.
// History entries the catalog cannot resolve are skipped.
func (c *Customer) ComputeBill(cat Catalog) Bill {
	b := Bill{LoyaltyPoints: c.LoyaltyPoints}
	for _, line := range c.History {
		item, ok := cat.Item(line.ItemID)
		if !ok {
			continue
		}
		sub := item.Subtotal(line.Quantity)
		b.Lines = append(b.Lines, BillLine{ItemName: item.Name, Quantity: line.Quantity, Subtotal: sub})
		b.Total = b.Total.Add(sub)
	}
	b.Discount = b.Total.Mul(c.DiscountRate())
	b.Final = b.Total.Sub(b.Discount)
	return b
}
