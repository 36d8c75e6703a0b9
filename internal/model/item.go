package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date form used for expiration dates.
const DateLayout = "2006-01-02"

var (
	ErrOutOfStock = errors.New("insufficient stock for this item")
	ErrBadDate    = errors.New("not a calendar date")
)

// ItemID is the stable catalog index of an item. Items are never removed, so
// an ItemID handed out by the ledger stays valid for the life of the process.
type ItemID int

type Item struct {
	ID        ItemID
	Name      string
	Price     decimal.Decimal
	Category  string
	Stock     int
	ExpiresOn *time.Time
}

// Purchase removes quantity units from stock. Over-draws fail without
// touching stock; there is no partial fulfillment.
func (i *Item) Purchase(quantity int) error {
	if quantity > i.Stock {
		return fmt.Errorf("%s: requested %d, have %d: %w", i.Name, quantity, i.Stock, ErrOutOfStock)
	}
	i.Stock -= quantity
	return nil
}

// Restock adds quantity units. Callers are expected to pass a non-negative
// quantity; it is not checked here.
func (i *Item) Restock(quantity int) {
	i.Stock += quantity
}

// IsExpired reports whether the expiration date lies strictly before the
// calendar day of now. Items without an expiration date never expire.
func (i *Item) IsExpired(now time.Time) bool {
	if i.ExpiresOn == nil {
		return false
	}
	e := *i.ExpiresOn
	exp := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, now.Location())
	return exp.Before(startOfDay(now))
}

// ExpirationString returns the expiration date as YYYY-MM-DD, or "" when unset.
func (i *Item) ExpirationString() string {
	if i.ExpiresOn == nil {
		return ""
	}
	return i.ExpiresOn.Format(DateLayout)
}

// Subtotal is price × quantity with no discounts applied.
func (i *Item) Subtotal(quantity int) decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ParseDate parses an expiration date in the local calendar. Common written
// forms are accepted, but the input must name a year and a day and nothing
// else. Blank input means no expiration date and yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	layout, err := dateparse.ParseFormat(s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w: %w", s, ErrBadDate, err)
	}
	if !namesYearAndDay(layout) || hasLiteralText(layout) {
		return nil, fmt.Errorf("parse date %q: %w", s, ErrBadDate)
	}
	// Re-parsing with the detected layout fails on any text the layout skipped.
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w: %w", s, ErrBadDate, err)
	}
	if t.Year() == 0 {
		return nil, fmt.Errorf("parse date %q: %w", s, ErrBadDate)
	}
	d := startOfDay(t)
	return &d, nil
}

// layoutWords are the alphabetic layout elements dateparse can emit.
var layoutWords = strings.NewReplacer(
	"January", "", "Jan", "", "Monday", "", "Mon", "",
	"MST", "", "PM", "", "pm", "", "Z07", "", "T", "",
)

// hasLiteralText reports whether dateparse copied words from the input into
// the layout, as it does for trailing text it cannot place.
func hasLiteralText(layout string) bool {
	return strings.IndexFunc(layoutWords.Replace(layout), unicode.IsLetter) >= 0
}

func namesYearAndDay(layout string) bool {
	rest := strings.Replace(layout, "2006", "", 1)
	hasYear := rest != layout || strings.Contains(rest, "06")
	return hasYear && strings.Contains(rest, "2")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
