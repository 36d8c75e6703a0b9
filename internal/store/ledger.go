package store

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Ledger is the in-memory record of the catalog, the customer roster and the
// sales log. It is not safe for concurrent use.
type Ledger struct {
	items     []model.Item
	customers []model.Customer
	sales     []model.Sale

	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Ledger)

// WithClock replaces time.Now for expiry checks and sale timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// --- Item methods ---

// AddItem appends a catalog entry and returns it. Duplicate names are allowed;
// lookups return the first match. A blank category is inferred from the name.
func (l *Ledger) AddItem(name string, price decimal.Decimal, category string, stock int, expiresOn *time.Time) model.Item {
	if strings.TrimSpace(category) == "" {
		category = grocery.Categorize(name)
	}
	l.items = append(l.items, model.Item{
		ID:        model.ItemID(len(l.items)),
		Name:      name,
		Price:     price,
		Category:  category,
		Stock:     stock,
		ExpiresOn: expiresOn,
	})
	item := l.items[len(l.items)-1]
	l.logger.Debug("item added", "item", name, "id", item.ID, "category", category, "stock", stock)
	return item
}

// Item resolves a catalog index. It satisfies model.Catalog.
func (l *Ledger) Item(id model.ItemID) (*model.Item, bool) {
	if id < 0 || int(id) >= len(l.items) {
		return nil, false
	}
	return &l.items[id], true
}

// FindItem returns the first item named name. The pointer refers into the
// catalog and is only valid until the next item is added.
func (l *Ledger) FindItem(name string) (*model.Item, error) {
	for i := range l.items {
		if l.items[i].Name == name {
			return &l.items[i], nil
		}
	}
	return nil, fmt.Errorf("item %q: %w", name, ErrNotFound)
}

// Items yields the catalog in insertion order.
func (l *Ledger) Items() iter.Seq[model.Item] {
	return l.filterItems(func(model.Item) bool { return true })
}

func (l *Ledger) Restock(name string, quantity int) (model.Item, error) {
	if quantity < 0 {
		return model.Item{}, fmt.Errorf("restock %d: %w", quantity, ErrInvalidQuantity)
	}
	item, err := l.FindItem(name)
	if err != nil {
		return model.Item{}, err
	}
	item.Restock(quantity)
	l.logger.Debug("item restocked", "item", name, "quantity", quantity, "stock", item.Stock)
	return *item, nil
}

// LowStock yields items whose stock is below threshold, in catalog order.
func (l *Ledger) LowStock(threshold int) iter.Seq[model.Item] {
	return l.filterItems(func(it model.Item) bool { return it.Stock < threshold })
}

// Search yields items whose name or category contains query. Matching is
// case-sensitive.
func (l *Ledger) Search(query string) iter.Seq[model.Item] {
	return l.filterItems(func(it model.Item) bool {
		return strings.Contains(it.Name, query) || strings.Contains(it.Category, query)
	})
}

func (l *Ledger) filterItems(keep func(model.Item) bool) iter.Seq[model.Item] {
	return func(yield func(model.Item) bool) {
		for _, it := range l.items {
			if keep(it) && !yield(it) {
				return
			}
		}
	}
}

// IsExpired checks an item against the ledger clock.
func (l *Ledger) IsExpired(item *model.Item) bool {
	return item.IsExpired(l.now())
}

// --- Customer methods ---

func (l *Ledger) AddCustomer(name string, id int, membership string) model.Customer {
	l.customers = append(l.customers, model.Customer{
		ID:            id,
		Name:          name,
		Membership:    membership,
		LoyaltyPoints: decimal.Zero,
	})
	l.logger.Debug("customer added", "customer", name, "id", id, "membership", membership)
	return l.customers[len(l.customers)-1]
}

// FindCustomer returns the first customer with the given id. As with FindItem
// the pointer is only valid until the next customer is added.
func (l *Ledger) FindCustomer(id int) (*model.Customer, error) {
	for i := range l.customers {
		if l.customers[i].ID == id {
			return &l.customers[i], nil
		}
	}
	return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
}

func (l *Ledger) Customers() iter.Seq[model.Customer] {
	return func(yield func(model.Customer) bool) {
		for _, c := range l.customers {
			if !yield(c) {
				return
			}
		}
	}
}

// Bill computes the customer's bill against current catalog prices.
func (l *Ledger) Bill(customerID int) (model.Customer, model.Bill, error) {
	c, err := l.FindCustomer(customerID)
	if err != nil {
		return model.Customer{}, model.Bill{}, err
	}
	return *c, c.ComputeBill(l), nil
}

// --- Sales ---

// PurchaseResult reports the outcome of a completed purchase.
type PurchaseResult struct {
	Sale         model.Sale
	BulkDiscount bool
	Expired      bool
	Item         model.Item
}

// Purchase sells quantity units of itemName to the customer. Both lookups run
// before anything is mutated, so a failed purchase leaves the ledger as it was.
// Quantity must be at least one. Expired items are still sold; the result
// flags them.
func (l *Ledger) Purchase(customerID int, itemName string, quantity int) (*PurchaseResult, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("purchase %d units: %w", quantity, ErrInvalidQuantity)
	}
	customer, err := l.FindCustomer(customerID)
	if err != nil {
		return nil, err
	}
	item, err := l.FindItem(itemName)
	if err != nil {
		return nil, err
	}

	total, bulk := model.ChargedTotal(item.Price, quantity)

	if err := customer.RecordPurchase(item, quantity); err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	sale := model.Sale{
		ID:           uuid.New(),
		ItemName:     item.Name,
		CustomerName: customer.Name,
		Quantity:     quantity,
		Total:        total,
		SoldAt:       l.now(),
	}
	l.sales = append(l.sales, sale)
	l.logger.Debug("sale recorded", "sale_id", sale.ID, "item", item.Name, "customer_id", customerID,
		"quantity", quantity, "total", total.StringFixed(2), "bulk", bulk)

	return &PurchaseResult{
		Sale:         sale,
		BulkDiscount: bulk,
		Expired:      item.IsExpired(l.now()),
		Item:         *item,
	}, nil
}

// Sales returns a copy of the sales log in the order sales were made.
func (l *Ledger) Sales() []model.Sale {
	out := make([]model.Sale, len(l.sales))
	copy(out, l.sales)
	return out
}

// --- Snapshot ---

// CustomerRecord is the persisted part of a customer. Purchase history is not
// kept across a save and load.
type CustomerRecord struct {
	Name          string
	ID            int
	Membership    string
	LoyaltyPoints decimal.Decimal
}

type Snapshot struct {
	Items     []model.Item
	Customers []CustomerRecord
}

func (l *Ledger) Snapshot() Snapshot {
	var s Snapshot
	s.Items = make([]model.Item, len(l.items))
	copy(s.Items, l.items)
	for _, c := range l.customers {
		s.Customers = append(s.Customers, CustomerRecord{
			Name:          c.Name,
			ID:            c.ID,
			Membership:    c.Membership,
			LoyaltyPoints: c.LoyaltyPoints,
		})
	}
	return s
}

// Restore appends the snapshot's records to the ledger. Items get fresh
// catalog IDs. Loyalty points are assigned directly; no stock is touched.
func (l *Ledger) Restore(s Snapshot) {
	for _, it := range s.Items {
		l.items = append(l.items, model.Item{
			ID:        model.ItemID(len(l.items)),
			Name:      it.Name,
			Price:     it.Price,
			Category:  it.Category,
			Stock:     it.Stock,
			ExpiresOn: it.ExpiresOn,
		})
	}
	for _, c := range s.Customers {
		l.customers = append(l.customers, model.Customer{
			ID:            c.ID,
			Name:          c.Name,
			Membership:    c.Membership,
			LoyaltyPoints: c.LoyaltyPoints,
		})
	}
	l.logger.Debug("snapshot restored", "items", len(s.Items), "customers", len(s.Customers))
}
