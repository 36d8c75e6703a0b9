package store

import (
	"slices"
	"testing"
	"time"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)

func setupLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(WithClock(func() time.Time { return fixedNow }))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "got %s, want %s", got, want)
}

func mustDate(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func names(seq func(func(model.Item) bool)) []string {
	var out []string
	for it := range seq {
		out = append(out, it.Name)
	}
	return out
}

func TestMilkScenario(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 20, mustDate(t, "2099-01-01"))
	l.AddCustomer("Alice", 1, "Premium")

	res, err := l.Purchase(1, "Milk", 12)
	require.NoError(t, err)
	assert.True(t, res.BulkDiscount)
	assert.False(t, res.Expired)
	assertDec(t, "28.5", res.Sale.Total)
	assert.Equal(t, 8, res.Item.Stock)

	item, err := l.FindItem("Milk")
	require.NoError(t, err)
	assert.Equal(t, 8, item.Stock)

	sales := l.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, "Milk", sales[0].ItemName)
	assert.Equal(t, "Alice", sales[0].CustomerName)
	assert.Equal(t, 12, sales[0].Quantity)
	assertDec(t, "28.5", sales[0].Total)
	assert.Equal(t, fixedNow, sales[0].SoldAt)

	c, bill, err := l.Bill(1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
	assertDec(t, "30", bill.Total)
	assertDec(t, "3", bill.Discount)
	assertDec(t, "27", bill.Final)
	assertDec(t, "0.3", bill.LoyaltyPoints)
}

func TestPurchaseBulkThreshold(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
		bulk     bool
	}{
		{1, "1.99", false},
		{9, "17.91", false},
		{10, "18.905", true},
		{25, "47.2625", true},
	}
	for _, tt := range tests {
		l := setupLedger(t)
		l.AddItem("Bread", dec("1.99"), "Bakery", 100, nil)
		l.AddCustomer("Bob", 2, "Regular")

		res, err := l.Purchase(2, "Bread", tt.quantity)
		require.NoError(t, err)
		assert.Equal(t, tt.bulk, res.BulkDiscount, "quantity %d", tt.quantity)
		assertDec(t, tt.want, res.Sale.Total)
	}
}

func TestPurchaseNotFoundLeavesLedgerUnchanged(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 20, nil)
	l.AddCustomer("Alice", 1, "Premium")

	_, err := l.Purchase(99, "Milk", 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = l.Purchase(1, "Nonexistent", 1)
	require.ErrorIs(t, err, ErrNotFound)

	item, _ := l.FindItem("Milk")
	assert.Equal(t, 20, item.Stock)
	c, _ := l.FindCustomer(1)
	assert.Empty(t, c.History)
	assert.Empty(t, l.Sales())
}

func TestPurchaseOutOfStock(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 5, nil)
	l.AddCustomer("Alice", 1, "Premium")

	_, err := l.Purchase(1, "Milk", 6)
	require.ErrorIs(t, err, model.ErrOutOfStock)

	item, _ := l.FindItem("Milk")
	assert.Equal(t, 5, item.Stock)
	c, _ := l.FindCustomer(1)
	assert.Empty(t, c.History)
	assert.True(t, c.LoyaltyPoints.IsZero())
	assert.Empty(t, l.Sales())
}

func TestPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	for _, q := range []int{0, -4} {
		l := setupLedger(t)
		l.AddItem("Milk", dec("2.50"), "Dairy", 5, nil)
		l.AddCustomer("Alice", 1, "Premium")

		_, err := l.Purchase(1, "Milk", q)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.NotErrorIs(t, err, model.ErrOutOfStock)

		item, _ := l.FindItem("Milk")
		assert.Equal(t, 5, item.Stock)
		c, _ := l.FindCustomer(1)
		assert.Empty(t, c.History)
		assert.True(t, c.LoyaltyPoints.IsZero())
		assert.Empty(t, l.Sales())
	}
}

func TestPurchaseExpiredItemStillSells(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Yogurt", dec("1.00"), "Dairy", 3, mustDate(t, "2026-03-14"))
	l.AddCustomer("Alice", 1, "Regular")

	res, err := l.Purchase(1, "Yogurt", 1)
	require.NoError(t, err)
	assert.True(t, res.Expired)
	assert.Len(t, l.Sales(), 1)
}

func TestFindItemNotFound(t *testing.T) {
	l := setupLedger(t)
	_, err := l.FindItem("Nonexistent")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = l.FindCustomer(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicatesFirstMatchWins(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 1, nil)
	l.AddItem("Milk", dec("3.00"), "Dairy", 50, nil)
	l.AddCustomer("Alice", 1, "Regular")
	l.AddCustomer("Alicia", 1, "Premium")

	item, err := l.FindItem("Milk")
	require.NoError(t, err)
	assertDec(t, "2.50", item.Price)

	c, err := l.FindCustomer(1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
}

func TestBillResolvesByCatalogIndex(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 10, nil)
	second := l.AddItem("Milk", dec("4.00"), "Dairy", 10, nil)
	l.AddCustomer("Alice", 1, "Regular")

	c, _ := l.FindCustomer(1)
	dup, ok := l.Item(second.ID)
	require.True(t, ok)
	require.NoError(t, c.RecordPurchase(dup, 2))

	_, bill, err := l.Bill(1)
	require.NoError(t, err)
	assertDec(t, "8", bill.Total)
}

func TestAddItemInfersBlankCategory(t *testing.T) {
	l := setupLedger(t)
	it := l.AddItem("Whole Milk", dec("3.25"), "", 4, nil)
	assert.Equal(t, "Dairy", it.Category)

	it = l.AddItem("Widget", dec("1"), "  ", 4, nil)
	assert.Equal(t, "Other", it.Category)

	it = l.AddItem("Milk", dec("1"), "Fridge", 4, nil)
	assert.Equal(t, "Fridge", it.Category)
}

func TestRestock(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Rice", dec("5.00"), "Pantry", 2, nil)

	it, err := l.Restock("Rice", 8)
	require.NoError(t, err)
	assert.Equal(t, 10, it.Stock)

	_, err = l.Restock("Beans", 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = l.Restock("Rice", -3)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	item, _ := l.FindItem("Rice")
	assert.Equal(t, 10, item.Stock)
}

func TestLowStock(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 3, nil)
	l.AddItem("Bread", dec("1.99"), "Bakery", 10, nil)
	l.AddItem("Eggs", dec("4.00"), "Dairy", 0, nil)

	assert.Equal(t, []string{"Milk", "Eggs"}, names(l.LowStock(5)))
	assert.Empty(t, names(l.LowStock(0)))
	// restartable
	assert.Equal(t, names(l.LowStock(5)), names(l.LowStock(5)))
}

func TestSearch(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 3, nil)
	l.AddItem("Buttermilk", dec("3.10"), "Dairy", 4, nil)
	l.AddItem("Bread", dec("1.99"), "Bakery", 10, nil)

	assert.Equal(t, []string{"Buttermilk"}, names(l.Search("milk")))
	assert.Equal(t, []string{"Milk", "Buttermilk"}, names(l.Search("Dairy")))
	assert.Equal(t, []string{"Bread"}, names(l.Search("Bak")))
	assert.Empty(t, names(l.Search("dairy")))
}

func TestSearchStopsEarly(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Apple", dec("1"), "Produce", 1, nil)
	l.AddItem("Apricot", dec("1"), "Produce", 1, nil)

	var seen []string
	for it := range l.Search("Ap") {
		seen = append(seen, it.Name)
		break
	}
	assert.Equal(t, []string{"Apple"}, seen)
}

func TestSalesReturnsCopy(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 20, nil)
	l.AddCustomer("Alice", 1, "Premium")
	_, err := l.Purchase(1, "Milk", 1)
	require.NoError(t, err)

	sales := l.Sales()
	sales[0].Quantity = 99
	assert.Equal(t, 1, l.Sales()[0].Quantity)
}

func TestSnapshotRestoreAppends(t *testing.T) {
	l := setupLedger(t)
	l.AddItem("Milk", dec("2.50"), "Dairy", 20, mustDate(t, "2099-01-01"))
	l.AddCustomer("Alice", 1, "Premium")
	_, err := l.Purchase(1, "Milk", 12)
	require.NoError(t, err)

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Len(t, snap.Customers, 1)
	assertDec(t, "0.3", snap.Customers[0].LoyaltyPoints)

	l.Restore(snap)
	items := slices.Collect(l.Items())
	require.Len(t, items, 2)
	assert.Equal(t, model.ItemID(1), items[1].ID)
	assert.Equal(t, 8, items[1].Stock)

	var restored []model.Customer
	for c := range l.Customers() {
		restored = append(restored, c)
	}
	require.Len(t, restored, 2)
	assert.Empty(t, restored[1].History)
	assertDec(t, "0.3", restored[1].LoyaltyPoints)
}
