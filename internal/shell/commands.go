package shell

import (
	"fmt"
	"strings"

	"github.com/dukerupert/grocer/internal/codec"
	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/report"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (s *Shell) addItem() error {
	name, err := readField(s, "Enter Name: ", parseRequiredText)
	if err != nil {
		return err
	}
	price, err := readField(s, "Enter Price: ", parsePrice)
	if err != nil {
		return err
	}
	category, err := readField(s, "Enter Category: ", parseText)
	if err != nil {
		return err
	}
	stock, err := readField(s, "Enter Stock: ", parseInt(0))
	if err != nil {
		return err
	}
	expires, err := readField(s, "Enter Expiration Date (YYYY-MM-DD, leave blank if none): ", parseDate)
	if err != nil {
		return err
	}

	item := s.ledger.AddItem(name, price, category, stock, expires)
	if category == "" {
		s.println(s.styles.muted.Render("Filed under " + item.Category + "."))
	}
	s.println("Item added successfully.")
	return nil
}

func (s *Shell) addCustomer() error {
	name, err := readField(s, "Enter Name: ", parseRequiredText)
	if err != nil {
		return err
	}
	id, err := readField(s, "Enter ID: ", parseInt(0))
	if err != nil {
		return err
	}
	membership, err := readField(s, "Enter Membership Type (Regular/Premium): ", parseText)
	if err != nil {
		return err
	}
	if membership == "" {
		membership = model.MembershipRegular
	}

	s.ledger.AddCustomer(name, id, membership)
	s.println("Customer added successfully.")
	return nil
}

func (s *Shell) purchase() error {
	customerID, err := readField(s, "Enter Customer ID: ", parseInt(0))
	if err != nil {
		return err
	}
	itemName, err := readField(s, "Enter Item Name: ", parseRequiredText)
	if err != nil {
		return err
	}
	quantity, err := readField(s, "Enter Quantity: ", parseInt(1))
	if err != nil {
		return err
	}

	res, err := s.ledger.Purchase(customerID, itemName, quantity)
	if err != nil {
		return err
	}
	if res.BulkDiscount {
		s.println("Applied 5% bulk purchase discount.")
	}
	s.println("Item purchased successfully.")
	s.printf("Charged: %s, Remaining stock: %d\n", money(res.Sale.Total), res.Item.Stock)
	if res.Expired {
		s.println(s.styles.warn.Render("Warning: This item is expired!"))
	}
	return nil
}

func (s *Shell) restock() error {
	itemName, err := readField(s, "Enter Item Name: ", parseRequiredText)
	if err != nil {
		return err
	}
	quantity, err := readField(s, "Enter Quantity to Restock: ", parseInt(0))
	if err != nil {
		return err
	}

	if _, err := s.ledger.Restock(itemName, quantity); err != nil {
		return err
	}
	s.println("Item restocked successfully.")
	return nil
}

func (s *Shell) formatItem(it model.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s, Price: %s, Category: %s, Stock: %d",
		it.Name, money(it.Price), it.Category, it.Stock)
	if exp := it.ExpirationString(); exp != "" {
		b.WriteString(", Expiration Date: " + exp)
	}
	if s.ledger.IsExpired(&it) {
		b.WriteString(" " + s.styles.warn.Render("(EXPIRED)"))
	}
	return b.String()
}

func (s *Shell) listItems() error {
	s.println("Grocery Items:")
	for it := range s.ledger.Items() {
		s.println(s.formatItem(it))
	}
	return nil
}

func (s *Shell) listCustomers() error {
	s.println("Customers:")
	for c := range s.ledger.Customers() {
		s.printf("Name: %s, ID: %d, Membership Type: %s, Loyalty Points: %s\n",
			c.Name, c.ID, c.Membership, c.LoyaltyPoints.StringFixed(2))
	}
	return nil
}

func (s *Shell) viewPurchases() error {
	id, err := readField(s, "Enter Customer ID: ", parseInt(0))
	if err != nil {
		return err
	}
	c, bill, err := s.ledger.Bill(id)
	if err != nil {
		return err
	}

	s.printf("Purchases by %s:\n", c.Name)
	if len(bill.Lines) == 0 {
		s.println("No items purchased.")
		return nil
	}
	for _, line := range bill.Lines {
		s.printf("Item: %s, Quantity: %d, Subtotal: %s\n", line.ItemName, line.Quantity, money(line.Subtotal))
	}
	s.printf("Total Bill: %s, Discount: %s, Final Bill: %s, Loyalty Points: %s\n",
		money(bill.Total), money(bill.Discount), money(bill.Final), bill.LoyaltyPoints.StringFixed(2))
	return nil
}

func (s *Shell) save() error {
	path, err := readField(s, "Enter filename to save data: ", parseRequiredText)
	if err != nil {
		return err
	}
	if err := codec.SaveFile(path, s.ledger.Snapshot()); err != nil {
		return err
	}
	s.println("Store data saved to " + path)
	return nil
}

func (s *Shell) load() error {
	path, err := readField(s, "Enter filename to load data: ", parseRequiredText)
	if err != nil {
		return err
	}
	snap, err := codec.LoadFile(path)
	if err != nil {
		return err
	}
	s.ledger.Restore(snap)
	s.printf("Store data loaded from %s (%d items, %d customers)\n", path, len(snap.Items), len(snap.Customers))
	return nil
}

func (s *Shell) lowStock() error {
	threshold, err := readField(s, fmt.Sprintf("Enter stock threshold [%d]: ", s.lowStockThreshold),
		func(v string) (int, error) {
			if v == "" {
				return s.lowStockThreshold, nil
			}
			return parseInt(0)(v)
		})
	if err != nil {
		return err
	}

	s.println("Low Stock Alert:")
	found := false
	for it := range s.ledger.LowStock(threshold) {
		s.printf("Item: %s, Stock: %d\n", it.Name, it.Stock)
		found = true
	}
	if !found {
		s.println("No items below the stock threshold.")
	}
	return nil
}

func (s *Shell) search() error {
	query, err := readField(s, "Enter search query (name/category): ", parseText)
	if err != nil {
		return err
	}

	s.println("Search Results:")
	found := false
	for it := range s.ledger.Search(query) {
		s.println(s.formatItem(it))
		found = true
	}
	if !found {
		s.println("No matching items found.")
	}
	return nil
}

func (s *Shell) salesHistory() error {
	sales := s.ledger.Sales()
	s.println("Sales History:")
	if len(sales) == 0 {
		s.println("No sales recorded.")
		return nil
	}
	for _, sale := range sales {
		s.printf("Item: %s, Customer: %s, Quantity: %d, Total: %s\n",
			sale.ItemName, sale.CustomerName, sale.Quantity, money(sale.Total))
	}

	sum, err := report.Summarize(sales)
	if err != nil {
		return err
	}
	s.println(s.styles.muted.Render(fmt.Sprintf("Sales: %d, Units: %d, Revenue: %s, Mean: $%.2f, Median: $%.2f",
		sum.Count, sum.Units, money(sum.Revenue), sum.Mean, sum.Median)))
	return nil
}

func (s *Shell) exit() error {
	s.println("Exiting...")
	return errQuit
}
