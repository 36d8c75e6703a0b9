package grocery

import "strings"

// Fallback is the category for names that match nothing.
const Fallback = "Other"

type rule struct {
	category string
	keywords []string
}

// rules are listed in priority order; it only matters when two keywords of
// equal length both match.
var rules = []rule{
	{"Frozen", []string{"ice cream", "frozen", "popsicle"}},
	{"Dairy", []string{"cream cheese", "sour cream", "cottage cheese", "milk", "cheese", "butter", "yogurt", "eggs", "cream"}},
	{"Pantry", []string{"peanut butter", "olive oil", "soy sauce", "maple syrup", "rice", "pasta", "flour", "sugar", "salt", "cereal", "oatmeal", "beans", "soup", "honey", "noodles", "spaghetti", "ketchup", "mustard", "vinegar"}},
	{"Meat & Seafood", []string{"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham", "steak", "salmon", "shrimp", "tuna", "fish"}},
	{"Bakery", []string{"bread", "bagel", "tortilla", "muffin", "croissant", "bun", "roll"}},
	{"Beverages", []string{"sparkling water", "water", "juice", "coffee", "tea", "soda", "beer", "wine", "lemonade"}},
	{"Snacks", []string{"chips", "crackers", "cookies", "popcorn", "pretzels", "candy", "chocolate"}},
	{"Produce", []string{"apple", "banana", "orange", "lemon", "lime", "avocado", "tomato", "potato", "onion", "garlic", "lettuce", "spinach", "carrot", "broccoli", "grape", "berries", "pepper", "cucumber", "mushroom"}},
	{"Household", []string{"paper towel", "toilet paper", "trash bag", "dish soap", "detergent", "sponge", "foil"}},
	{"Personal Care", []string{"shampoo", "toothpaste", "soap", "deodorant", "lotion"}},
}

// Categorize files an item name under a store category. Matching is
// case-insensitive: a keyword equal to the whole name wins, otherwise the
// longest keyword contained in the name. Unknown names get Fallback.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Fallback
	}

	best, bestLen := Fallback, 0
	for _, r := range rules {
		for _, kw := range r.keywords {
			if name == kw {
				return r.category
			}
			if len(kw) > bestLen && strings.Contains(name, kw) {
				best, bestLen = r.category, len(kw)
			}
		}
	}
	return best
}
