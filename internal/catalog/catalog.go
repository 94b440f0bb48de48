// Package catalog holds the static price list of repair and mod services.
package catalog

import (
	"strconv"

	"github.com/Rhymond/go-money"
)

const currencyCode = "USD"

// PriceTBD is shown for services quoted only after inspection.
const PriceTBD = "Price TBD"

type Category string

const (
	CategoryRepairs       Category = "repairs"
	CategoryCustomization Category = "customization"
	CategoryPerformance   Category = "performance"
)

// Categories in display order.
var Categories = []Category{CategoryRepairs, CategoryCustomization, CategoryPerformance}

type Item struct {
	Name     string
	Price    *money.Money // nil: quoted after inspection
	Category Category
}

func (i Item) HasPrice() bool {
	return i.Price != nil
}

func usd(dollars int64) *money.Money {
	return money.New(dollars*100, currencyCode)
}

var items = []Item{
	{Name: "Analog stick drift repair", Price: usd(5), Category: CategoryRepairs},
	{Name: "Button replacement", Price: usd(5), Category: CategoryRepairs},
	{Name: "Shell and housing", Price: usd(10), Category: CategoryRepairs},
	{Name: "Connectivity issues", Price: usd(10), Category: CategoryRepairs},
	{Name: "Trigger repair", Price: usd(15), Category: CategoryRepairs},

	{Name: "Custom paint", Price: usd(15), Category: CategoryCustomization},
	{Name: "LED lighting mods", Price: usd(20), Category: CategoryCustomization},
	{Name: "Custom button set", Price: usd(15), Category: CategoryCustomization},
	{Name: "Full custom build", Price: usd(55), Category: CategoryCustomization},

	{Name: "Performance hair triggers", Price: usd(15), Category: CategoryPerformance},
	{Name: "Back button", Price: usd(20), Category: CategoryPerformance},
	{Name: "Precision thumbsticks", Price: usd(20), Category: CategoryPerformance},
	{Name: "Full performance", Price: usd(65), Category: CategoryPerformance},

	{Name: "Controller cleaning", Category: CategoryRepairs},
}

// Items returns the whole catalog in declaration order.
func Items() []Item {
	return append([]Item(nil), items...)
}

func ItemsByCategory(category Category) []Item {
	var out []Item
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func Lookup(name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

func FormatPrice(item Item) string {
	if item.Price == nil {
		return PriceTBD
	}
	return FormatTotal(item.Price.Amount() / 100)
}

// FormatTotal renders whole dollars the way totals are stored on requests.
func FormatTotal(dollars int64) string {
	return "$" + strconv.FormatInt(dollars, 10)
}

// Total sums the known prices of the selected catalog items, in whole dollars.
// Unknown names and TBD items add nothing, and a name selected twice counts
// once, so the result does not depend on the order or repetition of selected.
func Total(selected []string) int64 {
	chosen := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		chosen[name] = struct{}{}
	}

	sum := money.New(0, currencyCode)
	for _, it := range items {
		if _, ok := chosen[it.Name]; !ok || it.Price == nil {
			continue
		}
		next, err := sum.Add(it.Price)
		if err != nil {
			// all catalog prices share one currency
			continue
		}
		sum = next
	}
	return sum.Amount() / 100
}
