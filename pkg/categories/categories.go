package categories

import "fmt"

// Category is a discount tier keyed by a passenger's recent spend
type Category struct {
	Name            string
	MinimumSpend    float64
	DiscountPercent float64
}

var (
	Normal   = Category{Name: "NORMAL", MinimumSpend: 0, DiscountPercent: 0}
	Frequent = Category{Name: "FREQUENT", MinimumSpend: 250, DiscountPercent: 15}
	Special  = Category{Name: "SPECIAL", MinimumSpend: 2500, DiscountPercent: 50}
)

// Table is ordered by ascending minimum spend
var Table = []Category{Normal, Frequent, Special}

// For returns the last tier whose minimum spend does not exceed the value
func For(spend float64) Category {
	category := Table[0]

	for _, candidate := range Table {
		if candidate.MinimumSpend > spend {
			break
		}
		category = candidate
	}

	return category
}

func ByName(name string) (Category, error) {
	for _, category := range Table {
		if category.Name == name {
			return category, nil
		}
	}

	return Category{}, fmt.Errorf("unknown category %q", name)
}

// Apply returns the price charged after this category's discount
func (c Category) Apply(cost float64) float64 {
	return cost * (1 - c.DiscountPercent/100)
}
