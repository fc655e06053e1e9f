package ledger

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/travigo/ticketoffice/pkg/categories"
)

// WindowSize is the number of recent purchases that decide a passenger's category
const WindowSize = 10

// Ledger is a passenger's purchase history. Fields are exported for copying and
// snapshots; mutate only through RecordPurchase.
type Ledger struct {
	Category categories.Category

	Recent     []float64
	TotalSpent float64
}

func New() *Ledger {
	return &Ledger{
		Category: categories.For(0),
	}
}

// Restore rebuilds a ledger from persisted values
func Restore(categoryName string, recent []float64, totalSpent float64) (*Ledger, error) {
	if len(recent) > WindowSize {
		return nil, fmt.Errorf("ledger window holds %d values, at most %d allowed", len(recent), WindowSize)
	}

	category, err := categories.ByName(categoryName)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		Category:   category,
		Recent:     append([]float64(nil), recent...),
		TotalSpent: totalSpent,
	}, nil
}

// RecordPurchase charges rawCost with the current discount, then slides the window and
// recategorises. The new category only affects later purchases.
func (l *Ledger) RecordPurchase(rawCost float64) float64 {
	applied := l.Category.Apply(rawCost)

	if len(l.Recent) >= WindowSize {
		l.Recent = append(l.Recent[:0:0], l.Recent[len(l.Recent)-WindowSize+1:]...)
	}
	l.Recent = append(l.Recent, applied)

	l.Category = categories.For(l.WindowSum())
	l.TotalSpent += applied

	return applied
}

func (l *Ledger) WindowSum() float64 {
	var sum float64
	for _, value := range l.Recent {
		sum += value
	}

	return sum
}

func (l *Ledger) Clone() *Ledger {
	var clone Ledger
	if err := copier.CopyWithOption(&clone, l, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen copying a type onto itself
		panic(err)
	}

	return &clone
}
