package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/ticketoffice/pkg/categories"
)

func TestNewLedgerIsNormal(t *testing.T) {
	assert := assert.New(t)

	l := New()
	assert.Equal(categories.Normal, l.Category)
	assert.Empty(l.Recent)
	assert.Zero(l.TotalSpent)
}

func TestWindowEvictsOldest(t *testing.T) {
	assert := assert.New(t)

	l := New()
	for i := 1; i <= 11; i++ {
		l.RecordPurchase(float64(i))
	}

	assert.Len(l.Recent, WindowSize)
	assert.Equal([]float64{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, l.Recent)
	assert.InDelta(66.0, l.TotalSpent, 1e-9)
}

func TestDiscountUsesCategoryBeforePurchase(t *testing.T) {
	assert := assert.New(t)

	l := New()
	l.RecordPurchase(249.99)
	assert.Equal(categories.Normal, l.Category)

	applied := l.RecordPurchase(10)
	assert.InDelta(10.0, applied, 1e-9)
	assert.InDelta(259.99, l.WindowSum(), 1e-9)
	assert.Equal(categories.Frequent, l.Category)

	applied = l.RecordPurchase(10)
	assert.InDelta(8.5, applied, 1e-9)
}

func TestNthPurchaseReflectsEarlierPurchasesOnly(t *testing.T) {
	assert := assert.New(t)

	l := New()
	// Jumps straight to SPECIAL but is charged at NORMAL
	applied := l.RecordPurchase(3000)
	assert.InDelta(3000.0, applied, 1e-9)
	assert.Equal(categories.Special, l.Category)

	applied = l.RecordPurchase(100)
	assert.InDelta(50.0, applied, 1e-9)
}

func TestCategoryDropsWhenBigPurchaseLeavesWindow(t *testing.T) {
	assert := assert.New(t)

	l := New()
	l.RecordPurchase(300)
	assert.Equal(categories.Frequent, l.Category)

	for i := 0; i < WindowSize; i++ {
		l.RecordPurchase(1)
	}

	assert.NotContains(l.Recent, 300.0)
	assert.Equal(categories.Normal, l.Category)
	assert.Greater(l.TotalSpent, 300.0)
}

func TestRestoreAndClone(t *testing.T) {
	assert := assert.New(t)

	l, err := Restore("FREQUENT", []float64{200, 60}, 400)
	assert.Nil(err)
	assert.Equal(categories.Frequent, l.Category)

	clone := l.Clone()
	clone.RecordPurchase(100)

	assert.Equal([]float64{200, 60}, l.Recent)
	assert.InDelta(400.0, l.TotalSpent, 1e-9)
	assert.Len(clone.Recent, 3)

	_, err = Restore("GOLD", nil, 0)
	assert.NotNil(err)

	_, err = Restore("NORMAL", make([]float64, WindowSize+1), 0)
	assert.NotNil(err)
}
