package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal_Scenario(t *testing.T) {
	total := Total([]string{"Analog stick drift repair", "Custom paint"})
	assert.Equal(t, int64(20), total)
	assert.Equal(t, "$20", FormatTotal(total))
}

func TestTotal_EmptySelection(t *testing.T) {
	assert.Equal(t, int64(0), Total(nil))
	assert.Equal(t, "$0", FormatTotal(Total([]string{})))
}

func TestTotal_IgnoresUnknownAndTBD(t *testing.T) {
	total := Total([]string{"Controller cleaning", "Teleportation module", "Back button"})
	assert.Equal(t, int64(20), total)
}

func TestTotal_OrderAndDuplicationInvariant(t *testing.T) {
	all := Items()
	names := make([]string, 0, len(all))
	var want int64
	for _, it := range all {
		names = append(names, it.Name)
		if it.HasPrice() {
			want += it.Price.Amount() / 100
		}
	}

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]string(nil), names...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		doubled := append(shuffled, shuffled[:r.Intn(len(shuffled))]...)
		assert.Equal(t, want, Total(doubled))
	}
}

func TestTotal_MatchesSumOfKnownPrices(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	all := Items()
	for i := 0; i < 100; i++ {
		var selected []string
		var want int64
		for _, it := range all {
			if r.Intn(2) == 0 {
				continue
			}
			selected = append(selected, it.Name)
			if it.HasPrice() {
				want += it.Price.Amount() / 100
			}
		}
		assert.Equal(t, want, Total(selected))
	}
}

func TestItemsByCategory_DeclarationOrder(t *testing.T) {
	repairs := ItemsByCategory(CategoryRepairs)
	require.Len(t, repairs, 6)
	assert.Equal(t, "Analog stick drift repair", repairs[0].Name)
	assert.Equal(t, "Controller cleaning", repairs[5].Name)

	perf := ItemsByCategory(CategoryPerformance)
	require.Len(t, perf, 4)
	assert.Equal(t, "Full performance", perf[3].Name)
}

func TestFormatPrice(t *testing.T) {
	cleaning, ok := Lookup("Controller cleaning")
	require.True(t, ok)
	assert.Equal(t, PriceTBD, FormatPrice(cleaning))

	build, ok := Lookup("Full custom build")
	require.True(t, ok)
	assert.Equal(t, "$55", FormatPrice(build))
}
