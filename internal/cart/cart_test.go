package cart

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kopi() ProductRef {
	return ProductRef{ProductID: "P1", ProductName: "Kopi", Price: 15000, VendorID: "V1"}
}

func TestAddMergesSameProduct(t *testing.T) {
	var c Cart
	c.Add(kopi())
	c.Add(kopi())

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "P1", c.Lines[0].ProductID)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, int64(15000), c.Lines[0].Price)
}

func TestAddNeverDuplicatesProductID(t *testing.T) {
	var c Cart
	products := []ProductRef{
		{ProductID: "P1", ProductName: "Kopi", Price: 15000, VendorID: "V1"},
		{ProductID: "P2", ProductName: "Roti", Price: 8000, VendorID: "V1"},
		{ProductID: "P3", ProductName: "Keripik", Price: 12000, VendorID: "V2"},
	}

	// urutan add acak, banyak pengulangan
	added := 0
	for i := 0; i < 100; i++ {
		c.Add(products[rand.Intn(len(products))])
		added++
	}

	seen := map[string]bool{}
	totalQty := 0
	for _, l := range c.Lines {
		require.False(t, seen[l.ProductID], "duplicate line for %s", l.ProductID)
		seen[l.ProductID] = true
		totalQty += l.Quantity
	}
	assert.Equal(t, added, totalQty, "jumlah quantity harus sama dengan jumlah add")
}

func TestComputeTotalsExample(t *testing.T) {
	c := Cart{Lines: []Line{
		{ProductID: "A", Price: 10000, Quantity: 2, VendorID: "V1"},
		{ProductID: "B", Price: 5000, Quantity: 1, VendorID: "V1"},
		{ProductID: "C", Price: 7000, Quantity: 1, VendorID: "V2"},
	}}

	tot := ComputeTotals(c)
	assert.Equal(t, int64(32000), tot.TotalPrice)
	require.Len(t, tot.VendorTotals, 2)
	assert.Equal(t, VendorTotal{VendorID: "V1", Amount: 25000}, tot.VendorTotals[0])
	assert.Equal(t, VendorTotal{VendorID: "V2", Amount: 7000}, tot.VendorTotals[1])
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	tot := ComputeTotals(Cart{})
	assert.Zero(t, tot.TotalPrice)
	assert.Empty(t, tot.VendorTotals)
}

func TestComputeTotalsPermutationInvariant(t *testing.T) {
	lines := []Line{
		{ProductID: "A", Price: 10000, Quantity: 2, VendorID: "V1"},
		{ProductID: "B", Price: 5000, Quantity: 1, VendorID: "V1"},
		{ProductID: "C", Price: 7000, Quantity: 1, VendorID: "V2"},
		{ProductID: "D", Price: 2500, Quantity: 4, VendorID: "V3"},
	}
	base := ComputeTotals(Cart{Lines: lines})

	for i := 0; i < 20; i++ {
		shuffled := make([]Line, len(lines))
		copy(shuffled, lines)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		tot := ComputeTotals(Cart{Lines: shuffled})
		assert.Equal(t, base.TotalPrice, tot.TotalPrice)
		for _, vt := range base.VendorTotals {
			assert.Equal(t, vt.Amount, tot.ByVendor(vt.VendorID))
		}
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	c := Cart{Lines: []Line{
		{ProductID: "A", Price: 10000, Quantity: 2, VendorID: "V1"},
		{ProductID: "C", Price: 7000, Quantity: 1, VendorID: "V2"},
	}}
	first := ComputeTotals(c)
	second := ComputeTotals(c)
	assert.Equal(t, first, second)
}

func TestVendorTotalsFirstOccurrenceOrder(t *testing.T) {
	c := Cart{Lines: []Line{
		{ProductID: "A", Price: 100, Quantity: 1, VendorID: "V2"},
		{ProductID: "B", Price: 100, Quantity: 1, VendorID: "V1"},
		{ProductID: "C", Price: 100, Quantity: 1, VendorID: "V2"},
	}}
	tot := ComputeTotals(c)
	require.Len(t, tot.VendorTotals, 2)
	assert.Equal(t, "V2", tot.VendorTotals[0].VendorID)
	assert.Equal(t, "V1", tot.VendorTotals[1].VendorID)
	assert.Equal(t, int64(200), tot.VendorTotals[0].Amount)
}

func TestSetQuantityAndRemove(t *testing.T) {
	var c Cart
	c.Add(kopi())

	assert.True(t, c.SetQuantity("P1", 5))
	assert.Equal(t, 5, c.Lines[0].Quantity)

	assert.False(t, c.SetQuantity("P1", 0), "quantity < 1 harus ditolak")
	assert.Equal(t, 5, c.Lines[0].Quantity)

	assert.False(t, c.SetQuantity("P9", 2))
	assert.False(t, c.Remove("P9"))
	assert.True(t, c.Remove("P1"))
	assert.True(t, c.Empty())
}

func TestSetNote(t *testing.T) {
	var c Cart
	c.Add(kopi())
	assert.True(t, c.SetNote("P1", "tanpa gula"))
	assert.Equal(t, "tanpa gula", c.Lines[0].Note)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := Cart{Lines: []Line{
		{ProductID: "P1", ProductName: "Kopi", Price: 15000, VendorID: "V1", Quantity: 2, Note: "tanpa gula"},
		{ProductID: "P2", ProductName: "Roti", Price: 8000, VendorID: "V2", Quantity: 1},
	}}

	b, err := json.Marshal(c.Lines)
	require.NoError(t, err)

	var back []Line
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, c.Lines, back)
}
