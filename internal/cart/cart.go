// Package cart berisi logika keranjang belanja: merge line item, hitung
// total, dan subtotal per penjual. Semua fungsi di sini pure kecuali Add.
package cart

// Line adalah satu baris keranjang. Quantity selalu >= 1.
type Line struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	VendorID    string `json:"vendor_id"`
	Quantity    int    `json:"quantity"`
	Note        string `json:"note,omitempty"`
}

// Subtotal satu baris.
func (l Line) Subtotal() int64 { return l.Price * int64(l.Quantity) }

// Cart adalah daftar line berurutan milik satu sesi shopper.
type Cart struct {
	Lines []Line `json:"lines"`
}

// ProductRef adalah potongan data produk yang dibutuhkan keranjang.
type ProductRef struct {
	ProductID   string
	ProductName string
	Price       int64
	VendorID    string
}

// Add menambahkan produk ke keranjang. Kalau product_id sudah ada,
// quantity-nya dinaikkan satu; tidak pernah ada dua line untuk produk
// yang sama.
func (c *Cart) Add(p ProductRef) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ProductID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Price:       p.Price,
		VendorID:    p.VendorID,
		Quantity:    1,
	})
}

// SetQuantity mengubah jumlah satu line. Quantity di bawah 1 diabaikan.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if qty < 1 {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return true
		}
	}
	return false
}

// SetNote menempelkan catatan pembeli pada satu line.
func (c *Cart) SetNote(productID, note string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Note = note
			return true
		}
	}
	return false
}

// Remove membuang satu line dari keranjang.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// VendorTotal adalah subtotal satu penjual di dalam keranjang.
type VendorTotal struct {
	VendorID string `json:"vendor_id"`
	Amount   int64  `json:"amount"`
}

// Totals adalah hasil agregasi keranjang.
type Totals struct {
	TotalPrice   int64         `json:"total_price"`
	VendorTotals []VendorTotal `json:"vendor_totals"`
}

// ByVendor mencari subtotal satu penjual; 0 kalau tidak ada.
func (t Totals) ByVendor(vendorID string) int64 {
	for _, vt := range t.VendorTotals {
		if vt.VendorID == vendorID {
			return vt.Amount
		}
	}
	return 0
}

// ComputeTotals menjumlahkan total belanja dan subtotal per penjual.
// Urutan VendorTotals mengikuti kemunculan pertama vendor di keranjang.
// Pure function: keranjang kosong -> total 0, mapping kosong.
func ComputeTotals(c Cart) Totals {
	t := Totals{}
	idx := make(map[string]int)
	for _, l := range c.Lines {
		sub := l.Subtotal()
		t.TotalPrice += sub
		if i, ok := idx[l.VendorID]; ok {
			t.VendorTotals[i].Amount += sub
			continue
		}
		idx[l.VendorID] = len(t.VendorTotals)
		t.VendorTotals = append(t.VendorTotals, VendorTotal{VendorID: l.VendorID, Amount: sub})
	}
	return t
}

// LinesForVendor memfilter line milik satu penjual, urutan dipertahankan.
func LinesForVendor(c Cart, vendorID string) []Line {
	var out []Line
	for _, l := range c.Lines {
		if l.VendorID == vendorID {
			out = append(out, l)
		}
	}
	return out
}
