// Package whatsapp membangun pesan konfirmasi pesanan per penjual dan
// deep link wa.me yang membuka aplikasi chat dengan pesan terisi.
package whatsapp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pasarkirana/marketplace/internal/cart"
	"github.com/pasarkirana/marketplace/internal/market"
)

type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodQRIS     PaymentMethod = "qris"
	MethodCOD      PaymentMethod = "cod"
)

// Confirmation adalah instruksi pembayaran untuk satu penjual di checkout.
type Confirmation struct {
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message"`
	URL        string `json:"url"`
	// Warning terisi kalau penjual belum melengkapi info pembayaran
	// untuk metode yang dipilih.
	Warning string `json:"warning,omitempty"`
}

// BuildVendorConfirmation menyusun pesan konfirmasi deterministik untuk satu
// penjual: nama pembeli, id pesanan, daftar item "Nx nama (catatan)" per
// baris, subtotal penjual, dan instruksi pembayaran sesuai metode.
func BuildVendorConfirmation(orderID string, v market.Vendor, customerName string, items []cart.Line, amount int64, method PaymentMethod) Confirmation {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s, saya %s ingin konfirmasi pesanan %s.\n\n", v.VendorName, customerName, orderID)
	b.WriteString("Pesanan saya:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%dx %s", it.Quantity, it.ProductName)
		if it.Note != "" {
			fmt.Fprintf(&b, " (%s)", it.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatRupiah(amount))

	c := Confirmation{
		VendorID:   v.VendorID,
		VendorName: v.VendorName,
		Amount:     amount,
	}

	switch method {
	case MethodTransfer:
		if v.BankAccount == "" {
			c.Warning = fmt.Sprintf("Penjual %s belum mencantumkan rekening bank. Hubungi penjual untuk info pembayaran.", v.VendorName)
		} else {
			fmt.Fprintf(&b, "Pembayaran: transfer ke %s\n", v.BankAccount)
		}
	case MethodQRIS:
		if v.QRISImageURL == "" {
			c.Warning = fmt.Sprintf("Penjual %s belum mengunggah kode QRIS. Hubungi penjual untuk info pembayaran.", v.VendorName)
		} else {
			fmt.Fprintf(&b, "Pembayaran: scan QRIS %s\n", v.QRISImageURL)
		}
	case MethodCOD:
		b.WriteString("Pembayaran: tunai saat pesanan diantar/diambil (COD).\n")
	}

	b.WriteString("Terima kasih!")
	c.Message = b.String()
	c.URL = DeepLink(v.WhatsappNumber, c.Message)
	return c
}

// DeepLink membentuk URL wa.me dengan pesan ter-encode.
func DeepLink(phone, message string) string {
	return "https://wa.me/" + NormalizePhone(phone) + "?text=" + url.QueryEscape(message)
}

// NormalizePhone membuang semua karakter non-digit (spasi, +, strip).
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatRupiah memformat "Rp 25,000" dengan pemisah ribuan.
func FormatRupiah(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return "Rp " + out
}
