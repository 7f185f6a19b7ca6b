package market

import (
	"time"

	"github.com/pasarkirana/marketplace/internal/cart"
)

type VendorStatus string

const (
	VendorPending  VendorStatus = "pending"
	VendorApproved VendorStatus = "approved"
	VendorRejected VendorStatus = "rejected"
)

type ResetStatus string

const (
	ResetNone     ResetStatus = "none"
	ResetPending  ResetStatus = "pending"
	ResetApproved ResetStatus = "approved"
	ResetRejected ResetStatus = "rejected"
)

// Vendor adalah penjual terdaftar lengkap dengan info pembayaran.
type Vendor struct {
	VendorID            string       `json:"vendor_id"`
	VendorName          string       `json:"vendor_name"`
	Username            string       `json:"username"`
	PasswordHash        string       `json:"-"`
	WhatsappNumber      string       `json:"whatsapp_number"`
	Status              VendorStatus `json:"status"`
	IsActive            bool         `json:"is_active"`
	BankAccount         string       `json:"bank_account,omitempty"`
	QRISImageURL        string       `json:"qris_image_url,omitempty"`
	ResetStatus         ResetStatus  `json:"reset_status"`
	PendingPasswordHash string       `json:"-"`
	CreatedAt           time.Time    `json:"created_at"`
}

// CanLogin: hanya penjual approved yang masih aktif boleh masuk portal.
// Penjual yang dinonaktifkan admin kehilangan akses walau sudah approved.
func (v Vendor) CanLogin() bool {
	return v.Status == VendorApproved && v.IsActive
}

type Product struct {
	ProductID     string    `json:"product_id"`
	VendorID      string    `json:"vendor_id"`
	ProductName   string    `json:"product_name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	ImageURL      string    `json:"image_url"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	Category      string    `json:"category"`
	LastUpdated   time.Time `json:"last_updated"`
}

// CatalogItem adalah baris katalog untuk shopper: produk visible yang sudah
// dijoin dengan nama penjualnya.
type CatalogItem struct {
	Product
	VendorName string `json:"vendor_name"`
}

// Order adalah satu pesanan checkout. order_details adalah snapshot keranjang
// saat pembuatan; total_price tidak pernah dihitung ulang walau harga produk
// berubah belakangan.
type Order struct {
	OrderID         string      `json:"order_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerContact string      `json:"customer_contact"`
	OrderDetails    []cart.Line `json:"order_details"`
	TotalPrice      int64       `json:"total_price"`
	OrderStatus     OrderStatus `json:"order_status"`
	CreatedAt       time.Time   `json:"created_at"`
}
