package httpx

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/pasarkirana/marketplace/internal/auth"
	"github.com/pasarkirana/marketplace/internal/catalog"
	"github.com/pasarkirana/marketplace/internal/checkout"
	"github.com/pasarkirana/marketplace/internal/imagestore"
	"github.com/pasarkirana/marketplace/internal/kafka"
	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/redisx"
)

// VendorHandler melayani portal penjual: akun, produk, pesanan, laporan.
type VendorHandler struct {
	Vendors     *market.VendorRepo
	Products    *market.ProductRepo
	Orders      *market.OrderRepo
	Catalog     *catalog.Service
	Issuer      *auth.TokenIssuer
	Uploader    imagestore.Uploader
	Producer    checkout.Publisher
	Redis       *redis.Client
	ServiceName string
}

func (h *VendorHandler) Register(r chi.Router) {
	r.Post("/vendor/register", h.register)
	r.Post("/vendor/login", h.login)
	r.Post("/vendor/password-reset", h.requestPasswordReset)

	r.Route("/vendor", func(r chi.Router) {
		r.Use(auth.RequireVendor(h.Issuer))
		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/products/{id}/image", h.uploadImage)
		r.Put("/payment", h.updatePayment)
		r.Get("/orders", h.listOrders)
		r.Put("/orders/{id}/status", h.updateOrderStatus)
		r.Get("/report.csv", h.reportCSV)
	})
}

type registerReq struct {
	VendorName      string `json:"vendor_name"`
	Username        string `json:"username"`
	WhatsappNumber  string `json:"whatsapp_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *VendorHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.VendorName == "" || req.Username == "" || req.WhatsappNumber == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeError(w, fmt.Errorf("%w: semua kolom wajib diisi", market.ErrValidation))
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, fmt.Errorf("%w: password dan konfirmasi password tidak cocok", market.ErrValidation))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	v := market.Vendor{
		VendorID:       market.NewID(market.PrefixVendor),
		VendorName:     req.VendorName,
		Username:       req.Username,
		PasswordHash:   hash,
		WhatsappNumber: req.WhatsappNumber,
		Status:         market.VendorPending,
		IsActive:       true,
	}
	if err := h.Vendors.Create(r.Context(), v); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"vendor_id": v.VendorID,
		"message":   "pendaftaran berhasil, tunggu persetujuan admin untuk mulai berjualan",
	})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *VendorHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	v, err := h.Vendors.GetByUsername(r.Context(), req.Username)
	if err != nil && !market.IsNotFound(err) {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	if err != nil || !auth.VerifyPassword(req.Password, v.PasswordHash) {
		// satu pesan untuk dua kasus, jangan bocorkan username mana yang ada
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "username atau password salah"})
		return
	}
	if !v.CanLogin() {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "akun belum disetujui admin atau sedang dinonaktifkan"})
		return
	}

	token, err := h.Issuer.Issue(v.VendorID, v.VendorName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":       token,
		"vendor_id":   v.VendorID,
		"vendor_name": v.VendorName,
	})
}

type resetReq struct {
	Username        string `json:"username"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *VendorHandler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Username == "" || req.NewPassword == "" {
		writeError(w, fmt.Errorf("%w: username dan password baru wajib diisi", market.ErrValidation))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, fmt.Errorf("%w: password dan konfirmasi password tidak cocok", market.ErrValidation))
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Vendors.RequestPasswordReset(r.Context(), req.Username, hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "permintaan reset password dikirim, tunggu persetujuan admin",
	})
}

func (h *VendorHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	vendorID := auth.VendorID(r.Context())
	var activeOnly *bool
	switch r.URL.Query().Get("filter") {
	case "active":
		t := true
		activeOnly = &t
	case "inactive":
		f := false
		activeOnly = &f
	}
	products, err := h.Products.ListByVendor(r.Context(), vendorID, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []market.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

type productReq struct {
	ProductName   string `json:"product_name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	ImageURL      string `json:"image_url"`
	StockQuantity int    `json:"stock_quantity"`
	IsActive      bool   `json:"is_active"`
	Category      string `json:"category"`
}

func (h *VendorHandler) validateProduct(req productReq) error {
	if req.ProductName == "" || req.Description == "" {
		return fmt.Errorf("%w: nama produk dan deskripsi wajib diisi", market.ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: harga tidak boleh negatif", market.ErrValidation)
	}
	if req.StockQuantity < 0 {
		return fmt.Errorf("%w: stok tidak boleh negatif", market.ErrValidation)
	}
	return nil
}

func (h *VendorHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateProduct(req); err != nil {
		writeError(w, err)
		return
	}
	p := market.Product{
		ProductID:     market.NewID(market.PrefixProduct),
		VendorID:      auth.VendorID(r.Context()),
		ProductName:   req.ProductName,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		Category:      req.Category,
		LastUpdated:   time.Now(),
	}
	if err := h.Products.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	h.Catalog.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, p)
}

func (h *VendorHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateProduct(req); err != nil {
		writeError(w, err)
		return
	}
	p := market.Product{
		ProductID:     chi.URLParam(r, "id"),
		VendorID:      auth.VendorID(r.Context()),
		ProductName:   req.ProductName,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		Category:      req.Category,
		LastUpdated:   time.Now(),
	}
	if err := h.Products.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	h.Catalog.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, p)
}

func (h *VendorHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Products.Delete(r.Context(), chi.URLParam(r, "id"), auth.VendorID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	h.Catalog.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "produk berhasil dihapus"})
}

const maxImageBytes = 5 << 20

func (h *VendorHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, fmt.Errorf("%w: upload tidak valid", market.ErrValidation))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, fmt.Errorf("%w: field image wajib diisi", market.ErrValidation))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		writeError(w, fmt.Errorf("%w: format gambar harus jpg/jpeg/png", market.ErrValidation))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: gagal membaca file", market.ErrValidation))
		return
	}
	url, err := h.Uploader.Upload(data, ext)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}

	if err := h.Products.SetImageURL(r.Context(), chi.URLParam(r, "id"), auth.VendorID(r.Context()), url, time.Now()); err != nil {
		writeError(w, err)
		return
	}
	h.Catalog.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

type paymentReq struct {
	BankAccount  string `json:"bank_account"`
	QRISImageURL string `json:"qris_image_url"`
}

func (h *VendorHandler) updatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Vendors.UpdatePayment(r.Context(), auth.VendorID(r.Context()), req.BankAccount, req.QRISImageURL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "info pembayaran tersimpan"})
}

func (h *VendorHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByVendor(r.Context(), auth.VendorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []market.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *VendorHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { RecordOrderOperation("update_status", ok) }()

	orderID := chi.URLParam(r, "id")
	vendorID := auth.VendorID(r.Context())
	var req struct {
		Status market.OrderStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !market.KnownStatus(req.Status) {
		writeError(w, fmt.Errorf("%w: status tidak dikenal: %s", market.ErrValidation, req.Status))
		return
	}

	if err := h.Orders.UpdateStatus(r.Context(), orderID, vendorID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	// refresh cache status supaya GET /orders/{id} langsung lihat nilai baru
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = h.Redis.Set(r.Context(), key, fmt.Sprintf(`{"status":%q}`, req.Status), redisx.TTLStatusCache).Err()
	}

	if h.Producer != nil {
		ev := market.Envelope{
			EventID:       uuid.NewString(),
			EventType:     market.EventOrderStatusChanged,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      h.ServiceName,
			CorrelationID: orderID,
			Payload: kafka.MustMarshal(market.OrderStatusChangedPayload{
				OrderID:   orderID,
				VendorID:  vendorID,
				NewStatus: req.Status,
			}),
		}
		h.Producer.Publish(market.PartitionKey(orderID), kafka.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(market.EventOrderStatusChanged)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	ok = true
	writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "status": string(req.Status)})
}

// reportCSV mengekspor laporan keuangan penjual: pesanan Selesai saja,
// subtotal dari snapshot order_details.
func (h *VendorHandler) reportCSV(w http.ResponseWriter, r *http.Request) {
	vendorID := auth.VendorID(r.Context())
	rows, err := h.Orders.VendorReport(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="laporan-penjualan.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"order_id", "tanggal", "pembeli", "produk", "jumlah", "harga_satuan", "subtotal"})

	var grand int64
	for _, row := range rows {
		for _, l := range row.Lines {
			_ = cw.Write([]string{
				row.OrderID,
				row.CreatedAt,
				row.CustomerName,
				l.ProductName,
				strconv.Itoa(l.Quantity),
				strconv.FormatInt(l.Price, 10),
				strconv.FormatInt(l.Subtotal(), 10),
			})
		}
		grand += row.VendorTotal
	}
	_ = cw.Write([]string{"", "", "", "", "", "total", strconv.FormatInt(grand, 10)})
	cw.Flush()
}
