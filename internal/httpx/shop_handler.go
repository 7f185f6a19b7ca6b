package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pasarkirana/marketplace/internal/cart"
	"github.com/pasarkirana/marketplace/internal/catalog"
	"github.com/pasarkirana/marketplace/internal/checkout"
	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/redisx"
	"github.com/pasarkirana/marketplace/internal/whatsapp"
)

// ShopHandler melayani sisi pembeli: katalog, keranjang, checkout, dan
// status pesanan.
type ShopHandler struct {
	Catalog  *catalog.Service
	Products *market.ProductRepo
	Vendors  *market.VendorRepo
	Orders   *market.OrderRepo
	Carts    *cart.Store
	Checkout *checkout.Service
	Redis    *redis.Client
}

func (h *ShopHandler) Register(r chi.Router) {
	r.Get("/catalog", h.listCatalog)
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.updateItem)
		r.Delete("/items/{productID}", h.removeItem)
	})
	r.Post("/checkout", h.checkout)
	r.Get("/orders/{id}", h.getOrderStatus)
}

const sessionCookie = "sid"

// sessionID mengambil id sesi shopper dari cookie, atau membuat sesi baru.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func (h *ShopHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []market.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type cartResp struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

func (h *ShopHandler) respondCart(w http.ResponseWriter, c cart.Cart) {
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	writeJSON(w, http.StatusOK, cartResp{Lines: c.Lines, Totals: cart.ComputeTotals(c)})
}

func (h *ShopHandler) getCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	c, err := h.Carts.Load(r.Context(), sid)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	h.respondCart(w, c)
}

func (h *ShopHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ProductID == "" {
		writeError(w, fmt.Errorf("%w: product_id wajib diisi", market.ErrValidation))
		return
	}

	// Harga diambil dari katalog saat ini; setelah masuk keranjang, harga
	// line jadi snapshot milik sesi.
	p, err := h.Products.GetVisible(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	sid := sessionID(w, r)
	c, err := h.Carts.Load(r.Context(), sid)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	c.Add(cart.ProductRef{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Price:       p.Price,
		VendorID:    p.VendorID,
	})
	if err := h.Carts.Save(r.Context(), sid, c); err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	h.respondCart(w, c)
}

func (h *ShopHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var req struct {
		Quantity int     `json:"quantity"`
		Note     *string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sid := sessionID(w, r)
	c, err := h.Carts.Load(r.Context(), sid)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}

	changed := false
	if req.Quantity > 0 {
		changed = c.SetQuantity(productID, req.Quantity) || changed
	}
	if req.Note != nil {
		changed = c.SetNote(productID, *req.Note) || changed
	}
	if !changed {
		writeError(w, fmt.Errorf("%w: produk tidak ada di keranjang", market.ErrNotFound))
		return
	}
	if err := h.Carts.Save(r.Context(), sid, c); err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	h.respondCart(w, c)
}

func (h *ShopHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	sid := sessionID(w, r)
	c, err := h.Carts.Load(r.Context(), sid)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	if !c.Remove(productID) {
		writeError(w, fmt.Errorf("%w: produk tidak ada di keranjang", market.ErrNotFound))
		return
	}
	if err := h.Carts.Save(r.Context(), sid, c); err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}
	h.respondCart(w, c)
}

type checkoutReq struct {
	CustomerName    string `json:"customer_name"`
	CustomerContact string `json:"customer_contact"`
	PaymentMethod   string `json:"payment_method"`
}

type checkoutResp struct {
	OrderID       string                  `json:"order_id"`
	TotalPrice    int64                   `json:"total_price"`
	OrderStatus   market.OrderStatus      `json:"order_status"`
	Confirmations []whatsapp.Confirmation `json:"confirmations"`
}

func (h *ShopHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { RecordOrderOperation("create", ok) }()

	var req checkoutReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	method := whatsapp.PaymentMethod(strings.ToLower(req.PaymentMethod))
	if method == "" {
		method = whatsapp.MethodTransfer
	}
	switch method {
	case whatsapp.MethodTransfer, whatsapp.MethodQRIS, whatsapp.MethodCOD:
	default:
		writeError(w, fmt.Errorf("%w: metode pembayaran tidak dikenal: %s", market.ErrValidation, req.PaymentMethod))
		return
	}

	sid := sessionID(w, r)
	c, err := h.Carts.Load(r.Context(), sid)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", market.ErrDependency, err))
		return
	}

	order, totals, err := h.Checkout.PlaceOrder(r.Context(), sid, c, req.CustomerName, req.CustomerContact)
	if err != nil {
		writeError(w, err)
		return
	}

	// Instruksi pembayaran per penjual, urut sesuai kemunculan di keranjang.
	confirmations := make([]whatsapp.Confirmation, 0, len(totals.VendorTotals))
	for _, vt := range totals.VendorTotals {
		v, err := h.Vendors.Get(r.Context(), vt.VendorID)
		if err != nil {
			confirmations = append(confirmations, whatsapp.Confirmation{
				VendorID: vt.VendorID,
				Amount:   vt.Amount,
				Warning:  "data penjual tidak ditemukan, hubungi pengelola",
			})
			continue
		}
		items := cart.LinesForVendor(cart.Cart{Lines: order.OrderDetails}, vt.VendorID)
		confirmations = append(confirmations, whatsapp.BuildVendorConfirmation(
			order.OrderID, v, order.CustomerName, items, vt.Amount, method))
	}

	ok = true
	writeJSON(w, http.StatusCreated, checkoutResp{
		OrderID:       order.OrderID,
		TotalPrice:    order.TotalPrice,
		OrderStatus:   order.OrderStatus,
		Confirmations: confirmations,
	})
}

func (h *ShopHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	// 1) coba cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	// 2) fallback DB
	status, err := h.Orders.GetStatus(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	body, _ := json.Marshal(map[string]any{"status": status})
	if h.Redis != nil {
		_ = h.Redis.Set(r.Context(), key, body, redisx.TTLStatusCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
