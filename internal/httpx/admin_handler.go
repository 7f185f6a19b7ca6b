package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pasarkirana/marketplace/internal/auth"
	"github.com/pasarkirana/marketplace/internal/catalog"
	"github.com/pasarkirana/marketplace/internal/market"
)

// AdminHandler melayani persetujuan pendaftaran penjual dan reset password.
type AdminHandler struct {
	Vendors    *market.VendorRepo
	Catalog    *catalog.Service
	AdminToken string
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(h.AdminToken))
		r.Get("/vendors", h.listVendors)
		r.Post("/vendors/{id}/approve", h.approveVendor)
		r.Post("/vendors/{id}/reject", h.rejectVendor)
		r.Put("/vendors/{id}/active", h.setVendorActive)
		r.Get("/password-resets", h.listResets)
		r.Post("/password-resets/{id}/approve", h.approveReset)
		r.Post("/password-resets/{id}/reject", h.rejectReset)
	})
}

func (h *AdminHandler) listVendors(w http.ResponseWriter, r *http.Request) {
	var (
		vendors []market.Vendor
		err     error
	)
	if r.URL.Query().Get("status") == "pending" {
		vendors, err = h.Vendors.ListPending(r.Context())
	} else {
		vendors, err = h.Vendors.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if vendors == nil {
		vendors = []market.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *AdminHandler) setStatus(w http.ResponseWriter, r *http.Request, status market.VendorStatus) {
	if err := h.Vendors.SetStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		writeError(w, err)
		return
	}
	// status penjual mempengaruhi visibilitas produknya di katalog
	h.Catalog.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *AdminHandler) approveVendor(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, market.VendorApproved)
}

func (h *AdminHandler) rejectVendor(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, market.VendorRejected)
}

func (h *AdminHandler) setVendorActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Vendors.SetActive(r.Context(), chi.URLParam(r, "id"), req.IsActive); err != nil {
		writeError(w, err)
		return
	}
	h.Catalog.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

func (h *AdminHandler) listResets(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Vendors.ListPendingResets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if vendors == nil {
		vendors = []market.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *AdminHandler) resolveReset(w http.ResponseWriter, r *http.Request, approve bool) {
	if err := h.Vendors.ResolvePasswordReset(r.Context(), chi.URLParam(r, "id"), approve); err != nil {
		writeError(w, err)
		return
	}
	msg := "reset password ditolak"
	if approve {
		msg = "reset password disetujui"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *AdminHandler) approveReset(w http.ResponseWriter, r *http.Request) {
	h.resolveReset(w, r, true)
}

func (h *AdminHandler) rejectReset(w http.ResponseWriter, r *http.Request) {
	h.resolveReset(w, r, false)
}
