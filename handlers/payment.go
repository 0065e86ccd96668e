package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/services"
)

// PaymentHandler, müşterinin ödeme talimatı endpoint'lerini yönetir.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler, constructor.
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create godoc
// POST /api/payments
// Auth middleware gerektirir. Talimat sahibi oturumdaki kimliktir —
// body'de owner alanı YOKTUR ve kabul edilmez.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "identity not found in context")
		return
	}

	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.paymentService.Create(r.Context(), identity.Name, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, payment)
}

// ListMine godoc
// GET /api/payments
// Müşterinin kendi talimatlarını döner.
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "identity not found in context")
		return
	}

	payments, err := h.paymentService.ListMine(r.Context(), identity.Name)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, payments)
}
