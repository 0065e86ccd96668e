package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/services"
)

// EmployeeHandler, personel panelinin ödeme karar endpoint'lerini yönetir.
// Route seviyesinde RequireRole(employee) ile korunur.
type EmployeeHandler struct {
	paymentService services.PaymentService
}

// NewEmployeeHandler, constructor.
func NewEmployeeHandler(paymentService services.PaymentService) *EmployeeHandler {
	return &EmployeeHandler{paymentService: paymentService}
}

// ListPending godoc
// GET /api/employee/payments
// Karar bekleyen tüm talimatları sahibinin kullanıcı adı ve hesap
// numarasıyla birlikte döner.
func (h *EmployeeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentService.ListPending(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, payments)
}

// Decide godoc
// PATCH /api/employee/payments/{id}
// Body: { "status": "approved" | "rejected" }
func (h *EmployeeHandler) Decide(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "identity not found in context")
		return
	}

	// r.PathValue: Go 1.22 ServeMux pattern'inden path parametresini okur.
	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "payment id is required")
		return
	}

	var req models.DecidePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.paymentService.Decide(r.Context(), id, req.Status, identity.Name); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "payment " + string(req.Status)})
}
