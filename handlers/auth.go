// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/pkg/clientip"
	"github.com/ekurtal/havale/pkg/lockout"
	"github.com/ekurtal/havale/services"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
// Service interface'i ve lockout tracker constructor'dan alınır (DI).
type AuthHandler struct {
	authService services.AuthService
	tracker     *lockout.Tracker
	trustProxy  bool
}

// NewAuthHandler, constructor.
// tracker: Login brute-force koruması. nil ise lockout devre dışı kalır.
// trustProxy: X-Forwarded-For header'ına güvenilip güvenilmeyeceği —
// login sırasında oturuma bağlanan IP buradan çözülür.
func NewAuthHandler(authService services.AuthService, tracker *lockout.Tracker, trustProxy bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tracker:     tracker,
		trustProxy:  trustProxy,
	}
}

// Signup godoc
// POST /api/auth/signup
// Her yeni kayıt müşteri (customer) rolü alır.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest

	// json.NewDecoder: Request body'yi Go struct'ına parse eder.
	// r.Body bir io.Reader'dır — stream olarak okunur, hepsini belleğe almaz.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, user)
}

// Login godoc
// POST /api/auth/login
//
// Brute-force koruması: kullanıcı adı bazlı deneme takibi.
// - 15 dakikalık pencere içinde 5 başarısız deneme hesabı kilitler.
// - Kilitliyken 429 Too Many Requests + Retry-After header döner;
//   şifre doğru olsa bile denenmez.
// - Başarılı login sayacı sıfırlar — meşru kullanıcı bloke olmaz.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Lockout kontrolü — kilitli hesapta şifre hiç denenmez
	if h.tracker != nil && h.tracker.IsLocked(req.Username) {
		retryAfter := h.tracker.RetryAfterSeconds(req.Username)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.Error(w, fmt.Errorf("%w: too many login attempts, please try again in %s",
			pkg.ErrLocked, lockout.FormatRetryMessage(retryAfter)))
		return
	}

	result, err := h.authService.Login(r.Context(), &req, clientip.FromRequest(r, h.trustProxy))
	if err != nil {
		// Sadece kimlik doğrulama hataları sayılır — validation hatası
		// veya DB hatası deneme sayısını artırmaz.
		if h.tracker != nil && errors.Is(err, pkg.ErrUnauthorized) {
			h.tracker.RecordFailure(req.Username)
		}
		pkg.Error(w, err)
		return
	}

	// Başarılı login — sayacı sıfırla.
	// Meşru kullanıcı doğru şifreyi girdiğinde sayaç temizlenir,
	// böylece sonraki denemelerinde kilide takılmaz.
	if h.tracker != nil {
		h.tracker.Clear(req.Username)
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Logout godoc
// POST /api/auth/logout
// Auth middleware gerektirir — oturum context'teki kimlikten bulunur.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "identity not found in context")
		return
	}

	h.authService.Logout(identity.SessionID)

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// GET /api/users/me
// Auth middleware gerektirir — context'te kimlik bilgisi olur.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "identity not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, identity)
}
