package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/pkg/lockout"
	"github.com/ekurtal/havale/services"
)

// fakeAuthService, handler testi için: "alice"/"Str0ng!Pass" dışında
// her kombinasyon kimlik hatası üretir.
type fakeAuthService struct {
	logins int
}

func (f *fakeAuthService) Signup(_ context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	return &models.User{Username: req.Username, Role: models.RoleCustomer}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req *models.LoginRequest, _ string) (*services.LoginResult, error) {
	f.logins++
	if req.Username == "alice" && req.Password == "Str0ng!Pass" {
		return &services.LoginResult{Token: "tok", User: models.User{Username: "alice"}}, nil
	}
	return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
}

func (f *fakeAuthService) Logout(string) {}

func (f *fakeAuthService) SeedEmployee(context.Context, string, string) error { return nil }

func postLogin(h *AuthHandler, username, password string) *httptest.ResponseRecorder {
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	r.RemoteAddr = "10.0.0.1:51234"
	rec := httptest.NewRecorder()
	h.Login(rec, r)
	return rec
}

func TestLogin_LockoutAfterFiveFailures(t *testing.T) {
	svc := &fakeAuthService{}
	tracker := lockout.NewTracker(5, 15*time.Minute)
	t.Cleanup(tracker.Stop)

	h := NewAuthHandler(svc, tracker, false)

	for i := 0; i < 5; i++ {
		rec := postLogin(h, "alice", "Wr0ng!Pass")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// Altıncı deneme şifre DOĞRU olsa bile 429 almalı — kilitliyken
	// credential hiç denenmez.
	before := svc.logins
	rec := postLogin(h, "alice", "Str0ng!Pass")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "too many login attempts")
	require.Equal(t, before, svc.logins) // service'e hiç ulaşmadı
}

func TestLogin_SuccessClearsCounter(t *testing.T) {
	svc := &fakeAuthService{}
	tracker := lockout.NewTracker(5, 15*time.Minute)
	t.Cleanup(tracker.Stop)

	h := NewAuthHandler(svc, tracker, false)

	for i := 0; i < 4; i++ {
		postLogin(h, "alice", "Wr0ng!Pass")
	}

	rec := postLogin(h, "alice", "Str0ng!Pass")
	require.Equal(t, http.StatusOK, rec.Code)

	// Sayaç temizlendi — dört yeni başarısız deneme daha kilitlemez
	for i := 0; i < 4; i++ {
		rec = postLogin(h, "alice", "Wr0ng!Pass")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestLogin_LockoutIsPerUsername(t *testing.T) {
	svc := &fakeAuthService{}
	tracker := lockout.NewTracker(5, 15*time.Minute)
	t.Cleanup(tracker.Stop)

	h := NewAuthHandler(svc, tracker, false)

	for i := 0; i < 5; i++ {
		postLogin(h, "bob", "Wr0ng!Pass")
	}

	// bob kilitli, alice etkilenmez
	rec := postLogin(h, "bob", "Wr0ng!Pass")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = postLogin(h, "alice", "Str0ng!Pass")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_InvalidBody(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, nil, false)

	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Login(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 0, svc.logins)
}

func TestSignup_Created(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, nil, false)

	body := `{"username":"alice","account_number":"12345678","password":"Str0ng!Pass"}`
	r := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"alice"`)
}

func TestMe_WithoutIdentity(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, nil, false)

	r := httptest.NewRequest("GET", "/api/users/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, r)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
