package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/pkg/session"
	"github.com/ekurtal/havale/pkg/token"
)

// fakeUserRepo, testlerde SQLite yerine geçen bellek içi repository.
type fakeUserRepo struct {
	users map[string]*models.User // username → user
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := f.users[user.Username]; exists {
		return pkg.ErrAlreadyExists
	}
	user.ID = "id-" + user.Username
	cp := *user
	f.users[user.Username] = &cp
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *session.Store) {
	t.Helper()

	codec, err := token.New("test-secret", "havale")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	store := session.NewStore()

	return NewAuthService(repo, store, codec, 60), repo, store
}

func signupRequest() *models.SignupRequest {
	return &models.SignupRequest{
		Username:      "alice",
		AccountNumber: "12345678",
		Password:      "Str0ng!Pass",
	}
}

func TestSignup(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)
	require.Equal(t, models.RoleCustomer, user.Role) // signup HER ZAMAN müşteri açar
	require.NotEqual(t, "Str0ng!Pass", user.PasswordHash)

	// Hash bcrypt ile doğrulanabilir olmalı
	stored := repo.users["alice"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Str0ng!Pass")))
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), signupRequest())
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestSignup_InvalidInput(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	req := signupRequest()
	req.Password = "weak"
	_, err := svc.Signup(context.Background(), req)
	require.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestLogin(t *testing.T) {
	svc, _, store := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(),
		&models.LoginRequest{Username: "alice", Password: "Str0ng!Pass"}, "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "alice", result.User.Username)
	require.Empty(t, result.User.PasswordHash) // json:"-" olsa da struct'ta taşınmamalı

	// Oturum açılmış ve token iliştirilmiş olmalı
	require.Equal(t, 1, store.Len())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, store := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(),
		&models.LoginRequest{Username: "alice", Password: "Wr0ng!Pass"}, "10.0.0.1")
	require.ErrorIs(t, err, pkg.ErrUnauthorized)
	require.Equal(t, 0, store.Len()) // başarısız login oturum AÇMAZ
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(),
		&models.LoginRequest{Username: "nobody99", Password: "Str0ng!Pass"}, "10.0.0.1")

	// Bilinmeyen kullanıcı ile yanlış şifre AYNI hatayı almalı —
	// farklı mesajlar kayıtlı kullanıcı adlarını sızdırırdı.
	require.ErrorIs(t, err, pkg.ErrUnauthorized)
	require.Contains(t, err.Error(), "invalid username or password")
}

func TestLogin_SecondLoginSupersedes(t *testing.T) {
	svc, _, store := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	first, err := svc.Login(context.Background(),
		&models.LoginRequest{Username: "alice", Password: "Str0ng!Pass"}, "10.0.0.1")
	require.NoError(t, err)

	second, err := svc.Login(context.Background(),
		&models.LoginRequest{Username: "alice", Password: "Str0ng!Pass"}, "10.0.0.1")
	require.NoError(t, err)

	// Her login YENİ oturum açar; token'lar farklıdır
	require.NotEqual(t, first.Token, second.Token)
	require.Equal(t, 2, store.Len())
}

func TestLogout(t *testing.T) {
	codec, err := token.New("test-secret", "havale")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	store := session.NewStore()
	svc := NewAuthService(repo, store, codec, 60)

	_, err = svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(),
		&models.LoginRequest{Username: "alice", Password: "Str0ng!Pass"}, "10.0.0.1")
	require.NoError(t, err)

	// Oturum ID'si token'ın içindedir
	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)

	svc.Logout(claims.SessionID)
	require.Equal(t, 0, store.Len())

	// Idempotent — aynı oturumu tekrar kapatmak hata/panic üretmez
	svc.Logout(claims.SessionID)
}

func TestSeedEmployee(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	require.NoError(t, svc.SeedEmployee(context.Background(), "teller", "Sup3r!Secret"))

	emp := repo.users["teller"]
	require.NotNil(t, emp)
	require.Equal(t, models.RoleEmployee, emp.Role)
	require.Empty(t, emp.AccountNumber)

	// İkinci çağrı idempotent — mevcut hesabı ezmez
	before := emp.PasswordHash
	require.NoError(t, svc.SeedEmployee(context.Background(), "teller", "Different!1"))
	require.Equal(t, before, repo.users["teller"].PasswordHash)
}

func TestSeedEmployee_SkippedWithoutCredentials(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	require.NoError(t, svc.SeedEmployee(context.Background(), "", ""))
	require.Empty(t, repo.users)
}
