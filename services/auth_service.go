// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Şifre hash'leme
//   - Oturum ve JWT token oluşturma
//   - Ödeme talimatı kuralları
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/pkg/session"
	"github.com/ekurtal/havale/pkg/token"
	"github.com/ekurtal/havale/repository"
)

// AuthService interface'i — dışarıya açık API.
// Handler bu interface'e bağımlıdır, concrete struct'a değil.
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	// Login, kimlik doğrulaması yapar ve yeni bir oturum + token üretir.
	// ip, oturuma bağlanan istemci adresidir — sonraki her istekte karşılaştırılır.
	Login(ctx context.Context, req *models.LoginRequest, ip string) (*LoginResult, error)
	Logout(sessionID string)
	// SeedEmployee, konfigürasyonda tanımlı personel hesabını açılışta oluşturur.
	SeedEmployee(ctx context.Context, username, password string) error
}

// LoginResult, başarılı login sonrası dönen token ve kullanıcı bilgisi.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// authService, AuthService interface'inin implementasyonu.
type authService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	codec    *token.Codec
	tokenTTL time.Duration
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	sessions *session.Store,
	codec *token.Codec,
	tokenExpiryMinutes int,
) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		codec:    codec,
		tokenTTL: time.Duration(tokenExpiryMinutes) * time.Minute,
	}
}

// Signup, yeni müşteri kaydı oluşturur.
//
// Rol her zaman "customer" olarak atanır — personel hesapları sadece
// açılışta SeedEmployee ile oluşturulur, public endpoint'ten asla.
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	// 1. Validation
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Bcrypt hash (cost=12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. User oluştur
	user := &models.User{
		Username:      req.Username,
		AccountNumber: req.AccountNumber,
		PasswordHash:  string(hash),
		Role:          models.RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	return user, nil
}

// Login, kullanıcı girişi yapar.
//
// Güvenlik: Kullanıcı bulunamadığında da, şifre yanlış olduğunda da
// AYNI hata döner ("invalid username or password"). Farklı mesajlar
// saldırgana hangi kullanıcı adlarının kayıtlı olduğunu söylerdi
// (username enumeration).
//
// Her başarılı login YENİ bir oturum açar. Aynı kullanıcının önceki
// oturumu store'da kalsa bile token'ı artık hiçbir oturumla eşleşmez —
// en son verilen token kazanır.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest, ip string) (*LoginResult, error) {
	// 1. Validation
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Kullanıcıyı bul
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// 3. Şifre kontrolü
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	// 4. Oturum aç — IP adresi oturuma bağlanır
	sid, err := s.sessions.Create(ip, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// 5. Token üret ve oturuma iliştir
	signed, err := s.codec.Issue(user.Username, user.Role, sid, s.tokenTTL)
	if err != nil {
		s.sessions.Invalidate(sid)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.sessions.AttachToken(sid, signed); err != nil {
		s.sessions.Invalidate(sid)
		return nil, fmt.Errorf("failed to attach token: %w", err)
	}

	// Hash response struct'ında taşınmamalı — json:"-" zaten serialize
	// etmez ama kopyada da durmasına gerek yok.
	user.PasswordHash = ""

	return &LoginResult{Token: signed, User: *user}, nil
}

// Logout, oturumu sonlandırır. Oturum zaten yoksa sessizce geçer —
// logout idempotent'tir.
func (s *authService) Logout(sessionID string) {
	s.sessions.Invalidate(sessionID)
}

// SeedEmployee, konfigürasyonda tanımlı personel hesabını oluşturur.
// Hesap zaten varsa hiçbir şey yapmaz. Credential'lar boşsa seed atlanır.
func (s *authService) SeedEmployee(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		log.Println("[auth] employee credentials not configured, skipping seed")
		return nil
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil // zaten var
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("failed to hash employee password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	log.Printf("[auth] seeded employee account: %s", username)
	return nil
}
