// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Veritabanındaki bir tablonun Go karşılığıdır.
// Aynı zamanda API'den gelen/giden verilerin şeklini de belirler.
//
// Go'da `json:"username"` gibi tag'ler, struct field'larının JSON'a
// nasıl serialize/deserialize edileceğini belirler.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Role, kullanıcının portal içindeki rolünü temsil eder.
// Go'da enum yoktur — typed constant'lar kullanılır. Role'ü serbest
// string yerine kapalı bir küme olarak tutuyoruz: token içinde gelen
// bilinmeyen bir rol değeri doğrulamadan geçemez.
type Role string

// İzin verilen Role değerleri.
const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// Valid, rolün tanımlı değerlerden biri olup olmadığını kontrol eder.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleEmployee
}

// User, bir portal kullanıcısını temsil eder (müşteri veya çalışan).
// AccountNumber müşterinin banka hesap numarasıdır; çalışan hesaplarında boştur.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"account_number"`
	PasswordHash  string    `json:"-"` // json:"-" → API response'a DAHİL ETME (güvenlik!)
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// Whitelist regex'leri — input validation "kara liste" değil "beyaz liste"
// ile yapılır: sadece bilinen-iyi formatlar kabul edilir.
var (
	usernameRegex      = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{8,17}$`)
)

// SignupRequest, kayıt olurken frontend'den gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type SignupRequest struct {
	Username      string `json:"username"`
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

// Validate, SignupRequest'i whitelist kurallarına göre kontrol eder.
//   - Username: 3-20 karakter, alfanumerik + alt çizgi
//   - AccountNumber: 8-17 rakam
//   - Password: 8-100 karakter, küçük/büyük harf + rakam + özel karakter
func (r *SignupRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if !usernameRegex.MatchString(r.Username) {
		return fmt.Errorf("username must be 3-20 characters of letters, numbers, and underscores")
	}

	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	if !accountNumberRegex.MatchString(r.AccountNumber) {
		return fmt.Errorf("account number must be 8-17 digits")
	}

	if err := validatePassword(r.Password); err != nil {
		return err
	}

	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
// Login'de şifre karmaşıklığı TEKRAR kontrol edilmez — eski kurallarla
// açılmış bir hesabın sahibi giriş yapabilmelidir.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if !usernameRegex.MatchString(r.Username) {
		return fmt.Errorf("invalid username format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// validatePassword, şifre karmaşıklık kurallarını kontrol eder.
//
// Go'nun regexp paketi (RE2) lookahead desteklemez — bu yüzden
// "en az bir küçük harf, bir büyük harf, bir rakam, bir özel karakter"
// kuralları tek regex yerine rune taraması ile uygulanır.
func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 100 {
		return fmt.Errorf("password must be between 8 and 100 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case strings.ContainsRune("@$!%*?&", ch):
			hasSpecial = true
		default:
			return fmt.Errorf("password contains disallowed characters")
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain lowercase, uppercase, digit, and special characters (@$!%%*?&)")
	}

	return nil
}
