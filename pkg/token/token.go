// Package token — imzalı, süreli auth token'larının üretimi ve doğrulanması.
//
// Codec, HS256 (HMAC-SHA256) ile imzalanmış JWT üretir. İmza anahtarı
// process-wide konfigürasyondan gelir, koda GÖMÜLMEZ — anahtar yoksa
// uygulama hiç başlamamalıdır (bkz. New).
//
// Neden ayrı paket?
// Token üretimi/doğrulaması hem auth service hem middleware hem de
// websocket handler tarafından kullanılır. handlers ↔ middleware arasında
// import cycle oluşmaması için leaf bir paket olarak konumlandırıldı —
// pkg/token sadece models'e bağımlıdır.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ekurtal/havale/models"
	"github.com/golang-jwt/jwt/v5"
)

// Doğrulama hataları. Caller hangi kontrolün patladığını errors.Is ile
// ayırt edebilir — ama bu ayrım dış dünyaya SIZDIRILMAMALIDIR
// (middleware hepsini aynı generic 401 mesajına çevirir).
var (
	// ErrNoSecret, imza anahtarı konfigüre edilmediğinde döner.
	// Bu bir startup hatasıdır — request başına yakalanacak bir şey değil.
	ErrNoSecret = errors.New("token: signing secret is not configured")

	// ErrMalformed — token JWT olarak parse edilemiyor.
	ErrMalformed = errors.New("token: malformed")

	// ErrSignature — imza doğrulanamadı (anahtar uyuşmazlığı veya oynanmış token).
	ErrSignature = errors.New("token: invalid signature")

	// ErrExpired — exp claim'i geçmişte.
	ErrExpired = errors.New("token: expired")
)

// Codec, claim'leri imzalı token string'ine çevirir ve geri doğrular.
type Codec struct {
	secret []byte
	issuer string

	// now, test'lerde saat enjekte edebilmek için alan olarak tutulur.
	now func() time.Time
}

// New, yeni bir Codec oluşturur. Boş secret ErrNoSecret döner —
// caller (config katmanı) bunu fatal startup hatası olarak ele almalıdır.
func New(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue, verilen kimlik bilgileriyle imzalı bir token üretir.
// exp = iat + ttl. ttl sıfır veya negatifse token baştan süresi dolmuş
// olur — bunu engellemek caller'ın sorumluluğudur (test'ler bilerek
// ttl=0 ile süresi dolmuş token üretir).
func (c *Codec) Issue(name string, role models.Role, sessionID string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := &models.TokenClaims{
		Name:      name,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify, token'ı parse eder, imzasını ve süresini kontrol eder.
//
// Dönen claims'teki ExpiresAt caller tarafından AYRICA duvar saatine
// karşı kontrol edilmelidir (bkz. middleware/auth.go) — buradaki exp
// kontrolü tek savunma hattı olarak KABUL EDİLMEZ.
func (c *Codec) Verify(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// Algoritma kontrolü: "alg: none" veya RS256→HS256 downgrade
		// saldırılarına karşı sadece HMAC kabul edilir.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))

	if err != nil {
		switch {
		// İmza kontrolü önce: hem imzası bozuk hem süresi dolmuş bir token
		// "expired" değil "signature" hatası almalıdır.
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			// İmza geçerli ama süre dolmuş: claims yine de döner ki caller
			// token'daki oturumu bulup sonlandırabilsin.
			return claims, ErrExpired
		default:
			return nil, ErrMalformed
		}
	}

	if !tok.Valid {
		return nil, ErrSignature
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, ErrSignature
	}

	return claims, nil
}
