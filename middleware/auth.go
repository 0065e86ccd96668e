// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware Pattern nedir?
// Her HTTP request, handler'a ulaşmadan önce bir veya daha fazla middleware'dan geçer.
// Middleware'lar zincir şeklinde çalışır: Auth → Role → Handler
//
// Go'da middleware bir fonksiyondur:
//   func(next http.Handler) http.Handler
//
// "next" parametresi zincirdeki bir sonraki handler'dır.
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Eğer hata varsa next'i çağırmaz → request burada durur.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ekurtal/havale/handlers"
	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/pkg/clientip"
	"github.com/ekurtal/havale/pkg/session"
	"github.com/ekurtal/havale/pkg/token"
)

// genericAuthMessage, token eksik/geçersiz/oturumsuz durumların HEPSİNDE
// dönen tek mesajdır. Farklı mesajlar saldırgana "imza geçerli ama oturum
// yok" gibi ipuçları verirdi — hangi aşamada takıldığı dışarı sızmamalı.
const genericAuthMessage = "authentication required"

// Oturum gaspı ve süre dolumu kasıtlı olarak AYRI mesajlarla döner:
// ikisinde de oturum zaten yakılmıştır, saldırganın öğreneceği yeni bir
// şey yoktur; meşru kullanıcı ise ne olduğunu anlamalıdır.
var (
	// ErrSessionHijack, token geçerli ama istek oturumun bağlandığı IP'den
	// farklı bir adresten geldiğinde döner. Oturum anında sonlandırılır.
	ErrSessionHijack = errors.New("session hijack detected")

	// ErrTokenExpired, token'ın süresi dolduğunda döner. Oturum sonlandırılır.
	ErrTokenExpired = errors.New("token expired")

	// errUnauthenticated, generic 401 durumlarının iç sentinel'i.
	errUnauthenticated = errors.New(genericAuthMessage)
)

// AuthMiddleware, token + oturum doğrulama middleware'ı.
//
// Tek başına JWT imzası yeterli DEĞİLDİR: imza geçerli olsa bile oturum
// sunucu tarafında yaşıyor olmalı, token oturumdaki SON token olmalı ve
// istek oturumun açıldığı IP'den gelmelidir.
type AuthMiddleware struct {
	codec      *token.Codec
	sessions   *session.Store
	trustProxy bool
	now        func() time.Time
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(codec *token.Codec, sessions *session.Store, trustProxy bool) *AuthMiddleware {
	return &AuthMiddleware{
		codec:      codec,
		sessions:   sessions,
		trustProxy: trustProxy,
		now:        time.Now,
	}
}

// Authenticate, bir isteğin kimliğini uçtan uca doğrular.
//
// Kontrol sırası:
// 1. Token imzasını ve claim'leri doğrula
// 2. Token'daki oturum ID'si ile oturumu bul
// 3. Sunulan token, oturumdaki SON token ile birebir aynı mı?
//    (yeni login eski token'ı geçersiz kılar — en son token kazanır)
// 4. İstek IP'si oturumun bağlandığı IP ile eşleşiyor mu?
//    Eşleşmiyorsa oturum GASP varsayılır ve anında yakılır.
// 5. Süre kontrolü — imza doğrulaması zaten exp'e bakar ama burada
//    duvar saatine karşı bir kez daha bakılır; süresi dolmuşsa oturum
//    sonlandırılır ki bayat kayıt store'da yaşamaya devam etmesin.
//
// Başarısız HER durumda hata döner ve next handler'a asla geçilmez.
// WebSocket handler'ı da aynı fonksiyonu kullanır — HTTP ile WS arasında
// doğrulama farkı yoktur.
func (m *AuthMiddleware) Authenticate(r *http.Request, rawToken string) (*models.Identity, error) {
	// 1. İmza + claim doğrulama
	claims, err := m.codec.Verify(rawToken)
	if err != nil {
		// Süresi dolmuş (ama imzası geçerli) token expired kategorisiyle
		// reddedilir ve oturumu yakılır — meşru kullanıcı yeniden login
		// olması gerektiğini bilmelidir. Diğer her hata generic 401'dir.
		if errors.Is(err, token.ErrExpired) && claims != nil && claims.SessionID != "" {
			m.sessions.Invalidate(claims.SessionID)
			return nil, ErrTokenExpired
		}
		return nil, errUnauthenticated
	}

	if claims.SessionID == "" || !claims.Role.Valid() {
		return nil, errUnauthenticated
	}

	// 2. Oturum sunucu tarafında yaşıyor mu?
	rec, err := m.sessions.Lookup(claims.SessionID)
	if err != nil {
		return nil, errUnauthenticated
	}

	// 3. En son token kazanır — oturuma iliştirilmiş token'dan farklı
	// her token (önceki login'in token'ı dahil) reddedilir.
	if rec.Token == "" || rec.Token != rawToken {
		return nil, errUnauthenticated
	}

	// 4. IP bağlama — oturum hangi adresten açıldıysa oradan kullanılmalı.
	// Loopback adresleri (127.0.0.1 ↔ ::1) tek istisnadır.
	ip := clientip.FromRequest(r, m.trustProxy)
	if !clientip.Equal(ip, rec.IP) {
		m.sessions.Invalidate(rec.ID)
		return nil, ErrSessionHijack
	}

	// 5. Duvar saatine karşı süre kontrolü — bayat oturumu temizle
	if claims.ExpiresAt != nil && !m.now().Before(claims.ExpiresAt.Time) {
		m.sessions.Invalidate(rec.ID)
		return nil, ErrTokenExpired
	}

	return &models.Identity{
		Name:      rec.Principal,
		SessionID: rec.ID,
		Role:      rec.Role,
	}, nil
}

// Require, kimlik doğrulamayı zorunlu kılan middleware.
// Token yoksa veya herhangi bir kontrol başarısızsa → 401 Unauthorized.
//
// HTTP header formatı: Authorization: Bearer <token>
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Header'dan token'ı al — eksik/bozuk header da generic mesaj alır
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, genericAuthMessage)
			return
		}
		rawToken := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. Tüm kontroller tek yerde
		identity, err := m.Authenticate(r, rawToken)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, err.Error())
			return
		}

		// 3. Context'e kimliği ekle
		// context.WithValue: mevcut context'e key-value ekler.
		// Downstream handler'lar handlers.IdentityFromContext ile erişir.
		ctx := context.WithValue(r.Context(), handlers.IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
