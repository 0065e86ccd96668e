package handlers

import (
	"context"

	"github.com/ekurtal/havale/models"
)

// contextKey, context.WithValue için özel key tipi.
//
// Neden string değil?
// İki farklı paket aynı string key'i kullanırsa çakışma olur.
// Özel tip tanımlayınca sadece bu paketin key'i ile erişilebilir (type safety).
type contextKey string

// IdentityContextKey, doğrulanmış kimliğin context'te taşındığı key.
// Auth middleware yazar, handler'lar okur.
const IdentityContextKey contextKey = "identity"

// IdentityFromContext, context'ten doğrulanmış kimliği okur.
// Auth middleware'dan geçmemiş bir istekte ok=false döner.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*models.Identity)
	return identity, ok
}
