package repository

import (
	"context"

	"github.com/ekurtal/havale/models"
)

// PaymentRepository, ödeme talimatları için veri erişim interface'i.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Payment, error)

	// ListPendingWithOwner, bekleyen ödemeleri sahibinin kullanıcı adı ve
	// hesap numarasıyla birlikte döner (çalışan paneli için).
	ListPendingWithOwner(ctx context.Context) ([]models.Payment, error)

	// UpdateStatus, SADECE pending durumdaki bir ödemeyi approved/rejected
	// yapar ve işlemi yapan çalışanı kaydeder. Ödeme yoksa veya zaten
	// karara bağlanmışsa pkg.ErrNotFound döner.
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, processedBy string) error
}
