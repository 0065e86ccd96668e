package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/repository"
	"github.com/ekurtal/havale/ws"
)

// PaymentService, uluslararası ödeme talimatlarının iş kurallarını yönetir.
type PaymentService interface {
	// Create, kimliği doğrulanmış müşteri adına yeni bir ödeme talimatı açar.
	Create(ctx context.Context, ownerName string, req *models.CreatePaymentRequest) (*models.Payment, error)
	// ListMine, müşterinin kendi talimatlarını döner.
	ListMine(ctx context.Context, ownerName string) ([]models.Payment, error)
	// ListPending, karar bekleyen tüm talimatları sahip bilgisiyle döner.
	ListPending(ctx context.Context) ([]models.Payment, error)
	// Decide, bekleyen bir talimatı onaylar veya reddeder.
	Decide(ctx context.Context, id string, status models.PaymentStatus, processedBy string) error
}

// paymentService, PaymentService interface'inin implementasyonu.
type paymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	hub         ws.EventPublisher
}

// NewPaymentService, constructor.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// Create, yeni bir ödeme talimatı oluşturur.
//
// Talimat sahibi request body'den DEĞİL, doğrulanmış oturumdan gelir —
// müşteri başkası adına talimat açamaz.
func (s *paymentService) Create(ctx context.Context, ownerName string, req *models.CreatePaymentRequest) (*models.Payment, error) {
	// 1. Validation
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	amount, err := req.ParseAmount()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount", pkg.ErrBadRequest)
	}

	// 2. Sahibi bul — oturumdaki isim DB'deki kullanıcıya çevrilir
	owner, err := s.userRepo.GetByUsername(ctx, ownerName)
	if err != nil {
		return nil, err
	}

	// 3. Talimatı kaydet
	payment := &models.Payment{
		OwnerID:          owner.ID,
		Amount:           amount,
		Currency:         req.Currency,
		Provider:         req.Provider,
		RecipientAccount: req.RecipientAccount,
		SwiftCode:        req.SwiftCode,
		Status:           models.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	// 4. Personel paneline canlı bildirim
	s.hub.BroadcastToAll(ws.Event{Op: ws.OpPaymentCreated, Data: payment})

	return payment, nil
}

// ListMine, müşterinin kendi ödeme talimatlarını döner.
func (s *paymentService) ListMine(ctx context.Context, ownerName string) ([]models.Payment, error) {
	owner, err := s.userRepo.GetByUsername(ctx, ownerName)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByOwner(ctx, owner.ID)
}

// ListPending, karar bekleyen tüm talimatları döner (personel paneli).
func (s *paymentService) ListPending(ctx context.Context) ([]models.Payment, error) {
	return s.paymentRepo.ListPendingWithOwner(ctx)
}

// Decide, bekleyen bir talimatı karara bağlar.
//
// Durum geçişi tek yönlüdür: pending → approved/rejected. Zaten karara
// bağlanmış bir talimat tekrar karara bağlanamaz — repository bu durumda
// ErrNotFound döner ve çifte onay (double processing) engellenmiş olur.
func (s *paymentService) Decide(ctx context.Context, id string, status models.PaymentStatus, processedBy string) error {
	if status != models.PaymentStatusApproved && status != models.PaymentStatusRejected {
		return fmt.Errorf("%w: status must be approved or rejected", pkg.ErrBadRequest)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, id, status, processedBy); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: payment not found or already processed", pkg.ErrNotFound)
		}
		return err
	}

	// Diğer personel panellerine canlı bildirim
	s.hub.BroadcastToAll(ws.Event{Op: ws.OpPaymentDecided, Data: map[string]any{
		"id":           id,
		"status":       status,
		"processed_by": processedBy,
		"processed_at": time.Now().UTC(),
	}})

	return nil
}
