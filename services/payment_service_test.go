package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/ekurtal/havale/ws"
)

// fakePaymentRepo, bellek içi payment repository.
type fakePaymentRepo struct {
	payments map[string]*models.Payment
	nextID   int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	f.nextID++
	p.ID = "pay-" + string(rune('0'+f.nextID))
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListPendingWithOwner(_ context.Context) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.Status == models.PaymentStatusPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status models.PaymentStatus, processedBy string) error {
	p, ok := f.payments[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return pkg.ErrNotFound
	}
	p.Status = status
	p.ProcessedBy = &processedBy
	return nil
}

// fakePublisher, broadcast edilen event'leri toplar.
type fakePublisher struct {
	events []ws.Event
}

func (f *fakePublisher) BroadcastToAll(event ws.Event) {
	f.events = append(f.events, event)
}

func paymentRequest() *models.CreatePaymentRequest {
	return &models.CreatePaymentRequest{
		Amount:           "250.00",
		Currency:         "EUR",
		Provider:         "Wise",
		RecipientAccount: "987654321",
		SwiftCode:        "INGBNL2A",
	}
}

func newTestPaymentService(t *testing.T) (PaymentService, *fakePaymentRepo, *fakeUserRepo, *fakePublisher) {
	t.Helper()

	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		Username: "alice", Role: models.RoleCustomer,
	}))

	paymentRepo := newFakePaymentRepo()
	pub := &fakePublisher{}

	return NewPaymentService(paymentRepo, userRepo, pub), paymentRepo, userRepo, pub
}

func TestPaymentCreate(t *testing.T) {
	svc, _, _, pub := newTestPaymentService(t)

	payment, err := svc.Create(context.Background(), "alice", paymentRequest())
	require.NoError(t, err)
	require.Equal(t, "id-alice", payment.OwnerID) // sahip oturumdan, body'den değil
	require.Equal(t, 250.00, payment.Amount)
	require.Equal(t, models.PaymentStatusPending, payment.Status)

	// Personel paneline canlı bildirim gitmiş olmalı
	require.Len(t, pub.events, 1)
	require.Equal(t, ws.OpPaymentCreated, pub.events[0].Op)
}

func TestPaymentCreate_InvalidAmount(t *testing.T) {
	svc, _, _, pub := newTestPaymentService(t)

	req := paymentRequest()
	req.Amount = "12.345"
	_, err := svc.Create(context.Background(), "alice", req)
	require.ErrorIs(t, err, pkg.ErrBadRequest)
	require.Empty(t, pub.events)
}

func TestPaymentCreate_UnknownOwner(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)

	_, err := svc.Create(context.Background(), "ghost", paymentRequest())
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestPaymentDecide(t *testing.T) {
	svc, repo, _, pub := newTestPaymentService(t)

	payment, err := svc.Create(context.Background(), "alice", paymentRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), payment.ID, models.PaymentStatusApproved, "teller"))
	require.Equal(t, models.PaymentStatusApproved, repo.payments[payment.ID].Status)
	require.Equal(t, "teller", *repo.payments[payment.ID].ProcessedBy)

	// payment_created + payment_decided
	require.Len(t, pub.events, 2)
	require.Equal(t, ws.OpPaymentDecided, pub.events[1].Op)
}

func TestPaymentDecide_AlreadyProcessed(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)

	payment, err := svc.Create(context.Background(), "alice", paymentRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), payment.ID, models.PaymentStatusApproved, "teller"))

	// Karara bağlanmış talimat tekrar karara bağlanamaz — çifte onay yok
	err = svc.Decide(context.Background(), payment.ID, models.PaymentStatusRejected, "teller")
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestPaymentDecide_InvalidStatus(t *testing.T) {
	svc, _, _, pub := newTestPaymentService(t)

	payment, err := svc.Create(context.Background(), "alice", paymentRequest())
	require.NoError(t, err)

	err = svc.Decide(context.Background(), payment.ID, models.PaymentStatusPending, "teller")
	require.ErrorIs(t, err, pkg.ErrBadRequest)
	require.Len(t, pub.events, 1) // sadece create event'i
}

func TestPaymentListMine_OnlyOwn(t *testing.T) {
	svc, _, userRepo, _ := newTestPaymentService(t)

	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		Username: "bob", Role: models.RoleCustomer,
	}))

	_, err := svc.Create(context.Background(), "alice", paymentRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "bob", paymentRequest())
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "id-alice", mine[0].OwnerID)
}
