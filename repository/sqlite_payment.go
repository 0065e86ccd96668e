package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ekurtal/havale/database"
	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
	"github.com/google/uuid"
)

// sqlitePaymentRepo, PaymentRepository interface'inin SQLite implementasyonu.
type sqlitePaymentRepo struct {
	db database.TxQuerier
}

// NewSQLitePaymentRepo, constructor.
func NewSQLitePaymentRepo(db database.TxQuerier) PaymentRepository {
	return &sqlitePaymentRepo{db: db}
}

func (r *sqlitePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}

	query := `
		INSERT INTO payments (id, owner_id, amount, currency, provider, recipient_account, swift_code, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		payment.ID,
		payment.OwnerID,
		payment.Amount,
		payment.Currency,
		payment.Provider,
		payment.RecipientAccount,
		payment.SwiftCode,
		payment.Status,
	).Scan(&payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *sqlitePaymentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Payment, error) {
	query := `
		SELECT id, owner_id, amount, currency, provider, recipient_account, swift_code,
		       status, created_at, processed_at, processed_by
		FROM payments
		WHERE owner_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows, false)
}

func (r *sqlitePaymentRepo) ListPendingWithOwner(ctx context.Context) ([]models.Payment, error) {
	// Orijinal sistemdeki "payments × users" birleştirmesi.
	// LEFT JOIN: sahibi silinmiş olsa bile ödeme listede kalır —
	// owner alanları o durumda boş gelir.
	query := `
		SELECT p.id, p.owner_id, p.amount, p.currency, p.provider, p.recipient_account,
		       p.swift_code, p.status, p.created_at, p.processed_at, p.processed_by,
		       COALESCE(u.username, ''), COALESCE(u.account_number, '')
		FROM payments p
		LEFT JOIN users u ON u.id = p.owner_id
		WHERE p.status = 'pending'
		ORDER BY p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows, true)
}

func (r *sqlitePaymentRepo) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, processedBy string) error {
	// "AND status = 'pending'" koşulu kritik: iki çalışan aynı ödemeye aynı
	// anda karar verirse sadece ilki kazanır, ikincisi not-found alır.
	query := `
		UPDATE payments
		SET status = ?, processed_at = CURRENT_TIMESTAMP, processed_by = ?
		WHERE id = ? AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, status, processedBy, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: payment not found or already processed", pkg.ErrNotFound)
	}

	return nil
}

// scanPayments, sorgu satırlarını Payment slice'ına aktarır.
// withOwner true ise satır sonunda owner username + account number beklenir.
func scanPayments(rows *sql.Rows, withOwner bool) ([]models.Payment, error) {
	payments := []models.Payment{}

	for rows.Next() {
		var p models.Payment
		dest := []any{
			&p.ID, &p.OwnerID, &p.Amount, &p.Currency, &p.Provider,
			&p.RecipientAccount, &p.SwiftCode, &p.Status,
			&p.CreatedAt, &p.ProcessedAt, &p.ProcessedBy,
		}
		if withOwner {
			dest = append(dest, &p.OwnerUsername, &p.CustomerAccountNumber)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}

	return payments, nil
}
