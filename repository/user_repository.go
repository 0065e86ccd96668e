// Package repository, veri erişim katmanını barındırır.
//
// Repository Pattern nedir?
// SQL sorguları sadece bu katmanda yaşar. Service katmanı interface'lere
// bağımlıdır — test'lerde in-memory fake ile değiştirilebilir, ileride
// SQLite yerine başka bir veritabanına geçmek sadece bu katmanı etkiler.
package repository

import (
	"context"

	"github.com/ekurtal/havale/models"
)

// UserRepository, kullanıcı kayıtları için veri erişim interface'i.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
