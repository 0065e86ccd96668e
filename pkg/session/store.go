// Package session — sunucu tarafı oturum tablosu.
//
// Neden in-memory?
// Oturum kaydı token'ın "hâlâ geçerli mi?" sorusunun tek otoritesidir ve
// her korumalı istekte okunur. SQLite'a her istekte gitmek gereksiz I/O
// yaratır; process yeniden başladığında oturumların düşmesi de kabul
// edilebilir bir davranıştır — kullanıcı tekrar login olur.
//
// Tablo sync.RWMutex ile korunur ve SADECE buradaki dört operasyon
// üzerinden erişilir; map dışarıya hiçbir şekilde verilmez.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ekurtal/havale/models"
)

// ErrNotFound, verilen ID ile kayıtlı bir oturum olmadığında döner.
var ErrNotFound = errors.New("session: not found")

// Record, tek bir oturumu temsil eder.
//
// Token alanı her zaman bu oturum için EN SON basılan token'dır.
// AttachToken öncekini ezer — süresi dolmamış olsa bile eski token
// artık geçersizdir (auth middleware karşılaştırma ile yakalar).
type Record struct {
	ID        string
	Principal string
	IP        string
	Role      models.Role
	Token     string
	CreatedAt time.Time
}

// Store, oturum ID'sinden oturum kaydına giden process-wide tablo.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Record
	now      func() time.Time
}

// NewStore, boş bir oturum tablosu oluşturur.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Record),
		now:      time.Now,
	}
}

// Create, yeni bir oturum kaydı oluşturur ve ID'sini döner.
//
// ID, crypto/rand'dan 16 byte (128 bit) okunarak üretilir — tahmin
// edilemez ve pratikte çakışmaz. Kayıt boş token ile açılır; token
// basıldıktan sonra AttachToken ile bağlanır (token oturum ID'sini
// içerdiği için oturum token'dan ÖNCE var olmak zorundadır).
func (s *Store) Create(ip, principal string, role models.Role) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	id := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &Record{
		ID:        id,
		Principal: principal,
		IP:        ip,
		Role:      role,
		Token:     "",
		CreatedAt: s.now(),
	}

	return id, nil
}

// AttachToken, oturumun token alanını yazar (varsa öncekini ezer).
// Oturum yoksa ErrNotFound döner ve YENİ KAYIT OLUŞTURMAZ.
func (s *Store) AttachToken(id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.Token = token
	return nil
}

// Lookup, oturum kaydının bir KOPYASINI döner. Kopya dönmek kasıtlı:
// kayıt sadece Store'un kendi operasyonları ile mutate edilebilir.
func (s *Store) Lookup(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *rec
	return &cp, nil
}

// Invalidate, oturumu siler. İdempotent — olmayan oturumu silmek hata değildir.
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len, kayıtlı oturum sayısını döner (monitoring/test için).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
