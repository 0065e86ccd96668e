// Package lockout — Tracker: brute-force saldırılarına karşı kullanıcı
// bazlı başarısız login takibi ve hesap kilitleme.
//
// Tasarım:
// - Her login identifier (kullanıcı adı) için başarısız deneme sayısı ve
//   pencere başlangıç zamanı tutulur.
// - Pencere süresi içinde maxAttempts'e ulaşılırsa identifier kilitlenir.
// - Başarılı login sonrası Clear() ile kayıt silinir.
// - Pencere dolduğunda kayıt "lazy" olarak geçersiz sayılır: IsLocked,
//   süresi geçmiş bir kaydı sayaç ne olursa olsun kilitsiz kabul eder.
// - Background goroutine süresi dolmuş kayıtları fiziksel olarak da
//   temizler (memory leak engeli).
//
// Neden kullanıcı bazlı (IP bazlı değil)?
// Saldırgan IP değiştirerek IP bazlı limiti aşabilir; hedef hesap
// üzerinden saymak hesabı korur. IP bilgisi ayrıca oturuma bağlanır
// (bkz. pkg/session + middleware/auth.go hijack kontrolü).
//
// Neden ayrı paket?
// handlers ↔ middleware arasında import cycle oluşmaması için tracker
// bağımsız bir leaf paket olarak konumlandırıldı.
package lockout

import (
	"fmt"
	"sync"
	"time"
)

// record, bir identifier için başarısız deneme geçmişi tutar.
type record struct {
	count        int
	firstFailure time.Time
	lastFailure  time.Time
}

// Tracker, identifier bazlı başarısız login denemesi sayacı.
//
// maxAttempts: pencere içinde kilide yol açan deneme sayısı (örn: 5).
// window: pencere süresi (örn: 15 dakika). İlk başarısız denemeden
// itibaren sayılır; pencere dolunca sayaç sıfırdan başlar.
//
// Kullanım:
//
//	tracker := lockout.NewTracker(5, 15*time.Minute)
//	// Login handler'da:
//	if tracker.IsLocked(username) { return 429 }
//	// Başarısız login'de:
//	tracker.RecordFailure(username)
//	// Başarılı login'de:
//	tracker.Clear(username)
type Tracker struct {
	mu          sync.RWMutex
	records     map[string]*record
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}

	// now, test'lerde saat enjekte edebilmek için alan olarak tutulur.
	now func() time.Time
}

// NewTracker, yeni tracker oluşturur ve arka plan temizleme
// goroutine'ini başlatır. Sunucu kapanırken Stop() çağrılmalıdır.
func NewTracker(maxAttempts int, window time.Duration) *Tracker {
	t := &Tracker{
		records:     make(map[string]*record),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
		now:         time.Now,
	}

	go t.cleanupLoop()

	return t
}

// RecordFailure, identifier için başarısız deneme kaydeder ve güncel
// sayacı döner. İlk denemede (veya pencere dolduktan sonraki ilk
// denemede) pencere başlangıcı şimdiki zamana kurulur.
func (t *Tracker) RecordFailure(identifier string) int {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[identifier]
	if !exists || now.Sub(rec.firstFailure) > t.window {
		// İlk deneme veya eski pencere dolmuş — yeni pencere başlat
		t.records[identifier] = &record{count: 1, firstFailure: now, lastFailure: now}
		return 1
	}

	rec.count++
	rec.lastFailure = now
	return rec.count
}

// IsLocked, identifier'ın kilitli olup olmadığını döner.
//
// true ⇔ sayaç eşiğe ulaşmış VE pencere henüz dolmamış.
// Pencere dolmuşsa kayıt silinmemiş olsa bile kilitsiz sayılır (lazy expiry).
func (t *Tracker) IsLocked(identifier string) bool {
	now := t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, exists := t.records[identifier]
	if !exists {
		return false
	}
	if now.Sub(rec.firstFailure) > t.window {
		return false
	}
	return rec.count >= t.maxAttempts
}

// Clear, identifier'ın kaydını siler. Başarılı login'de çağrılır —
// doğru şifreyi giren meşru kullanıcının sayacı temizlenir.
func (t *Tracker) Clear(identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, identifier)
}

// RetryAfterSeconds, kilitli identifier için kalan bekleme süresini
// saniye cinsinden döner. HTTP Retry-After header değeri olarak kullanılır.
func (t *Tracker) RetryAfterSeconds(identifier string) int {
	now := t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, exists := t.records[identifier]
	if !exists {
		return 0
	}

	remaining := t.window - now.Sub(rec.firstFailure)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1 yuvarlama — client'ın tam süreyi beklemesi için
}

// Stop, arka plan temizleme goroutine'ini durdurur.
func (t *Tracker) Stop() {
	close(t.stopCleanup)
}

// cleanupLoop, arka planda süresi dolmuş kayıtları temizler.
// Her 60 saniyede bir çalışır.
func (t *Tracker) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.cleanup()
		case <-t.stopCleanup:
			return
		}
	}
}

// cleanup, penceresi dolmuş tüm kayıtları siler.
func (t *Tracker) cleanup() {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, rec := range t.records {
		if now.Sub(rec.firstFailure) > t.window {
			delete(t.records, id)
		}
	}
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
