// Package main, havale backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//   1.  Config'i yükle
//   2.  Database'i başlat
//   3.  Repository'leri oluştur (DB bağlantısı ile)
//   4.  Oturum store'u, token codec'i ve lockout tracker'ı oluştur
//   5.  WebSocket Hub'ı başlat
//   6.  Service'leri oluştur (repository'ler + hub ile)
//   7.  Çalışan hesabını seed et
//   8.  Handler'ları oluştur (service'ler ile)
//   9.  Middleware'ları oluştur
//  10.  HTTP router'ı kur, route'ları bağla
//  11.  CORS yapılandır
//  12.  HTTP Server'ı başlat
//  13.  Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/ekurtal/havale/config"
	"github.com/ekurtal/havale/database"
	"github.com/ekurtal/havale/handlers"
	"github.com/ekurtal/havale/middleware"
	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg/lockout"
	"github.com/ekurtal/havale/pkg/session"
	"github.com/ekurtal/havale/pkg/token"
	"github.com/ekurtal/havale/repository"
	"github.com/ekurtal/havale/services"
	"github.com/ekurtal/havale/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] havale server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to load embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	paymentRepo := repository.NewSQLitePaymentRepo(db.Conn)

	// ─── 4. Oturum Store + Token Codec + Lockout Tracker ───
	//
	// Oturumlar bellekte tutulur: restart tüm oturumları düşürür ve
	// herkes yeniden login olur. Bir bankacılık portalı için bu bir bug
	// değil özelliktir — şüpheli durumda restart her oturumu öldürür.
	sessions := session.NewStore()

	codec, err := token.New(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatalf("[main] failed to create token codec: %v", err)
	}

	tracker := lockout.NewTracker(cfg.Lockout.MaxAttempts,
		time.Duration(cfg.Lockout.WindowMinutes)*time.Minute)

	// ─── 5. WebSocket Hub ───
	//
	// Hub, personel paneline giden canlı ödeme akışını yönetir.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır.
	// Hub aynı zamanda EventPublisher interface'ini implement eder —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 6. Service Layer ───
	authService := services.NewAuthService(userRepo, sessions, codec, cfg.JWT.TokenExpiryMinutes)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, hub)

	// ─── 7. Çalışan Hesabı Seed ───
	// Çalışanlar signup OLAMAZ — hesap açılışta konfigürasyondan oluşturulur.
	if err := authService.SeedEmployee(context.Background(),
		cfg.Employee.Username, cfg.Employee.Password); err != nil {
		log.Fatalf("[main] failed to seed employee account: %v", err)
	}

	// ─── 8. Handler Layer ───
	authHandler := handlers.NewAuthHandler(authService, tracker, cfg.Server.TrustProxy)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	employeeHandler := handlers.NewEmployeeHandler(paymentService)

	// ─── 9. Middleware ───
	authMiddleware := middleware.NewAuthMiddleware(codec, sessions, cfg.Server.TrustProxy)

	// WebSocket handler, HTTP middleware ile AYNI Authenticate fonksiyonunu
	// kullanır — token query parameter'dan gelse de oturum ve IP kontrolleri
	// eksiksiz uygulanır.
	wsHandler := ws.NewHandler(hub, authMiddleware.Authenticate)

	// ─── 10. HTTP Router ───
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"havale"}`)
	})

	// Auth — public endpoint'ler (token gerekmez)
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Protected endpoint'ler — authMiddleware.Require() sarar
	mux.Handle("POST /api/auth/logout", authMiddleware.Require(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/users/me", authMiddleware.Require(http.HandlerFunc(authHandler.Me)))

	// Payments — müşterinin kendi talimatları
	mux.Handle("POST /api/payments", authMiddleware.Require(
		http.HandlerFunc(paymentHandler.Create)))
	mux.Handle("GET /api/payments", authMiddleware.Require(
		http.HandlerFunc(paymentHandler.ListMine)))

	// Employee — bekleyen talimatlar ve onay/red, employee rolü gerekir
	mux.Handle("GET /api/employee/payments", authMiddleware.Require(
		middleware.RequireRole(models.RoleEmployee, http.HandlerFunc(employeeHandler.ListPending))))
	mux.Handle("PATCH /api/employee/payments/{id}", authMiddleware.Require(
		middleware.RequireRole(models.RoleEmployee, http.HandlerFunc(employeeHandler.Decide))))

	// WebSocket — token query parameter ile authenticate edilir
	//
	// Neden auth middleware kullanmıyoruz?
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez.
	// Bu yüzden token URL query parameter olarak gönderilir:
	//   ws://server/ws/employee?token=TOKEN
	// WS handler kendi içinde aynı Authenticate fonksiyonunu çağırır.
	mux.HandleFunc("GET /ws/employee", wsHandler.HandleConnection)

	// ─── 11. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		Debug:            false,
	})

	handler := corsHandler.Handler(mux)

	// ─── 12. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 13. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantılarını ve lockout tracker'ın temizlik
	// goroutine'ini kapat, sonra HTTP server'ı — yeni request kabul
	// etmeyi durdurur, mevcut request'lerin bitmesini bekler (5sn timeout).
	hub.Shutdown()
	tracker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
