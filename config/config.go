// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her biri tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Lockout  LockoutConfig
	CORS     CORSConfig
	Employee EmployeeConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int

	// TrustProxy true ise istemci IP'si X-Forwarded-For'dan okunur.
	// SADECE uygulama bilinen bir reverse proxy arkasındayken açılmalıdır —
	// aksi halde istemci kendi IP'sini sahte üretebilir ve oturumun
	// IP bağı (hijack tespiti) anlamsızlaşır.
	TrustProxy bool
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/havale.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	Issuer             string
	TokenExpiryMinutes int // Dakika cinsinden (varsayılan: 60)
}

// LockoutConfig, brute-force kilidi ayarları.
// Eşik ve pencere konfigürasyondur, koda gömülü sabit değildir.
type LockoutConfig struct {
	MaxAttempts   int // Pencere içinde kilide yol açan başarısız deneme (varsayılan: 5)
	WindowMinutes int // Pencere süresi, dakika (varsayılan: 15)
}

// CORSConfig, izin verilen frontend origin'leri.
// Müşteri portalı ve çalışan portalı ayrı origin'lerden servis edilir.
type CORSConfig struct {
	Origins []string
}

// EmployeeConfig, başlangıçta oluşturulan çalışan hesabı.
// Çalışanlar signup OLAMAZ — hesap deploy sırasında seed edilir.
// Username veya Password boşsa seed atlanır.
type EmployeeConfig struct {
	Username string
	Password string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
//
// JWT_SECRET zorunludur: imza anahtarı olmadan üretilen her token
// değersizdir, bu yüzden eksikse uygulama hiç başlamaz — bu hata
// request başına yakalanacak bir durum DEĞİLDİR.
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8443"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	tokenExpiry, err := strconv.Atoi(getEnv("JWT_TOKEN_EXPIRY_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_EXPIRY_MINUTES: %w", err)
	}

	maxAttempts, err := strconv.Atoi(getEnv("LOCKOUT_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCKOUT_MAX_ATTEMPTS: %w", err)
	}

	windowMinutes, err := strconv.Atoi(getEnv("LOCKOUT_WINDOW_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCKOUT_WINDOW_MINUTES: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	// Virgülle ayrılmış origin listesi
	var origins []string
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3001,http://localhost:3002"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:       port,
			TrustProxy: getEnv("TRUSTED_PROXY", "") == "true",
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/havale.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			Issuer:             getEnv("JWT_ISSUER", "havale"),
			TokenExpiryMinutes: tokenExpiry,
		},
		Lockout: LockoutConfig{
			MaxAttempts:   maxAttempts,
			WindowMinutes: windowMinutes,
		},
		CORS: CORSConfig{
			Origins: origins,
		},
		Employee: EmployeeConfig{
			Username: getEnv("EMPLOYEE_USERNAME", ""),
			Password: getEnv("EMPLOYEE_PASSWORD", ""),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:8443").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
