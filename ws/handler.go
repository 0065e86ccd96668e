package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ekurtal/havale/models"
)

// Authenticator, WebSocket handler'ın kimlik doğrulaması için kullandığı fonksiyon tipi.
//
// Neden middleware paketini import etmiyoruz?
// Circular dependency'yi önlemek için:
// - services paketi ws.EventPublisher'ı kullanıyor (broadcast için)
// - ws paketi middleware'i kullansaydı → ws → middleware → services → ws döngüsü oluşurdu
//
// main.go bu fonksiyonu AuthMiddleware.Authenticate'den bağlar — böylece
// WebSocket bağlantıları da oturum + IP kontrollerinin TAMAMINDAN geçer.
type Authenticator func(r *http.Request, rawToken string) (*models.Identity, error)

// upgrader, HTTP bağlantısını WebSocket bağlantısına yükseltir.
//
// WebSocket Upgrade nedir?
// WebSocket, normal HTTP bağlantısı olarak başlar ve "upgrade" ile
// kalıcı, çift yönlü (bidirectional) bir bağlantıya dönüşür.
// HTTP: istek → yanıt → bağlantı kapanır
// WebSocket: bağlantı açık kalır, her iki taraf istediği zaman mesaj gönderebilir
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: Production'da domain kontrolü yapılmalı.
	// Şimdilik tüm origin'lere izin veriyoruz (development için).
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, personel canlı ödeme akışı için WebSocket bağlantı isteklerini işler.
type Handler struct {
	hub          *Hub
	authenticate Authenticator
}

// NewHandler, yeni bir WebSocket handler oluşturur.
func NewHandler(hub *Hub, authenticate Authenticator) *Handler {
	return &Handler{
		hub:          hub,
		authenticate: authenticate,
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Neden normal auth middleware kullanmıyoruz?
// WebSocket bağlantısında HTTP header göndermek zordur (tarayıcı sınırlaması).
// Bu yüzden token URL query parameter'ı olarak gönderilir:
//
//	ws://server/ws/employee?token=JWT_TOKEN
//
// Flow:
// 1. Query'den token al
// 2. Token'ı ve oturumu doğrula (imza + session + IP kontrolü)
// 3. Rol kontrolü — feed sadece personele açık
// 4. HTTP → WebSocket upgrade
// 5. Client oluştur, Hub'a kaydet
// 6. ReadPump ve WritePump goroutine'lerini başlat
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	// 1. Token'ı query parameter'dan al
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	// 2. Token + oturum doğrulama — HTTP middleware ile aynı kontroller
	identity, err := h.authenticate(r, token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// 3. Feed sadece personele açık
	if identity.Role != models.RoleEmployee {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	// 4. HTTP → WebSocket upgrade
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", identity.Name, err)
		return
	}

	// 5. Client oluştur
	client := &Client{
		hub:       h.hub,
		conn:      conn,
		principal: identity.Name,
		send:      make(chan []byte, sendBufferSize),
	}

	// 6. Hub'a kaydet
	h.hub.register <- client

	// İlk event — bağlantının hazır olduğunu bildir.
	client.sendEvent(Event{Op: OpReady})

	// `go client.WritePump()` → yeni goroutine başlatır.
	// ReadPump mevcut goroutine'de çalışmalı — aksi halde bu fonksiyon hemen
	// döner ve HTTP handler sonlanır. ReadPump bağlantı kapanana kadar bloklar.
	go client.WritePump()
	client.ReadPump() // Bu satır bağlantı kapanana kadar bloklar
}
