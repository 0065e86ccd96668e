// Package ws, bağlı personel istemcilerine gerçek zamanlı ödeme olaylarını iletir.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Müşteri ödeme talimatı gönderir → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın BroadcastToAll metodunu çağırır
// 3. Hub, event'i tüm bağlı personel client'larına iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
// 5. Personel paneli event'i alır ve bekleyen ödemeler listesini günceller
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "payment_created", "heartbeat" vb.
// Data: Event'e özgü payload — ödeme objesi vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
)

// Server → Client operasyonları
const (
	OpReady          = "ready"           // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck   = "heartbeat_ack"   // Heartbeat'e yanıt — "seni duydum"
	OpPaymentCreated = "payment_created" // Yeni ödeme talimatı oluşturuldu
	OpPaymentDecided = "payment_decided" // Bir ödeme onaylandı veya reddedildi
)
