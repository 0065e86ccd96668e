// Package clientip — istemci IP adresi için TEK doğruluk kaynağı.
//
// IP adresi bu projede bir güvenlik kontrolüdür: oturum, açıldığı IP'ye
// bağlanır ve auth middleware her istekte karşılaştırır. Bu yüzden IP'nin
// NEREDEN okunduğu tutarlı olmak zorundadır:
//
//   - Varsayılan: TCP bağlantısının RemoteAddr'ı. Header'lar istemci
//     tarafından serbestçe sahte üretilebilir — proxy yokken X-Forwarded-For'a
//     güvenmek hijack kontrolünü tamamen anlamsızlaştırır.
//   - TRUSTED_PROXY=true ise: X-Forwarded-For'un İLK değeri. Uygulama
//     bilinen bir reverse proxy (nginx/Caddy) arkasındayken RemoteAddr her
//     zaman proxy'nin IP'sidir; gerçek istemci XFF'tedir.
//
// İki kaynak asla aynı istek içinde karıştırılmaz.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// FromRequest, istemci IP'sini konfigüre edilmiş tek kaynaktan okur.
func FromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For: client, proxy1, proxy2 — ilk değer gerçek istemci
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if i := strings.IndexByte(xff, ','); i >= 0 {
				return strings.TrimSpace(xff[:i])
			}
			return strings.TrimSpace(xff)
		}
	}

	// Doğrudan bağlantı — "host:port" formatından host'u ayır
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Equal, iki IP string'inin aynı istemciyi gösterip göstermediğini döner.
//
// Kurallar:
//   - Birebir eşit string'ler eşittir.
//   - IPv4-mapped IPv6 adresleri IPv4 karşılığına indirgenir
//     ("::ffff:10.0.0.1" == "10.0.0.1").
//   - 127.0.0.1, ::1 ve ::ffff:127.0.0.1 tek bir loopback sınıfı sayılır.
//     Bu esneklik SADECE loopback için vardır: test/CI ortamlarında peer
//     adresi bu üç form arasında değişebilir. Başka hiçbir adres çifti
//     için gevşetme yapılmaz.
//   - Parse edilemeyen adresler sadece birebir string eşitliğiyle eşleşir.
func Equal(a, b string) bool {
	if a == b {
		return true
	}

	pa, errA := netip.ParseAddr(a)
	pb, errB := netip.ParseAddr(b)
	if errA != nil || errB != nil {
		return false
	}

	pa = pa.Unmap()
	pb = pb.Unmap()

	if pa == pb {
		return true
	}

	return pa.IsLoopback() && pb.IsLoopback()
}
