package models

// Identity, auth middleware'ın doğruladığı ve request context'ine
// eklediği kimlik bilgisidir. Handler'lar kullanıcının kim olduğunu
// (ve hangi oturumla geldiğini) buradan okur — token'ı tekrar parse etmez.
type Identity struct {
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
	Role      Role   `json:"role"`
}
