package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PaymentStatus, bir ödemenin onay akışındaki durumunu temsil eder.
// Ödeme "pending" olarak oluşturulur; bir çalışan onaylar veya reddeder.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Valid, durumun tanımlı değerlerden biri olup olmadığını kontrol eder.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusApproved || s == PaymentStatusRejected
}

// Payment, uluslararası bir ödeme talimatını temsil eder.
//
// OwnerUsername ve CustomerAccountNumber payments tablosunda tutulmaz —
// çalışan panelindeki liste sorgusunda users tablosundan JOIN ile gelir.
// omitempty sayesinde müşteri endpoint'lerinde response'a hiç girmezler.
type Payment struct {
	ID                    string        `json:"id"`
	OwnerID               string        `json:"owner_id"`
	Amount                float64       `json:"amount"`
	Currency              string        `json:"currency"`
	Provider              string        `json:"provider"`
	RecipientAccount      string        `json:"recipient_account"`
	SwiftCode             string        `json:"swift_code"`
	Status                PaymentStatus `json:"status"`
	OwnerUsername         string        `json:"owner_username,omitempty"`
	CustomerAccountNumber string        `json:"customer_account_number,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	ProcessedAt           *time.Time    `json:"processed_at,omitempty"`
	ProcessedBy           *string       `json:"processed_by,omitempty"`
}

// Ödeme alanları için whitelist regex'leri.
// SWIFT/BIC kodu 8 veya 11 karakterdir; tutar en fazla iki ondalık basamak.
var (
	amountRegex           = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)
	currencyRegex         = regexp.MustCompile(`^[A-Z]{3}$`)
	providerRegex         = regexp.MustCompile(`^[a-zA-Z0-9\s-]{3,50}$`)
	recipientAccountRegex = regexp.MustCompile(`^[0-9]{6,34}$`)
	swiftRegex            = regexp.MustCompile(`^[A-Z0-9]{8}([A-Z0-9]{3})?$`)
)

// CreatePaymentRequest, ödeme oluştururken frontend'den gelen veri.
//
// Amount string olarak alınır: JSON number'ı doğrudan float64'e decode
// etmek "100.999999" gibi değerleri sessizce kabul ederdi. String üzerinde
// regex ile format doğrulanır, sonra ParseAmount ile sayıya çevrilir.
type CreatePaymentRequest struct {
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	Provider         string `json:"provider"`
	RecipientAccount string `json:"recipient_account"`
	SwiftCode        string `json:"swift_code"`
}

// Validate, tüm ödeme alanlarını whitelist kurallarına göre kontrol eder.
func (r *CreatePaymentRequest) Validate() error {
	r.Amount = strings.TrimSpace(r.Amount)
	if !amountRegex.MatchString(r.Amount) {
		return fmt.Errorf("invalid amount format: must be a positive number with up to two decimal places")
	}

	r.Currency = strings.TrimSpace(r.Currency)
	if !currencyRegex.MatchString(r.Currency) {
		return fmt.Errorf("invalid currency format: must be a 3-letter uppercase code (e.g. USD)")
	}

	r.Provider = strings.TrimSpace(r.Provider)
	if !providerRegex.MatchString(r.Provider) {
		return fmt.Errorf("invalid provider format: use 3-50 alphanumeric characters, spaces, or hyphens")
	}

	r.RecipientAccount = strings.TrimSpace(r.RecipientAccount)
	if !recipientAccountRegex.MatchString(r.RecipientAccount) {
		return fmt.Errorf("invalid recipient account format: must be 6-34 digits")
	}

	r.SwiftCode = strings.TrimSpace(r.SwiftCode)
	if !swiftRegex.MatchString(r.SwiftCode) {
		return fmt.Errorf("invalid swift code format: must be 8 or 11 uppercase alphanumeric characters")
	}

	return nil
}

// ParseAmount, doğrulanmış amount string'ini float64'e çevirir.
// Validate'ten geçmiş bir değer için hata dönmez.
func (r *CreatePaymentRequest) ParseAmount() (float64, error) {
	return strconv.ParseFloat(r.Amount, 64)
}

// DecidePaymentRequest, çalışanın onay/red kararı.
type DecidePaymentRequest struct {
	Status PaymentStatus `json:"status"`
}

// Validate — sadece approved veya rejected kabul edilir; bir ödemeyi
// tekrar "pending" yapmak API üzerinden mümkün değildir.
func (r *DecidePaymentRequest) Validate() error {
	if r.Status != PaymentStatusApproved && r.Status != PaymentStatusRejected {
		return fmt.Errorf("status must be either %q or %q", PaymentStatusApproved, PaymentStatusRejected)
	}
	return nil
}
