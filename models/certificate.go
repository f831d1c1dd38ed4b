package models

import "time"

// Certificate is the per-rank, paid, idempotently issued unlockable artifact.
// At most one row exists per (user, rank) — enforced by the unique index and
// by locating the row by rank before issuing, never appending blindly.
type Certificate struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_certificate_user_rank;not null;type:uuid" json:"user_id"`
	Rank   Rank   `gorm:"uniqueIndex:idx_certificate_user_rank;type:varchar(16);not null" json:"rank"`

	Paid          bool       `gorm:"default:false" json:"paid"`
	CertificateID string     `gorm:"index" json:"certificate_id,omitempty"` // public id printed on the artifact
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
	Progress      float64    `json:"progress"` // percent at issue time, 0..100
	PaymentMethod string     `gorm:"type:varchar(32)" json:"payment_method,omitempty"`

	Timestamps
}

// Payment methods accepted for certificate unlocks.
const (
	PaymentInstapay     = "instapay"
	PaymentVodafoneCash = "vodafone_cash"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	return m == PaymentInstapay || m == PaymentVodafoneCash
}
