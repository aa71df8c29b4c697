package entity

import (
	"encoding/json"
	"time"
)

// Payment statuses accepted for an invoice.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Invoice is a billing record for a patient. Line items are a JSONB blob
// owned by the billing form; totals are stored denormalized the way the
// frontend submits them.
type Invoice struct {
	ID            string          `db:"id" json:"id"`
	PatientID     string          `db:"patient_id" json:"patient_id"`
	Number        string          `db:"number" json:"number"`
	Date          time.Time       `db:"date" json:"date"`
	Items         json.RawMessage `db:"items" json:"items"`
	Subtotal      float64         `db:"subtotal" json:"subtotal"`
	Discount      float64         `db:"discount" json:"discount"`
	Tax           float64         `db:"tax" json:"tax"`
	Total         float64         `db:"total" json:"total"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	PaymentMode   *string         `db:"payment_mode" json:"payment_mode,omitempty"`
	TransactionID *string         `db:"transaction_id" json:"transaction_id,omitempty"`
	AmountPaid    float64         `db:"amount_paid" json:"amount_paid"`
	Balance       float64         `db:"balance" json:"balance"`
}
