package models

import "time"

// Payment is a single payment received from a client.
type Payment struct {
	ID       string    `json:"id" firestore:"-"`
	ClientID string    `json:"clientId" firestore:"clientId"`
	Amount   float64   `json:"amount" firestore:"amount"`
	Method   string    `json:"method,omitempty" firestore:"method"` // "cash", "card", "transfer"
	Note     string    `json:"note,omitempty" firestore:"note"`
	PaidAt   time.Time `json:"paidAt" firestore:"paidAt"`
}

// CreatePaymentRequest records a payment.
type CreatePaymentRequest struct {
	Amount float64    `json:"amount"`
	Method string     `json:"method"`
	Note   string     `json:"note"`
	PaidAt *time.Time `json:"paidAt,omitempty"`
}

var validPaymentMethods = map[string]bool{
	"":         true,
	"cash":     true,
	"card":     true,
	"transfer": true,
}

// Validate checks the payment amount and method.
func (r *CreatePaymentRequest) Validate() map[string]string {
	errors := map[string]string{}
	if r.Amount <= 0 {
		errors["amount"] = "Amount must be positive"
	}
	if !validPaymentMethods[r.Method] {
		errors["method"] = "Method must be 'cash', 'card' or 'transfer'"
	}
	return errors
}
