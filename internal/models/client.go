package models

import (
	"strings"
	"time"
)

// Client is a coaching client. The expiry date is stored as "scadenza",
// the field name the admin panel has always used.
type Client struct {
	ID         string        `json:"id" firestore:"-"`
	Name       string        `json:"name" firestore:"name"`
	Email      string        `json:"email" firestore:"email"`
	Phone      string        `json:"phone" firestore:"phone"`
	StartDate  *time.Time    `json:"startDate,omitempty" firestore:"startDate"`
	ExpiresAt  *time.Time    `json:"scadenza,omitempty" firestore:"scadenza"`
	IsArchived bool          `json:"isArchived" firestore:"isArchived"`
	Rates      []Installment `json:"rate,omitempty" firestore:"rate"`
	CreatedAt  *time.Time    `json:"createdAt,omitempty" firestore:"createdAt"`
	UpdatedAt  *time.Time    `json:"updatedAt,omitempty" firestore:"updatedAt"`
}

// Installment is one planned instalment of a client's plan.
type Installment struct {
	Amount  float64    `json:"amount" firestore:"amount"`
	Paid    bool       `json:"paid" firestore:"paid"`
	DueDate *time.Time `json:"dueDate,omitempty" firestore:"dueDate"`
}

// ClientRow is a client decorated for list, card and calendar views.
type ClientRow struct {
	Client
	DaysToExpiry  *int    `json:"daysToExpiry"`
	ExpiryColor   string  `json:"expiryColor"` // "red" | "amber" | "green" | "none"
	PaymentsTotal float64 `json:"paymentsTotal"`
	HasAnamnesis  bool    `json:"hasAnamnesis"`
}

// ClientListSummary holds the counters shown above the client list.
type ClientListSummary struct {
	Total    int `json:"total"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

// ClientPage is one page of the client list.
type ClientPage struct {
	Data    []ClientRow       `json:"data"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	HasMore bool              `json:"hasMore"`
	Stats   ClientListSummary `json:"stats"`
}

// CalendarDay groups the clients falling on one day of a month.
type CalendarDay struct {
	Date    string      `json:"date"` // YYYY-MM-DD
	Clients []ClientRow `json:"clients"`
}

// CreateClientRequest holds the fields needed to create a client.
type CreateClientRequest struct {
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	StartDate *time.Time    `json:"startDate,omitempty"`
	ExpiresAt *time.Time    `json:"scadenza,omitempty"`
	Rates     []Installment `json:"rate,omitempty"`
}

// Validate checks if the create request contains valid data.
func (r *CreateClientRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if len(strings.TrimSpace(r.Name)) < 2 || len(r.Name) > 100 {
		errors["name"] = "Name must be between 2 and 100 characters"
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		errors["email"] = "Email is not valid"
	}
	if r.StartDate != nil && r.ExpiresAt != nil && r.ExpiresAt.Before(*r.StartDate) {
		errors["scadenza"] = "Expiry must be after the start date"
	}
	for _, rate := range r.Rates {
		if rate.Amount < 0 {
			errors["rate"] = "Instalment amounts cannot be negative"
			break
		}
	}

	return errors
}

// UpdateClientRequest holds the fields that can be updated.
type UpdateClientRequest struct {
	Name      *string        `json:"name,omitempty"`
	Email     *string        `json:"email,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	StartDate *time.Time     `json:"startDate,omitempty"`
	ExpiresAt *time.Time     `json:"scadenza,omitempty"`
	Rates     *[]Installment `json:"rate,omitempty"`
}

// Validate checks the provided fields.
func (r *UpdateClientRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && (len(strings.TrimSpace(*r.Name)) < 2 || len(*r.Name) > 100) {
		errors["name"] = "Name must be between 2 and 100 characters"
	}
	if r.Email != nil && *r.Email != "" && !strings.Contains(*r.Email, "@") {
		errors["email"] = "Email is not valid"
	}
	return errors
}

// Apply copies the provided fields onto c.
func (r *UpdateClientRequest) Apply(c *Client) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.StartDate != nil {
		c.StartDate = r.StartDate
	}
	if r.ExpiresAt != nil {
		c.ExpiresAt = r.ExpiresAt
	}
	if r.Rates != nil {
		c.Rates = *r.Rates
	}
}

// RenewClientRequest extends a subscription by a number of months.
type RenewClientRequest struct {
	Months int `json:"months"`
}

// ArchiveClientRequest toggles the archived flag.
type ArchiveClientRequest struct {
	Archived bool `json:"archived"`
}
