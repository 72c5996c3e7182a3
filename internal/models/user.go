package models

import "time"

// User is a local panel account (coach or admin) belonging to one tenant.
type User struct {
	ID           string    `json:"id" firestore:"-"`
	TenantID     string    `json:"tenantId" firestore:"tenantId"`
	Email        string    `json:"email" firestore:"email"`
	PasswordHash string    `json:"-" firestore:"passwordHash"` // Never expose in JSON responses
	Name         string    `json:"name" firestore:"name"`
	Role         string    `json:"role" firestore:"role"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// Tenant is one coaching business using the panel.
type Tenant struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	OwnerEmail string   `json:"ownerEmail,omitempty"`
	AdminIDs   []string `json:"adminIds"`
}

// RegisterRequest contains the fields needed to create a new account.
// All new users are registered as "coach". Admin role is granted manually.
type RegisterRequest struct {
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate checks that all required registration fields are present.
func (r *RegisterRequest) Validate() map[string]string {
	errors := map[string]string{}

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}

	return errors
}

// LoginRequest contains the credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that login credentials are present.
func (r *LoginRequest) Validate() map[string]string {
	errors := map[string]string{}

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

// AuthResponse is sent back after successful login/registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
