package models

import "time"

// Check is a periodic client check-in (weight, measurements, photos).
type Check struct {
	ID           string             `json:"id" firestore:"-"`
	ClientID     string             `json:"clientId" firestore:"clientId"`
	CreatedAt    *time.Time         `json:"createdAt,omitempty" firestore:"createdAt"`
	Measurements map[string]float64 `json:"measurements,omitempty" firestore:"measurements"`
	Notes        string             `json:"notes,omitempty" firestore:"notes"`
	PhotoURLs    []string           `json:"photoUrls,omitempty" firestore:"photoUrls"`
}

// CreateCheckRequest holds a new check-in.
type CreateCheckRequest struct {
	Measurements map[string]float64 `json:"measurements"`
	Notes        string             `json:"notes"`
	PhotoURLs    []string           `json:"photoUrls"`
}

// Validate checks the measurement values.
func (r *CreateCheckRequest) Validate() map[string]string {
	errors := map[string]string{}
	for k, v := range r.Measurements {
		if v < 0 {
			errors["measurements."+k] = "Measurements cannot be negative"
		}
	}
	if len(r.PhotoURLs) > 10 {
		errors["photoUrls"] = "At most 10 photos per check"
	}
	return errors
}

// Anamnesis is a client's intake questionnaire.
type Anamnesis struct {
	ID        string            `json:"id" firestore:"-"`
	ClientID  string            `json:"clientId" firestore:"clientId"`
	Answers   map[string]string `json:"answers" firestore:"answers"`
	CreatedAt *time.Time        `json:"createdAt,omitempty" firestore:"createdAt"`
}

// CreateAnamnesisRequest holds a submitted questionnaire.
type CreateAnamnesisRequest struct {
	Answers map[string]string `json:"answers"`
}

// Validate requires at least one answer.
func (r *CreateAnamnesisRequest) Validate() map[string]string {
	errors := map[string]string{}
	if len(r.Answers) == 0 {
		errors["answers"] = "At least one answer is required"
	}
	return errors
}
