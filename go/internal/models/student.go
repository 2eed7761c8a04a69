package models

// Student represents a student identified by their matricula.
type Student struct {
	ID       string `json:"id"` // matricula, e.g. A01606010
	Name     string `json:"name,omitempty"`
	ForgotID bool   `json:"forgoten_id"`
	Hash     string `json:"-"` // biometric hash, never serialized
}
