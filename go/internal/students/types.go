package students

// CreateStudentRequest represents the request to create a student
type CreateStudentRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ForgotID bool   `json:"forgoten_id"`
}

// UpdateStudentRequest represents a partial update to a student. Nil
// fields are left unchanged.
type UpdateStudentRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	ForgotID *bool   `json:"forgoten_id,omitempty"`
}
