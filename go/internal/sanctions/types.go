package sanctions

// CreateSanctionRequest represents the request to sanction a student.
// Days is the last day of the sanction in YYYY-MM-DD form.
type CreateSanctionRequest struct {
	StudentID string `json:"student_id"`
	Cause     string `json:"cause"`
	Days      string `json:"days"`
	PlayID    *int64 `json:"play_id,omitempty"`
}
