package games

// CreateGameRequest represents the data needed to create a new game
type CreateGameRequest struct {
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Show        bool   `json:"show"`
	FileRoute   string `json:"file_route"`
	Category    string `json:"category"`
}

// UpdateGameRequest carries a partial update: nil/empty fields are left
// untouched, matching the admin panel's PATCH semantics.
type UpdateGameRequest struct {
	ID          int64   `json:"id" validate:"required"`
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Show        *bool   `json:"show"`
	Available   *bool   `json:"available"`
	FileRoute   string  `json:"file_route"`
	Category    *string `json:"category"`
}
