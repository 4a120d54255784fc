package dto

// ProfileUpdateRequest is the body of PATCH /api/profile. Absent fields are
// left unchanged.
type ProfileUpdateRequest struct {
	Name    *string `json:"name"`
	Faculty *string `json:"faculty"`
	Bio     *string `json:"bio"`
}

// ProfileResponse is a profile as returned to the client.
type ProfileResponse struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Name    string `json:"name"`
	Faculty string `json:"faculty,omitempty"`
	Bio     string `json:"bio,omitempty"`
}
