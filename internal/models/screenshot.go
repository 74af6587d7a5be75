package models

// Screenshot is an uploaded game screenshot owned by exactly one user.
type Screenshot struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	UserID   int    `json:"user_id"`
}
