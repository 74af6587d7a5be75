package models

type User struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"` // don’t expose hash
	Avatar        string `json:"avatar,omitempty"`
	UserTroops    string `json:"user_troops,omitempty"`
	UserEnforcers string `json:"user_enforcers,omitempty"`
}

// Profile is a user together with its social graph and uploads.
type Profile struct {
	User        User         `json:"user"`
	Followers   []User       `json:"followers"`
	Followed    []User       `json:"followed"`
	Screenshots []Screenshot `json:"screenshots"`
	IsFollowing bool         `json:"is_following"`
}
