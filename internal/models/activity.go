package models

import "time"

// Activity types recorded in the per-user activity log.
const (
	ActivityRegister         = "REGISTER"
	ActivityFollow           = "FOLLOW"
	ActivityUnfollow         = "UNFOLLOW"
	ActivityAvatarUpdate     = "AVATAR_UPDATE"
	ActivityScreenshotUpload = "SCREENSHOT_UPLOAD"
	ActivityPasswordChange   = "PASSWORD_CHANGE"
	ActivityDetailsSave      = "DETAILS_SAVE"
	ActivityProfileImport    = "PROFILE_IMPORT"
)

// ActivityEvent is a single append-only log entry about something a user did.
type ActivityEvent struct {
	Seq         int64     `json:"seq"` // assigned in commit order
	EventID     string    `json:"event_id"`
	UserID      int       `json:"user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
