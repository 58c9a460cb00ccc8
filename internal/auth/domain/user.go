package domain

import "time"

// User is the Google identity bound to a session. Looked up by ExternalID and never duplicated.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"uniqueIndex;not null"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Provider   string    `json:"provider"` // always "google"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
