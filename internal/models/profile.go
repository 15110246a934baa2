package models

import "time"

// Profile owns a collection of cards.
type Profile struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	CreatedAt   time.Time  `json:"created_at"`
	LastStudyAt *time.Time `json:"last_study_at"`
}
