package models

import "time"

// Schedule is the spaced-repetition state of a card.
type Schedule struct {
	DueDate    time.Time `json:"due_date"`
	Interval   int       `json:"interval"`
	EaseFactor float64   `json:"ease_factor"`
}

type Card struct {
	ID        string `json:"id"`
	ProfileID int64  `json:"profile_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Deck      string `json:"deck"`
	Schedule
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardContent is the user-editable part of a card.
type CardContent struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Deck     string `json:"deck"`
}

// CardItem is a question/answer pair handed over by an ingestion source
// (AI generation, spreadsheet import) before it is assigned to a deck.
type CardItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CardFilter struct {
	ProfileID int64
	Deck      string
	Limit     int
	Offset    int
}

type ReviewLog struct {
	ID          int64     `json:"id"`
	CardID      string    `json:"card_id"`
	Quality     int       `json:"quality"`
	Interval    int       `json:"interval"`
	EaseFactor  float64   `json:"ease_factor"`
	TimeSeconds float64   `json:"time_seconds"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}

type ImportState string

const (
	ImportQueued  ImportState = "queued"
	ImportRunning ImportState = "running"
	ImportDone    ImportState = "done"
	ImportFailed  ImportState = "failed"
)

// ImportJob reports the progress of a background spreadsheet import.
type ImportJob struct {
	ID         string      `json:"id"`
	ProfileID  int64       `json:"profile_id"`
	Deck       string      `json:"deck"`
	Filename   string      `json:"filename"`
	State      ImportState `json:"state"`
	Created    int         `json:"created"`
	RowErrors  []string    `json:"row_errors,omitempty"`
	Error      string      `json:"error,omitempty"`
	QueuedAt   time.Time   `json:"queued_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}
