package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/studydeck/internal/jobs"
	"github.com/vytor/studydeck/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB             Pinger
	ProfileService services.ProfileService
	CardService    services.CardService
	StudyService   services.StudyService
	ImportQueue    jobs.ImportQueue
	// MaxUploadBytes caps import uploads. Zero uses defaultMaxUploadBytes.
	MaxUploadBytes int64

	validate *validator.Validate
}

// NewServer wires the HTTP layer to its services.
func NewServer(
	db Pinger,
	profileService services.ProfileService,
	cardService services.CardService,
	studyService services.StudyService,
	importQueue jobs.ImportQueue,
) *Server {
	return &Server{
		DB:             db,
		ProfileService: profileService,
		CardService:    cardService,
		StudyService:   studyService,
		ImportQueue:    importQueue,
		validate:       newValidator(),
	}
}
