package worker

import (
	"context"

	"github.com/vytor/studydeck/internal/models"
)

// CardCreator stores imported cards. services.CardService satisfies it; the
// narrow interface keeps this package free of the services import.
type CardCreator interface {
	CreateCards(ctx context.Context, profileID int64, deck string, items []models.CardItem) ([]models.Card, error)
}
