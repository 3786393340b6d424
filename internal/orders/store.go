package orders

import (
	"context"
	"errors"
	"time"

	"velora_back_end/internal/models"
)

var (
	// ErrNotFound : commande absente ou appartenant à un autre client.
	// Les deux cas sont indistinguables côté API pour ne pas révéler
	// l'existence de la commande.
	ErrNotFound = errors.New("commande introuvable")

	// ErrConflict : écriture conditionnelle perdue (version obsolète)
	ErrConflict = errors.New("commande modifiée entre-temps, réessayez")
)

// SearchFilter restreint les lectures admin. Search matche l'identifiant de
// commande ou l'email client.
type SearchFilter struct {
	Status string
	Search string
}

// Patch décrit une mutation partielle ; nil = champ inchangé. Toute mutation
// passe par une seule écriture conditionnelle sur version — jamais de
// réécriture du document complet, jamais de delete.
type Patch struct {
	Status             *string
	EstimatedDelivery  *time.Time
	AdminNotes         *string
	CancelledAt        *time.Time
	CancellationReason *string
	RefundDetails      *models.RefundDetails
	UpdatedAt          time.Time
}

// Store est la persistance des commandes. Les lectures côté client filtrent
// toujours par user_email au niveau de la requête, jamais après coup.
type Store interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userEmail string) (*models.Order, error)
	FindByUser(ctx context.Context, userEmail string, page, limit int) ([]models.Order, int64, error)
	Search(ctx context.Context, f SearchFilter, page, limit int) ([]models.Order, int64, error)
	Stats(ctx context.Context, f SearchFilter) (*models.OrderStats, error)
	Update(ctx context.Context, orderID string, version int64, patch Patch) error
}
