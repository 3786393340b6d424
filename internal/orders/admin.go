package orders

import (
	"context"
	"time"

	"velora_back_end/internal/models"
)

// AdminPatch : champs modifiables par le back-office ; nil = inchangé
type AdminPatch struct {
	Status            *string
	EstimatedDelivery *time.Time
	Notes             *string
}

// AdminList retourne une page de commandes filtrées plus les statistiques
// (compteurs par statut, chiffre d'affaires) calculées sur l'ensemble
// filtré, indépendamment de la pagination.
func (s *Service) AdminList(ctx context.Context, f SearchFilter, page, limit int) ([]models.Order, *models.OrderStats, models.Pagination, error) {
	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return nil, nil, models.Pagination{}, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	list, total, err := s.store.Search(ctx, f, page, limit)
	if err != nil {
		return nil, nil, models.Pagination{}, err
	}

	stats, err := s.store.Stats(ctx, f)
	if err != nil {
		return nil, nil, models.Pagination{}, err
	}

	return list, stats, models.NewPagination(page, limit, total), nil
}

// AdminGet charge une commande sans filtre de propriété (back-office)
func (s *Service) AdminGet(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.FindByID(ctx, orderID)
}

// AdminUpdate applique un patch partiel sans contrôle d'éligibilité
// (prérogative admin). L'éligibilité est relue depuis le document chargé,
// jamais depuis l'état fourni par l'appelant, et l'écriture reste
// conditionnelle sur version.
func (s *Service) AdminUpdate(ctx context.Context, orderID string, patch AdminPatch) (*models.Order, error) {
	if patch.Status != nil && !models.ValidOrderStatus(*patch.Status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	storePatch := Patch{
		Status:            patch.Status,
		EstimatedDelivery: patch.EstimatedDelivery,
		AdminNotes:        patch.Notes,
		UpdatedAt:         now,
	}
	if err := s.store.Update(ctx, order.OrderID, order.Version, storePatch); err != nil {
		return nil, err
	}

	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.EstimatedDelivery != nil {
		order.EstimatedDelivery = patch.EstimatedDelivery
	}
	if patch.Notes != nil {
		order.AdminNotes = *patch.Notes
	}
	order.UpdatedAt = now
	order.Version++
	return order, nil
}
