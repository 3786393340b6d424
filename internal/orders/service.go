package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"velora_back_end/internal/gateway"
	"velora_back_end/internal/models"
)

// Annulation possible jusqu'à 3 jours (arrondi supérieur) avant la livraison estimée
const minDaysBeforeDelivery = 3

// DefaultCancellationReason est utilisé quand le client n'en donne pas
const DefaultCancellationReason = "Annulée par le client"

var (
	// ErrPaymentNotConfirmed : création refusée, le paiement n'est pas en succès
	ErrPaymentNotConfirmed = errors.New("paiement non confirmé, commande non créée")

	// ErrAlreadyCancelled : la commande est déjà annulée
	ErrAlreadyCancelled = errors.New("cette commande est déjà annulée")

	// ErrNotCancellable : expédiée ou livrée, états de fulfillment terminaux
	ErrNotCancellable = errors.New("impossible d'annuler une commande expédiée ou livrée")

	// ErrTooCloseToDelivery : moins de 3 jours avant la livraison estimée
	ErrTooCloseToDelivery = errors.New("annulation impossible à moins de 3 jours de la livraison estimée")

	// ErrInvalidStatus : statut hors énumération
	ErrInvalidStatus = errors.New("statut de commande invalide")
)

// RefundFailedError : échec gateway ambigu — l'annulation est interrompue
// pour qu'un opérateur investigue, la commande reste intacte.
type RefundFailedError struct {
	Description string
}

func (e *RefundFailedError) Error() string {
	return "échec du remboursement: " + e.Description
}

// Service est le gestionnaire du cycle de vie des commandes : création
// depuis un paiement capturé + instantané du panier, transitions de statut,
// et workflow d'annulation/remboursement.
type Service struct {
	store         Store
	gw            gateway.Gateway
	initialStatus string
	now           func() time.Time
}

func NewService(store Store, gw gateway.Gateway, initialStatus string) *Service {
	if initialStatus != models.StatusPending {
		initialStatus = models.StatusConfirmed
	}
	return &Service{
		store:         store,
		gw:            gw,
		initialStatus: initialStatus,
		now:           time.Now,
	}
}

// CreateInput porte l'instantané du checkout : panier, adresse, et la
// confirmation de capture renvoyée par la gateway.
type CreateInput struct {
	UserEmail         string
	Items             []models.OrderItem
	Subtotal          float64
	Shipping          float64
	Taxes             float64
	Discount          float64
	DiscountCode      string
	ShippingAddress   models.ShippingAddress
	Payment           models.PaymentDetails
	EstimatedDelivery *time.Time
}

// Create écrit une commande immuable depuis un paiement confirmé. Le total
// est figé ici (subtotal + shipping + taxes - discount) et jamais recalculé.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Order, error) {
	if in.Payment.Status != "success" {
		return nil, ErrPaymentNotConfirmed
	}
	if in.UserEmail == "" || len(in.Items) == 0 {
		return nil, errors.New("email ou panier manquant")
	}

	now := s.now()
	items := make([]models.OrderItem, len(in.Items))
	for i, item := range in.Items {
		item.Subtotal = item.Price * float64(item.Quantity)
		items[i] = item
	}

	order := &models.Order{
		OrderID:   models.NewOrderID(),
		UserEmail: in.UserEmail,
		Items:     items,
		OrderSummary: models.OrderSummary{
			Subtotal:     in.Subtotal,
			Shipping:     in.Shipping,
			Taxes:        in.Taxes,
			Discount:     in.Discount,
			DiscountCode: in.DiscountCode,
			Total:        in.Subtotal + in.Shipping + in.Taxes - in.Discount,
		},
		ShippingAddress:   in.ShippingAddress,
		PaymentDetails:    in.Payment,
		Status:            s.initialStatus,
		EstimatedDelivery: in.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}

	if err := s.store.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelResult est le retour du workflow d'annulation
type CancelResult struct {
	Order         *models.Order
	RefundDetails models.RefundDetails
	ManualRefund  bool
	Message       string
}

// Cancel exécute le workflow d'annulation : contrôles d'éligibilité sur la
// commande fraîchement relue, tentative de remboursement, puis une unique
// écriture conditionnelle. Une fois l'éligibilité acquise, l'annulation
// n'échoue plus que sur erreur gateway ambiguë — le remboursement, lui, peut
// dégrader en traitement manuel.
func (s *Service) Cancel(ctx context.Context, orderID, userEmail, reason string) (*CancelResult, error) {
	order, err := s.store.FindByIDForUser(ctx, orderID, userEmail)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.StatusCancelled:
		return nil, ErrAlreadyCancelled
	case models.StatusShipped, models.StatusDelivered:
		return nil, ErrNotCancellable
	}

	now := s.now()
	if order.EstimatedDelivery != nil {
		daysLeft := int(math.Ceil(order.EstimatedDelivery.Sub(now).Hours() / 24))
		if daysLeft < minDaysBeforeDelivery {
			return nil, ErrTooCloseToDelivery
		}
	}

	if reason == "" {
		reason = DefaultCancellationReason
	}

	refund, manual, err := s.attemptRefund(ctx, order, reason, now)
	if err != nil {
		return nil, err
	}

	cancelled := models.StatusCancelled
	patch := Patch{
		Status:             &cancelled,
		CancelledAt:        &now,
		CancellationReason: &reason,
		RefundDetails:      &refund,
		UpdatedAt:          now,
	}
	if err := s.store.Update(ctx, order.OrderID, order.Version, patch); err != nil {
		return nil, err
	}

	order.Status = models.StatusCancelled
	order.CancelledAt = &now
	order.CancellationReason = reason
	order.RefundDetails = &refund
	order.UpdatedAt = now
	order.Version++

	msg := "Commande annulée avec succès"
	switch {
	case manual:
		msg = "Commande annulée. Le remboursement sera traité manuellement sous 2 à 3 jours ouvrés"
	case refund.Status == models.RefundStatusNotRequired:
		msg = "Commande annulée, aucun remboursement nécessaire"
	}

	return &CancelResult{
		Order:         order,
		RefundDetails: refund,
		ManualRefund:  manual,
		Message:       msg,
	}, nil
}

// attemptRefund exécute le sous-flux de remboursement. Retourne toujours un
// RefundDetails à persister, sauf erreur gateway ambiguë (err non nil) qui
// interrompt l'annulation entière.
func (s *Service) attemptRefund(ctx context.Context, order *models.Order, reason string, now time.Time) (models.RefundDetails, bool, error) {
	pd := order.PaymentDetails

	// Rien à rembourser : pas de paiement capturé sur la commande
	if pd.RazorpayPaymentID == "" || pd.Status != "success" {
		return models.RefundDetails{
			RefundID:  models.RefundNone,
			Amount:    0,
			Status:    models.RefundStatusNotRequired,
			CreatedAt: now,
		}, false, nil
	}

	if !gateway.ValidPaymentID(pd.RazorpayPaymentID) {
		return models.RefundDetails{}, false, &RefundFailedError{
			Description: "identifiant de paiement malformé: " + pd.RazorpayPaymentID,
		}
	}

	payment, err := s.gw.FetchPayment(ctx, pd.RazorpayPaymentID)
	if err != nil {
		return models.RefundDetails{}, false, &RefundFailedError{Description: err.Error()}
	}

	if payment.Status != "captured" || !payment.Captured {
		return models.RefundDetails{}, false, &RefundFailedError{
			Description: fmt.Sprintf("paiement %s non capturé (statut %s), remboursement inéligible",
				payment.ID, payment.Status),
		}
	}

	amountMinor := int64(math.Round(order.OrderSummary.Total * 100))
	notes := map[string]interface{}{
		"reason":       reason,
		"order_id":     order.OrderID,
		"cancelled_at": now.UTC().Format(time.RFC3339),
	}
	receipt := fmt.Sprintf("rfnd_%s_%d", order.OrderID, now.Unix())

	refund, err := s.gw.Refund(ctx, pd.RazorpayPaymentID, amountMinor, notes, receipt)
	if err != nil {
		var rerr *gateway.RefundError
		if errors.As(err, &rerr) && rerr.BadRequest() {
			// Rejet définitif connu : on annule quand même, un humain
			// traitera le remboursement hors ligne
			return models.RefundDetails{
				RefundID:  models.RefundManualRequired,
				Amount:    order.OrderSummary.Total,
				Status:    models.RefundStatusManual,
				CreatedAt: now,
				Error:     rerr.Description,
			}, true, nil
		}
		return models.RefundDetails{}, false, &RefundFailedError{Description: err.Error()}
	}

	return models.RefundDetails{
		RefundID:       refund.ID,
		Amount:         float64(refund.Amount) / 100,
		Status:         refund.Status,
		CreatedAt:      refund.CreatedAt,
		SpeedProcessed: refund.SpeedProcessed,
	}, false, nil
}

// ListForUser retourne la page de commandes d'un client, plus récentes d'abord
func (s *Service) ListForUser(ctx context.Context, userEmail string, page, limit int) ([]models.Order, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	list, total, err := s.store.FindByUser(ctx, userEmail, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return list, models.NewPagination(page, limit, total), nil
}

// GetForUser retourne une commande si et seulement si elle appartient au client
func (s *Service) GetForUser(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
	return s.store.FindByIDForUser(ctx, orderID, userEmail)
}
