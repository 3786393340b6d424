package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"velora_back_end/internal/gateway"
	"velora_back_end/internal/models"
)

type stubStore struct {
	insert          func(ctx context.Context, order *models.Order) error
	findByID        func(ctx context.Context, orderID string) (*models.Order, error)
	findByIDForUser func(ctx context.Context, orderID, userEmail string) (*models.Order, error)
	findByUser      func(ctx context.Context, userEmail string, page, limit int) ([]models.Order, int64, error)
	search          func(ctx context.Context, f SearchFilter, page, limit int) ([]models.Order, int64, error)
	stats           func(ctx context.Context, f SearchFilter) (*models.OrderStats, error)
	update          func(ctx context.Context, orderID string, version int64, patch Patch) error
}

func (s *stubStore) Insert(ctx context.Context, order *models.Order) error {
	return s.insert(ctx, order)
}
func (s *stubStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	return s.findByID(ctx, orderID)
}
func (s *stubStore) FindByIDForUser(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
	return s.findByIDForUser(ctx, orderID, userEmail)
}
func (s *stubStore) FindByUser(ctx context.Context, userEmail string, page, limit int) ([]models.Order, int64, error) {
	return s.findByUser(ctx, userEmail, page, limit)
}
func (s *stubStore) Search(ctx context.Context, f SearchFilter, page, limit int) ([]models.Order, int64, error) {
	return s.search(ctx, f, page, limit)
}
func (s *stubStore) Stats(ctx context.Context, f SearchFilter) (*models.OrderStats, error) {
	return s.stats(ctx, f)
}
func (s *stubStore) Update(ctx context.Context, orderID string, version int64, patch Patch) error {
	return s.update(ctx, orderID, version, patch)
}

type stubGateway struct {
	fetchPayment func(ctx context.Context, paymentID string) (*gateway.Payment, error)
	refund       func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error)
}

func (g *stubGateway) FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error) {
	return g.fetchPayment(ctx, paymentID)
}
func (g *stubGateway) Refund(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
	return g.refund(ctx, paymentID, amountMinor, notes, receipt)
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(store Store, gw gateway.Gateway) *Service {
	svc := NewService(store, gw, "confirmed")
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func paidOrder(status string) *models.Order {
	delivery := fixedNow.Add(7 * 24 * time.Hour)
	return &models.Order{
		OrderID:   "ORD-test-1",
		UserEmail: "claire@example.com",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Robe lin", Price: 89.99, Quantity: 1, Subtotal: 89.99},
		},
		OrderSummary: models.OrderSummary{Subtotal: 89.99, Shipping: 5.0, Taxes: 5.0, Total: 99.99},
		PaymentDetails: models.PaymentDetails{
			RazorpayPaymentID: "pay_abc123",
			Amount:            99.99,
			Status:            "success",
		},
		Status:            status,
		EstimatedDelivery: &delivery,
		Version:           3,
	}
}

func TestCancelRefundsCapturedPayment(t *testing.T) {
	order := paidOrder(models.StatusConfirmed)

	var refundedAmount int64
	var updated *Patch
	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			if orderID != order.OrderID || userEmail != order.UserEmail {
				return nil, ErrNotFound
			}
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			if version != 3 {
				t.Errorf("écriture conditionnelle sur version %d, attendu 3", version)
			}
			updated = &patch
			return nil
		},
	}
	gw := &stubGateway{
		fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
			return &gateway.Payment{ID: paymentID, Status: "captured", Captured: true, Amount: 9999}, nil
		},
		refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
			refundedAmount = amountMinor
			if notes["order_id"] != order.OrderID {
				t.Errorf("notes[order_id] = %v", notes["order_id"])
			}
			return &gateway.Refund{ID: "rfnd_1", Amount: amountMinor, Status: "processed", CreatedAt: fixedNow}, nil
		},
	}

	res, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if refundedAmount != 9999 {
		t.Errorf("montant remboursé = %d paise, attendu 9999", refundedAmount)
	}
	if updated == nil || updated.Status == nil || *updated.Status != models.StatusCancelled {
		t.Fatalf("patch persisté incorrect: %+v", updated)
	}
	if updated.CancellationReason == nil || *updated.CancellationReason != DefaultCancellationReason {
		t.Errorf("raison par défaut non appliquée: %+v", updated.CancellationReason)
	}
	if res.ManualRefund {
		t.Error("remboursement marqué manuel alors que la gateway a accepté")
	}
	if res.RefundDetails.RefundID != "rfnd_1" || res.RefundDetails.Amount != 99.99 {
		t.Errorf("détails remboursement: %+v", res.RefundDetails)
	}
	if res.Order.Status != models.StatusCancelled || res.Order.Version != 4 {
		t.Errorf("commande retournée: status=%s version=%d", res.Order.Status, res.Order.Version)
	}
}

func TestCancelBadRequestDegradesToManual(t *testing.T) {
	order := paidOrder(models.StatusConfirmed)

	updateCalls := 0
	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			updateCalls++
			return nil
		},
	}
	gw := &stubGateway{
		fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
			return &gateway.Payment{ID: paymentID, Status: "captured", Captured: true}, nil
		},
		refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
			return nil, &gateway.RefundError{Code: gateway.CodeBadRequest, Description: "The payment has been fully refunded already"}
		},
	}

	res, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "trop petit")
	if err != nil {
		t.Fatalf("l'annulation doit aboutir malgré le rejet: %v", err)
	}
	if updateCalls != 1 {
		t.Errorf("update appelé %d fois, attendu 1", updateCalls)
	}
	if !res.ManualRefund {
		t.Error("ManualRefund = false")
	}
	if res.RefundDetails.RefundID != models.RefundManualRequired {
		t.Errorf("RefundID = %q", res.RefundDetails.RefundID)
	}
	if res.RefundDetails.Status != models.RefundStatusManual {
		t.Errorf("Status = %q", res.RefundDetails.Status)
	}
	if res.RefundDetails.Error == "" {
		t.Error("l'erreur gateway doit être conservée dans les détails")
	}
	if !strings.Contains(res.Message, "manuellement") {
		t.Errorf("message: %q", res.Message)
	}
}

func TestCancelGatewayErrorAbortsCancellation(t *testing.T) {
	order := paidOrder(models.StatusConfirmed)

	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			t.Error("la commande ne doit pas être modifiée sur erreur gateway ambiguë")
			return nil
		},
	}
	gw := &stubGateway{
		fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
			return &gateway.Payment{ID: paymentID, Status: "captured", Captured: true}, nil
		},
		refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
			return nil, &gateway.RefundError{Code: "SERVER_ERROR", Description: "internal"}
		},
	}

	_, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
	var rfe *RefundFailedError
	if !errors.As(err, &rfe) {
		t.Fatalf("attendu RefundFailedError, obtenu %v", err)
	}
	if order.Status != models.StatusConfirmed {
		t.Errorf("commande mutée: %s", order.Status)
	}
}

func TestCancelUncapturedPaymentAborts(t *testing.T) {
	order := paidOrder(models.StatusConfirmed)

	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			t.Error("update ne doit pas être appelé")
			return nil
		},
	}
	gw := &stubGateway{
		fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
			return &gateway.Payment{ID: paymentID, Status: "authorized", Captured: false}, nil
		},
		refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
			t.Error("refund ne doit pas être tenté sur un paiement non capturé")
			return nil, nil
		},
	}

	_, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
	var rfe *RefundFailedError
	if !errors.As(err, &rfe) {
		t.Fatalf("attendu RefundFailedError, obtenu %v", err)
	}
}

func TestCancelWithoutPaymentSkipsGateway(t *testing.T) {
	order := paidOrder(models.StatusConfirmed)
	order.PaymentDetails = models.PaymentDetails{}

	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			return nil
		},
	}
	gw := &stubGateway{
		fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
			t.Error("la gateway ne doit pas être contactée sans paiement")
			return nil, nil
		},
		refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
			t.Error("la gateway ne doit pas être contactée sans paiement")
			return nil, nil
		},
	}

	res, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if res.RefundDetails.RefundID != models.RefundNone {
		t.Errorf("RefundID = %q", res.RefundDetails.RefundID)
	}
	if res.RefundDetails.Status != models.RefundStatusNotRequired {
		t.Errorf("Status = %q", res.RefundDetails.Status)
	}
	if res.RefundDetails.Amount != 0 {
		t.Errorf("Amount = %v", res.RefundDetails.Amount)
	}
}

func TestCancelAlreadyCancelledNeverRefundsTwice(t *testing.T) {
	order := paidOrder(models.StatusCancelled)

	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			t.Error("update ne doit pas être appelé")
			return nil
		},
	}
	gw := &stubGateway{
		fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
			t.Error("pas de second remboursement sur une commande déjà annulée")
			return nil, nil
		},
		refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
			t.Error("pas de second remboursement sur une commande déjà annulée")
			return nil, nil
		},
	}

	_, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("attendu ErrAlreadyCancelled, obtenu %v", err)
	}
}

func TestCancelShippedAndDeliveredRejected(t *testing.T) {
	for _, status := range []string{models.StatusShipped, models.StatusDelivered} {
		order := paidOrder(status)
		store := &stubStore{
			findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
				return order, nil
			},
			update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
				t.Errorf("[%s] update ne doit pas être appelé", status)
				return nil
			},
		}
		gw := &stubGateway{
			fetchPayment: func(ctx context.Context, paymentID string) (*gateway.Payment, error) {
				t.Errorf("[%s] pas d'appel gateway", status)
				return nil, nil
			},
			refund: func(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*gateway.Refund, error) {
				t.Errorf("[%s] pas d'appel gateway", status)
				return nil, nil
			},
		}

		_, err := newTestService(store, gw).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
		if !errors.Is(err, ErrNotCancellable) {
			t.Errorf("[%s] attendu ErrNotCancellable, obtenu %v", status, err)
		}
	}
}

func TestCancelDeliveryWindowBoundary(t *testing.T) {
	cases := []struct {
		name     string
		delivery time.Duration
		wantErr  bool
	}{
		{"3 jours pile, autorisé", 72 * time.Hour, false},
		{"un peu plus de 2 jours, autorisé (arrondi supérieur)", 49 * time.Hour, false},
		{"2 jours pile, refusé", 48 * time.Hour, true},
		{"veille de livraison, refusé", 24 * time.Hour, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := paidOrder(models.StatusConfirmed)
			order.PaymentDetails = models.PaymentDetails{}
			delivery := fixedNow.Add(tc.delivery)
			order.EstimatedDelivery = &delivery

			store := &stubStore{
				findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
					return order, nil
				},
				update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
					return nil
				},
			}

			_, err := newTestService(store, &stubGateway{}).Cancel(context.Background(), order.OrderID, order.UserEmail, "")
			if tc.wantErr && !errors.Is(err, ErrTooCloseToDelivery) {
				t.Fatalf("attendu ErrTooCloseToDelivery, obtenu %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("annulation refusée à tort: %v", err)
			}
		})
	}
}

func TestCancelWrongOwnerNotFound(t *testing.T) {
	store := &stubStore{
		findByIDForUser: func(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
			return nil, ErrNotFound
		},
	}

	_, err := newTestService(store, &stubGateway{}).Cancel(context.Background(), "ORD-test-1", "autre@example.com", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("attendu ErrNotFound, obtenu %v", err)
	}
}

func TestCreateFreezesTotals(t *testing.T) {
	var inserted *models.Order
	store := &stubStore{
		insert: func(ctx context.Context, order *models.Order) error {
			inserted = order
			return nil
		},
	}

	svc := newTestService(store, &stubGateway{})
	order, err := svc.Create(context.Background(), CreateInput{
		UserEmail: "claire@example.com",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Robe lin", Price: 40.0, Quantity: 2},
			{ProductID: "p2", Name: "Ceinture", Price: 15.5, Quantity: 1},
		},
		Subtotal: 95.5,
		Shipping: 4.9,
		Taxes:    10.0,
		Discount: 5.0,
		Payment:  models.PaymentDetails{RazorpayPaymentID: "pay_x", Status: "success"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inserted == nil {
		t.Fatal("commande non insérée")
	}
	if got, want := order.OrderSummary.Total, 95.5+4.9+10.0-5.0; got != want {
		t.Errorf("Total = %v, attendu %v", got, want)
	}
	if order.Items[0].Subtotal != 80.0 || order.Items[1].Subtotal != 15.5 {
		t.Errorf("sous-totaux: %v / %v", order.Items[0].Subtotal, order.Items[1].Subtotal)
	}
	if order.Status != models.StatusConfirmed {
		t.Errorf("statut initial = %q", order.Status)
	}
	if order.Version != 1 {
		t.Errorf("version initiale = %d", order.Version)
	}
	if order.OrderID == "" || order.CreatedAt != fixedNow {
		t.Errorf("identité/horodatage: %q %v", order.OrderID, order.CreatedAt)
	}
}

func TestCreateRejectsUnconfirmedPayment(t *testing.T) {
	store := &stubStore{
		insert: func(ctx context.Context, order *models.Order) error {
			t.Error("rien ne doit être inséré")
			return nil
		},
	}

	_, err := newTestService(store, &stubGateway{}).Create(context.Background(), CreateInput{
		UserEmail: "claire@example.com",
		Items:     []models.OrderItem{{ProductID: "p1", Price: 10, Quantity: 1}},
		Payment:   models.PaymentDetails{RazorpayPaymentID: "pay_x", Status: "failed"},
	})
	if !errors.Is(err, ErrPaymentNotConfirmed) {
		t.Fatalf("attendu ErrPaymentNotConfirmed, obtenu %v", err)
	}
}

func TestAdminUpdateStatusBumpsVersion(t *testing.T) {
	order := paidOrder(models.StatusConfirmed)

	var gotVersion int64
	store := &stubStore{
		findByID: func(ctx context.Context, orderID string) (*models.Order, error) {
			return order, nil
		},
		update: func(ctx context.Context, orderID string, version int64, patch Patch) error {
			gotVersion = version
			if patch.Status == nil || *patch.Status != models.StatusShipped {
				t.Errorf("patch.Status = %v", patch.Status)
			}
			if patch.CancelledAt != nil || patch.RefundDetails != nil {
				t.Error("un patch admin ne touche pas aux champs d'annulation")
			}
			return nil
		},
	}

	shipped := models.StatusShipped
	updated, err := newTestService(store, &stubGateway{}).AdminUpdate(context.Background(), order.OrderID, AdminPatch{Status: &shipped})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if gotVersion != 3 {
		t.Errorf("écriture conditionnelle sur version %d, attendu 3", gotVersion)
	}
	if updated.Status != models.StatusShipped || updated.Version != 4 {
		t.Errorf("retour: status=%s version=%d", updated.Status, updated.Version)
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Errorf("UpdatedAt = %v", updated.UpdatedAt)
	}
}

func TestAdminUpdateRejectsInvalidStatus(t *testing.T) {
	store := &stubStore{
		findByID: func(ctx context.Context, orderID string) (*models.Order, error) {
			t.Error("validation avant lecture")
			return nil, nil
		},
	}

	bogus := "teleported"
	_, err := newTestService(store, &stubGateway{}).AdminUpdate(context.Background(), "ORD-test-1", AdminPatch{Status: &bogus})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("attendu ErrInvalidStatus, obtenu %v", err)
	}
}

func TestAdminListRejectsInvalidStatusFilter(t *testing.T) {
	_, _, _, err := newTestService(&stubStore{}, &stubGateway{}).AdminList(context.Background(), SearchFilter{Status: "bogus"}, 1, 20)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("attendu ErrInvalidStatus, obtenu %v", err)
	}
}

func TestAdminListStatsCoverFilteredSet(t *testing.T) {
	wantStats := &models.OrderStats{
		Total:        42,
		ByStatus:     map[string]int64{models.StatusConfirmed: 42},
		TotalRevenue: 4200.5,
	}
	store := &stubStore{
		search: func(ctx context.Context, f SearchFilter, page, limit int) ([]models.Order, int64, error) {
			return []models.Order{*paidOrder(models.StatusConfirmed)}, 42, nil
		},
		stats: func(ctx context.Context, f SearchFilter) (*models.OrderStats, error) {
			if f.Status != models.StatusConfirmed {
				t.Errorf("le filtre doit être propagé aux stats: %+v", f)
			}
			return wantStats, nil
		},
	}

	list, stats, pagination, err := newTestService(store, &stubGateway{}).AdminList(context.Background(), SearchFilter{Status: models.StatusConfirmed}, 2, 1)
	if err != nil {
		t.Fatalf("AdminList: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("page de %d commandes", len(list))
	}
	if stats.Total != 42 || stats.TotalRevenue != 4200.5 {
		t.Errorf("stats: %+v", stats)
	}
	if pagination.Page != 2 || pagination.Total != 42 || pagination.TotalPages != 42 {
		t.Errorf("pagination: %+v", pagination)
	}
}

func TestListForUserClampsPaging(t *testing.T) {
	store := &stubStore{
		findByUser: func(ctx context.Context, userEmail string, page, limit int) ([]models.Order, int64, error) {
			if page != 1 || limit != 10 {
				t.Errorf("page=%d limit=%d, attendu 1/10", page, limit)
			}
			return nil, 0, nil
		},
	}

	_, pagination, err := newTestService(store, &stubGateway{}).ListForUser(context.Background(), "claire@example.com", -3, 5000)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if pagination.Page != 1 {
		t.Errorf("pagination: %+v", pagination)
	}
}
