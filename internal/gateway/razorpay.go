package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"
)

// Préfixe des identifiants de paiement Razorpay
const paymentIDPrefix = "pay_"

// Code d'erreur gateway non réessayable (classe "bad request")
const CodeBadRequest = "BAD_REQUEST_ERROR"

// Payment est l'enregistrement de paiement tel que vu par la gateway.
// Les montants sont en unités mineures (paise/centimes).
type Payment struct {
	ID       string
	Status   string
	Amount   int64
	Captured bool
	Method   string
	OrderID  string
}

// Refund est le résultat d'un remboursement gateway, montant en unités mineures
type Refund struct {
	ID             string
	Amount         int64
	Status         string
	CreatedAt      time.Time
	SpeedProcessed string
}

// LookupError : identifiant malformé ou paiement inconnu côté gateway
type LookupError struct {
	PaymentID string
	Err       error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("recherche paiement %s échouée: %v", e.PaymentID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// RefundError : remboursement rejeté par la gateway. Code == CodeBadRequest
// signale la classe non réessayable (paiement non capturé, montant invalide...).
type RefundError struct {
	Code        string
	Description string
}

func (e *RefundError) Error() string {
	return fmt.Sprintf("remboursement rejeté (%s): %s", e.Code, e.Description)
}

// BadRequest indique un rejet définitif, à dégrader en traitement manuel
func (e *RefundError) BadRequest() bool { return e.Code == CodeBadRequest }

// Gateway est le contrat consommé par le cycle de vie des commandes.
// Aucune implémentation ne doit muter d'état local : la persistance des
// résultats appartient à l'appelant.
type Gateway interface {
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	Refund(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*Refund, error)
}

// ValidPaymentID vérifie le format d'un identifiant de paiement
func ValidPaymentID(id string) bool {
	return strings.HasPrefix(id, paymentIDPrefix) && len(id) > len(paymentIDPrefix)
}

// Client enveloppe le SDK Razorpay
type Client struct {
	rzp *razorpay.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{rzp: razorpay.NewClient(keyID, keySecret)}
}

// NewClientFromEnv construit le client depuis RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET
func NewClientFromEnv() (*Client, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET manquants")
	}
	return NewClient(keyID, keySecret), nil
}

// FetchPayment récupère un paiement. Le SDK n'accepte pas de contexte :
// on vérifie l'annulation avant l'appel, l'appel lui-même est borné par les
// timeouts HTTP du SDK.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidPaymentID(paymentID) {
		return nil, &LookupError{PaymentID: paymentID, Err: errors.New("format d'identifiant invalide")}
	}

	body, err := c.rzp.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, &LookupError{PaymentID: paymentID, Err: err}
	}

	return &Payment{
		ID:       asString(body["id"]),
		Status:   asString(body["status"]),
		Amount:   asInt64(body["amount"]),
		Captured: asBool(body["captured"]),
		Method:   asString(body["method"]),
		OrderID:  asString(body["order_id"]),
	}, nil
}

// Refund émet un remboursement en unités mineures
func (c *Client) Refund(ctx context.Context, paymentID string, amountMinor int64, notes map[string]interface{}, receipt string) (*Refund, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"speed":   "normal",
		"receipt": receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := c.rzp.Payment.Refund(paymentID, int(amountMinor), data, nil)
	if err != nil {
		return nil, classifyRefundError(err)
	}

	return &Refund{
		ID:             asString(body["id"]),
		Amount:         asInt64(body["amount"]),
		Status:         asString(body["status"]),
		CreatedAt:      time.Unix(asInt64(body["created_at"]), 0),
		SpeedProcessed: asString(body["speed_processed"]),
	}, nil
}

// classifyRefundError sépare la classe "bad request" (définitive) des autres
// erreurs gateway (à faire remonter pour investigation)
func classifyRefundError(err error) *RefundError {
	var badReq *rzperrors.BadRequestError
	if errors.As(err, &badReq) || strings.Contains(err.Error(), CodeBadRequest) {
		return &RefundError{Code: CodeBadRequest, Description: err.Error()}
	}
	var gw *rzperrors.GatewayError
	if errors.As(err, &gw) {
		return &RefundError{Code: "GATEWAY_ERROR", Description: err.Error()}
	}
	var srv *rzperrors.ServerError
	if errors.As(err, &srv) {
		return &RefundError{Code: "SERVER_ERROR", Description: err.Error()}
	}
	return &RefundError{Code: "UNKNOWN_ERROR", Description: err.Error()}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}
