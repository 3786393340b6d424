package models

import (
	"time"

	"github.com/google/uuid"
)

// Statuts de commande
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidOrderStatus vérifie qu'un statut appartient à l'énumération
func ValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Marqueurs de remboursement hors gateway
const (
	RefundNone           = "no_payment_to_refund"
	RefundManualRequired = "manual_refund_required"

	RefundStatusNotRequired = "no_refund_required"
	RefundStatusManual      = "manual_processing_required"
)

type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	Price     float64 `bson:"price" json:"price"`
	Size      string  `bson:"size" json:"size"`
	Color     string  `bson:"color" json:"color"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Subtotal  float64 `bson:"subtotal" json:"subtotal"` // price × quantity, figé à la création
}

type OrderSummary struct {
	Subtotal     float64 `bson:"subtotal" json:"subtotal"`
	Shipping     float64 `bson:"shipping" json:"shipping"`
	Taxes        float64 `bson:"taxes" json:"taxes"`
	Discount     float64 `bson:"discount" json:"discount"`
	DiscountCode string  `bson:"discount_code,omitempty" json:"discountCode,omitempty"`
	Total        float64 `bson:"total" json:"total"` // subtotal + shipping + taxes - discount
}

type ShippingAddress struct {
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zip       string `bson:"zip" json:"zip"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

type PaymentDetails struct {
	RazorpayPaymentID string    `bson:"razorpay_payment_id" json:"razorpay_payment_id"`
	RazorpayOrderID   string    `bson:"razorpay_order_id" json:"razorpay_order_id"`
	Amount            float64   `bson:"amount" json:"amount"`
	Status            string    `bson:"status" json:"status"` // "success" attendu
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

type RefundDetails struct {
	RefundID       string    `bson:"refund_id" json:"refund_id"`
	Amount         float64   `bson:"amount" json:"amount"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	SpeedProcessed string    `bson:"speed_processed,omitempty" json:"speed_processed,omitempty"`
	Error          string    `bson:"error,omitempty" json:"error,omitempty"`
}

// Order est le document commande. L'identité, les articles, le récapitulatif
// et l'adresse sont des instantanés figés à la création ; seuls le statut et
// les champs d'administration évoluent, toujours via une écriture
// conditionnelle sur version.
type Order struct {
	OrderID            string          `bson:"_id" json:"orderId"`
	UserEmail          string          `bson:"user_email" json:"userEmail"`
	Items              []OrderItem     `bson:"items" json:"items"`
	OrderSummary       OrderSummary    `bson:"order_summary" json:"orderSummary"`
	ShippingAddress    ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	PaymentDetails     PaymentDetails  `bson:"payment_details" json:"paymentDetails"`
	Status             string          `bson:"status" json:"status"`
	EstimatedDelivery  *time.Time      `bson:"estimated_delivery,omitempty" json:"estimatedDelivery,omitempty"`
	CreatedAt          time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updated_at" json:"updatedAt"`
	CancelledAt        *time.Time      `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string          `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	RefundDetails      *RefundDetails  `bson:"refund_details,omitempty" json:"refundDetails,omitempty"`
	AdminNotes         string          `bson:"admin_notes,omitempty" json:"adminNotes,omitempty"`
	Version            int64           `bson:"version" json:"version"`
}

// OrderStats est l'agrégat du back-office : compteurs par statut + chiffre
// d'affaires sur l'ensemble filtré, pas seulement la page courante.
type OrderStats struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"byStatus"`
	TotalRevenue float64          `json:"totalRevenue"`
}

// Pagination décrit une page de résultats côté client
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination calcule les métadonnées de pagination
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// NewOrderID génère le handle externe d'une commande
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}
