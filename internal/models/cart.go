package models

type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// Cart vit dans Redis, clé "cart:<email>". Le serveur fait foi pour les
// utilisateurs authentifiés ; le client se resynchronise par remplacement
// complet (PUT idempotent).
type Cart struct {
	UserEmail string     `json:"userEmail"`
	Items     []CartItem `json:"items"`
}
