package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColorOption est la forme canonique d'une couleur (ou d'un badge) produit.
// Les documents historiques stockent ce champ sous trois formes : chaîne
// brute, chaîne JSON, ou tableau (de chaînes ou d'objets {name,value}).
// La normalisation se fait une seule fois au décodage ; le reste du code ne
// voit jamais qu'une []ColorOption.
type ColorOption struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

type ColorList []ColorOption

type BadgeList []ColorOption

// option est un alias sans unmarshaler pour décoder la forme structurée
type option ColorOption

func normalizeStrings(raw []string) []ColorOption {
	out := make([]ColorOption, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, ColorOption{Name: s})
		}
	}
	return out
}

func normalizeOptions(raw []option) []ColorOption {
	out := make([]ColorOption, 0, len(raw))
	for _, o := range raw {
		out = append(out, ColorOption(o))
	}
	return out
}

// parseOptionString décode une chaîne : soit du JSON encodé en chaîne,
// soit une valeur brute unique
func parseOptionString(s string) []ColorOption {
	s = strings.TrimSpace(s)
	if s == "" {
		return []ColorOption{}
	}
	if strings.HasPrefix(s, "[") {
		var legacy []string
		if err := json.Unmarshal([]byte(s), &legacy); err == nil {
			return normalizeStrings(legacy)
		}
		var structured []option
		if err := json.Unmarshal([]byte(s), &structured); err == nil {
			return normalizeOptions(structured)
		}
	}
	return []ColorOption{{Name: s}}
}

func unmarshalOptionsJSON(data []byte) ([]ColorOption, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return parseOptionString(s), nil
	}
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err == nil {
		return normalizeStrings(legacy), nil
	}
	var structured []option
	if err := json.Unmarshal(data, &structured); err == nil {
		return normalizeOptions(structured), nil
	}
	return nil, fmt.Errorf("forme de champ couleur/badge non reconnue: %s", string(data))
}

func unmarshalOptionsBSON(t bsontype.Type, data []byte) ([]ColorOption, error) {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return []ColorOption{}, nil
	case bson.TypeString:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return nil, err
		}
		return parseOptionString(s), nil
	case bson.TypeArray:
		var legacy []string
		if err := bson.UnmarshalValue(t, data, &legacy); err == nil {
			return normalizeStrings(legacy), nil
		}
		var structured []option
		if err := bson.UnmarshalValue(t, data, &structured); err == nil {
			return normalizeOptions(structured), nil
		}
		return nil, fmt.Errorf("tableau couleur/badge non reconnu")
	default:
		return nil, fmt.Errorf("type BSON inattendu pour couleur/badge: %s", t)
	}
}

func (c *ColorList) UnmarshalJSON(data []byte) error {
	opts, err := unmarshalOptionsJSON(data)
	if err != nil {
		return err
	}
	*c = opts
	return nil
}

func (c *ColorList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	opts, err := unmarshalOptionsBSON(t, data)
	if err != nil {
		return err
	}
	*c = opts
	return nil
}

func (b *BadgeList) UnmarshalJSON(data []byte) error {
	opts, err := unmarshalOptionsJSON(data)
	if err != nil {
		return err
	}
	*b = opts
	return nil
}

func (b *BadgeList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	opts, err := unmarshalOptionsBSON(t, data)
	if err != nil {
		return err
	}
	*b = opts
	return nil
}

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Category        string             `bson:"category" json:"category"`
	Price           float64            `bson:"price" json:"price"`
	DiscountPercent float64            `bson:"discount_percent,omitempty" json:"discountPercent,omitempty"`
	OnSale          bool               `bson:"on_sale" json:"onSale"`
	Images          []string           `bson:"images" json:"images"`
	Sizes           []string           `bson:"sizes" json:"sizes"`
	Colors          ColorList          `bson:"colors" json:"colors"`
	Badges          BadgeList          `bson:"badges,omitempty" json:"badges,omitempty"`
	Specifications  map[string]string  `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Stock           int                `bson:"stock" json:"stock"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// SalePrice retourne le prix après remise
func (p *Product) SalePrice() float64 {
	if !p.OnSale || p.DiscountPercent <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.DiscountPercent/100)
}
