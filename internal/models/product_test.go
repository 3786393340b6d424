package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func assertOptions(t *testing.T, got []ColorOption, want []ColorOption) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("longueur = %d, attendu %d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, attendu %+v", i, got[i], want[i])
		}
	}
}

func TestColorListJSONNormalization(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []ColorOption
	}{
		{"chaîne brute", `"Bleu nuit"`, []ColorOption{{Name: "Bleu nuit"}}},
		{"JSON encodé en chaîne", `"[\"Rouge\", \"Vert\"]"`, []ColorOption{{Name: "Rouge"}, {Name: "Vert"}}},
		{"tableau de chaînes", `["Rouge", " Vert ", ""]`, []ColorOption{{Name: "Rouge"}, {Name: "Vert"}}},
		{"tableau structuré", `[{"name": "Beige", "value": "#f5f5dc"}]`, []ColorOption{{Name: "Beige", Value: "#f5f5dc"}}},
		{"chaîne vide", `""`, []ColorOption{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c ColorList
			if err := json.Unmarshal([]byte(tc.in), &c); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tc.in, err)
			}
			assertOptions(t, c, tc.want)
		})
	}
}

func TestColorListBSONNormalization(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want []ColorOption
	}{
		{"chaîne brute", "Bleu nuit", []ColorOption{{Name: "Bleu nuit"}}},
		{"JSON encodé en chaîne", `["Rouge", "Vert"]`, []ColorOption{{Name: "Rouge"}, {Name: "Vert"}}},
		{"tableau de chaînes", []string{"Rouge", "Vert"}, []ColorOption{{Name: "Rouge"}, {Name: "Vert"}}},
		{"tableau structuré", []ColorOption{{Name: "Beige", Value: "#f5f5dc"}}, []ColorOption{{Name: "Beige", Value: "#f5f5dc"}}},
		{"null", nil, []ColorOption{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"colors": tc.in})
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var doc struct {
				Colors ColorList `bson:"colors"`
			}
			if err := bson.Unmarshal(raw, &doc); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			assertOptions(t, doc.Colors, tc.want)
		})
	}
}

func TestBadgeListNormalization(t *testing.T) {
	var b BadgeList
	if err := json.Unmarshal([]byte(`"[\"Nouveau\"]"`), &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	assertOptions(t, b, []ColorOption{{Name: "Nouveau"}})
}

func TestProductDecodeMixedLegacyShapes(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"name":   "Chemise coton",
		"price":  49.9,
		"colors": "Blanc",
		"badges": []string{"Promo"},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var p Product
	if err := bson.Unmarshal(raw, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	assertOptions(t, p.Colors, []ColorOption{{Name: "Blanc"}})
	assertOptions(t, p.Badges, []ColorOption{{Name: "Promo"}})
}

func TestSalePrice(t *testing.T) {
	p := Product{Price: 100, OnSale: true, DiscountPercent: 30}
	if got := p.SalePrice(); got != 70 {
		t.Errorf("SalePrice = %v", got)
	}

	p.OnSale = false
	if got := p.SalePrice(); got != 100 {
		t.Errorf("hors promo, SalePrice = %v", got)
	}
}
