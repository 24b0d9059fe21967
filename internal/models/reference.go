// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package models

// Category is an entry of the closed category table.
//
// Attributes lists the sub-attributes that are meaningful for products in
// the category. The others are still stored and default to 5.
type Category struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Attributes []string `json:"attributes"`
}

// Sub-attribute names used in Category.Attributes.
const (
	AttributeSweetness     = "sweetness"
	AttributeSaltiness     = "saltiness"
	AttributeSmell         = "smell"
	AttributeEffectiveness = "effectiveness"
)

// Category bounds.
const (
	MinCategoryID = 1
	MaxCategoryID = 5
)

var categories = []Category{
	{ID: 1, Name: "Alimentación", Icon: "🍽️", Attributes: []string{AttributeSweetness, AttributeSaltiness}},
	{ID: 2, Name: "Bebidas", Icon: "🥤", Attributes: []string{AttributeSweetness}},
	{ID: 3, Name: "Higiene Personal", Icon: "🧴", Attributes: []string{AttributeSmell, AttributeEffectiveness}},
	{ID: 4, Name: "Limpieza hogar", Icon: "🧹", Attributes: []string{AttributeSmell, AttributeEffectiveness}},
	{ID: 5, Name: "Mascotas", Icon: "🐾", Attributes: []string{AttributeEffectiveness}},
}

var supermarkets = []string{
	"Mercadona",
	"Carrefour",
	"Lidl",
	"Grupo Eroski",
	"Grupo Dia",
	"Consum Coop.",
	"Alcampo (Auchan)",
	"El Corte Inglés",
	"Aldi",
	"Condis",
	"Ahorramas",
	"Supercor",
	"BM Supermercados",
	"Gadisa",
	"Bon Preu",
	"Covirán",
	"Froiz",
	"Masymas",
	"HiperDino",
	"E.Leclerc",
	"Spar",
	"Uvesco",
	"SuperSol",
	"Caprabo",
	"Makro",
	"La Despensa",
	"Casa Ametller",
	"Lupa",
	"Alimerka",
	"La Plaza de Dia",
	"Cash Fresh",
	"Economy Cash",
	"Jespac",
	"Hiper Usera",
	"Novavenda",
	"Autoservicios Familia",
	"Suma",
	"Ressa",
	"Charter",
	"Punt Fresc",
	"El Árbol",
	"Cash EcoFamilia",
	"Hiperber",
}

var supermarketSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(supermarkets))
	for _, s := range supermarkets {
		set[s] = struct{}{}
	}
	return set
}()

// Categories returns a copy of the category table ordered by id.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a category.
func CategoryByID(id int) (Category, bool) {
	if id < MinCategoryID || id > MaxCategoryID {
		return Category{}, false
	}
	return categories[id-1], true
}

// IsValidCategory reports whether id references the category table.
func IsValidCategory(id int) bool {
	_, ok := CategoryByID(id)
	return ok
}

// Supermarkets returns a copy of the fixed supermarket list.
func Supermarkets() []string {
	out := make([]string, len(supermarkets))
	copy(out, supermarkets)
	return out
}

// IsValidSupermarket reports whether name is in the fixed list.
// Matching is exact, including accents and punctuation.
func IsValidSupermarket(name string) bool {
	_, ok := supermarketSet[name]
	return ok
}
