package catalog

import (
	"strings"

	"mixwise-api/internal/core/matching"
)

// DefaultBrands 解析前會去除的常見品牌前綴
var DefaultBrands = []string{
	"absolut", "bacardi", "beefeater", "bombay sapphire",
	"grey goose", "hendrick's", "jose cuervo", "maker's mark", "patron", "smirnoff",
	"tanqueray", "angostura",
}

// Resolver 把舊版數字 ID、UUID、slug、同義詞與品牌名稱統一為標準識別碼
type Resolver struct {
	aliases map[string]matching.IngredientID
	brands  []string
}

// NewResolver 以目錄食材與別名表建立解析器
func NewResolver(ingredients []matching.Ingredient, aliases map[string]string, brands []string) *Resolver {
	r := &Resolver{
		aliases: make(map[string]matching.IngredientID, len(ingredients)*2+len(aliases)),
		brands:  make([]string, 0, len(brands)),
	}
	for _, b := range brands {
		if b = normalizeKey(b); b != "" {
			r.brands = append(r.brands, b)
		}
	}

	for _, ing := range ingredients {
		canonical := matching.IngredientID(CreateSlug(string(ing.ID)))
		if canonical == "" {
			canonical = matching.IngredientID(CreateSlug(ing.Name))
		}
		if canonical == "" {
			continue
		}
		r.register(string(ing.ID), canonical)
		r.register(string(canonical), canonical)
		r.register(ing.Name, canonical)
	}

	for from, to := range aliases {
		target := r.lookup(to)
		if target == "" {
			target = matching.IngredientID(CreateSlug(to))
		}
		if target == "" {
			continue
		}
		r.register(from, target)
	}
	return r
}

func (r *Resolver) register(key string, id matching.IngredientID) {
	if key = normalizeKey(key); key == "" {
		return
	}
	if _, exists := r.aliases[key]; !exists {
		r.aliases[key] = id
	}
	if slug := CreateSlug(key); slug != "" {
		if _, exists := r.aliases[slug]; !exists {
			r.aliases[slug] = id
		}
	}
}

func (r *Resolver) lookup(key string) matching.IngredientID {
	key = normalizeKey(key)
	if key == "" {
		return ""
	}
	if id, ok := r.aliases[key]; ok {
		return id
	}
	if id, ok := r.aliases[CreateSlug(key)]; ok {
		return id
	}
	return ""
}

// Known 只查詢目錄與別名表，查無時回傳空字串
func (r *Resolver) Known(raw string) matching.IngredientID {
	if id := r.lookup(raw); id != "" {
		return id
	}
	return r.lookup(r.stripBrand(normalizeKey(raw)))
}

// Resolve 回傳標準識別碼，無法產生識別碼時回傳空字串
func (r *Resolver) Resolve(raw string) matching.IngredientID {
	if id := r.Known(raw); id != "" {
		return id
	}
	return matching.IngredientID(CreateSlug(r.stripBrand(normalizeKey(raw))))
}

// ResolveAll 解析多個識別碼並去除空值
func (r *Resolver) ResolveAll(raw []string) []matching.IngredientID {
	out := make([]matching.IngredientID, 0, len(raw))
	for _, v := range raw {
		if id := r.Resolve(v); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// stripBrand 去除開頭的品牌名稱，只剩品牌時保留原字串
func (r *Resolver) stripBrand(s string) string {
	for _, brand := range r.brands {
		if rest, ok := strings.CutPrefix(s, brand+" "); ok {
			if rest = strings.TrimSpace(rest); rest != "" {
				return rest
			}
		}
	}
	return s
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
