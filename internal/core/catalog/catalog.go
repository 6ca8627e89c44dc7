// Package catalog 載入酒譜目錄，統一食材識別碼，並提供目前使用中的目錄快照。
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"mixwise-api/internal/core/matching"
)

var (
	// ErrNotLoaded 尚未成功載入任何目錄
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrUnsupportedFormat 無法識別的目錄檔案格式
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// LineRecord 上游來源中的一行食材
type LineRecord struct {
	IngredientID string `json:"ingredient_id,omitempty" yaml:"ingredient_id,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Text         string `json:"text,omitempty" yaml:"text,omitempty"`
	IsOptional   bool   `json:"is_optional,omitempty" yaml:"is_optional,omitempty"`
}

// RecipeRecord 上游來源中的一筆酒譜
type RecipeRecord struct {
	ID    string       `json:"id" yaml:"id"`
	Slug  string       `json:"slug,omitempty" yaml:"slug,omitempty"`
	Name  string       `json:"name" yaml:"name"`
	Lines []LineRecord `json:"ingredients" yaml:"ingredients"`
}

func (r RecipeRecord) effectiveSlug() string {
	if r.Slug != "" {
		return r.Slug
	}
	return CreateSlug(r.Name)
}

// Document 尚未解析識別碼的原始目錄
type Document struct {
	Version     string                `json:"version,omitempty" yaml:"version,omitempty"`
	Ingredients []matching.Ingredient `json:"ingredients" yaml:"ingredients"`
	Aliases     map[string]string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Recipes     []RecipeRecord        `json:"recipes" yaml:"recipes"`
}

// Catalog 已統一識別碼的目錄快照，建立後不再修改
type Catalog struct {
	Version     string
	Ingredients []matching.Ingredient
	Recipes     []matching.Recipe
	Slugs       map[string]string

	names    map[matching.IngredientID]string
	resolver *Resolver
}

// Name 取得食材顯示名稱，找不到時回傳識別碼本身
func (c *Catalog) Name(id matching.IngredientID) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	return string(id)
}

// Has 目錄中是否有此食材
func (c *Catalog) Has(id matching.IngredientID) bool {
	_, ok := c.names[id]
	return ok
}

// ResolveOwned 把使用者提供的識別碼統一為目錄使用的標準識別碼
func (c *Catalog) ResolveOwned(raw []string) []matching.IngredientID {
	resolver := c.resolver
	if resolver == nil {
		resolver = NewResolver(c.Ingredients, nil, nil)
	}
	return resolver.ResolveAll(raw)
}

// BuildOptions 建立目錄時的額外設定
type BuildOptions struct {
	Aliases map[string]string
	Brands  []string
}

// Build 解析原始目錄中的所有識別碼並產生快照
func Build(doc *Document, opts BuildOptions) *Catalog {
	aliases := make(map[string]string, len(doc.Aliases)+len(opts.Aliases))
	for k, v := range doc.Aliases {
		aliases[k] = v
	}
	for k, v := range opts.Aliases {
		aliases[k] = v
	}
	resolver := NewResolver(doc.Ingredients, aliases, opts.Brands)

	c := &Catalog{
		Ingredients: make([]matching.Ingredient, 0, len(doc.Ingredients)),
		Recipes:     make([]matching.Recipe, 0, len(doc.Recipes)),
		Slugs:       assignSlugs(doc.Recipes),
		names:       make(map[matching.IngredientID]string),
		resolver:    resolver,
	}

	for _, ing := range doc.Ingredients {
		id := resolver.Resolve(string(ing.ID))
		if id == "" {
			id = resolver.Resolve(ing.Name)
		}
		if id == "" {
			continue
		}
		if _, dup := c.names[id]; dup {
			continue
		}
		c.names[id] = ing.Name
		c.Ingredients = append(c.Ingredients, matching.Ingredient{ID: id, Name: ing.Name})
	}

	for _, r := range doc.Recipes {
		recipe := matching.Recipe{
			ID:          r.ID,
			Name:        r.Name,
			Ingredients: make([]matching.IngredientRef, 0, len(r.Lines)),
		}
		for _, line := range r.Lines {
			recipe.Ingredients = append(recipe.Ingredients, c.resolveLine(resolver, line))
		}
		c.Recipes = append(c.Recipes, recipe)
	}

	c.Version = doc.Version
	if c.Version == "" {
		c.Version = contentVersion(c)
	}
	return c
}

// resolveLine 已知的識別碼優先，其次已知的名稱，都查無時才由識別碼或名稱產生；已知食材使用目錄名稱
func (c *Catalog) resolveLine(resolver *Resolver, line LineRecord) matching.IngredientRef {
	if line.Name == "" && line.IngredientID == "" && line.Text != "" {
		parsed := ParseLine(line.Text)
		line.Name = parsed.Name
		line.IsOptional = line.IsOptional || parsed.IsOptional
	}

	// 未知的舊版識別碼不能蓋過已知的食材名稱
	id := resolver.Known(line.IngredientID)
	if id == "" {
		id = resolver.Known(line.Name)
	}
	if id == "" {
		if line.IngredientID != "" {
			id = resolver.Resolve(line.IngredientID)
		} else {
			id = resolver.Resolve(line.Name)
		}
	}

	name := line.Name
	if known, ok := c.names[id]; ok {
		name = known
	}
	if name == "" {
		name = string(id)
	}
	if id != "" {
		if _, ok := c.names[id]; !ok {
			c.names[id] = name
		}
	}

	return matching.IngredientRef{
		IngredientID: id,
		Name:         name,
		IsOptional:   line.IsOptional,
	}
}

// contentVersion 以內容雜湊作為版本
func contentVersion(c *Catalog) string {
	data, err := json.Marshal(struct {
		Ingredients []matching.Ingredient `json:"ingredients"`
		Recipes     []matching.Recipe     `json:"recipes"`
	}{c.Ingredients, c.Recipes})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
