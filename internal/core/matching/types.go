package matching

import "sort"

// IngredientID 標準化後的食材識別碼，核心不解析其格式
type IngredientID string

// Ingredient 食材
type Ingredient struct {
	ID   IngredientID `json:"id" yaml:"id"`
	Name string       `json:"name" yaml:"name"`
}

// IngredientRef 酒譜中的一行食材
type IngredientRef struct {
	IngredientID IngredientID `json:"ingredient_id" yaml:"ingredient_id"`
	Name         string       `json:"name" yaml:"name"`
	IsOptional   bool         `json:"is_optional,omitempty" yaml:"is_optional,omitempty"`
}

// Recipe 酒譜
type Recipe struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Ingredients []IngredientRef `json:"ingredients" yaml:"ingredients"`
}

// IDSet 食材識別碼集合
type IDSet map[IngredientID]struct{}

// NewIDSet 由識別碼建立集合，空字串會被忽略
func NewIDSet(ids ...IngredientID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Has 檢查集合是否包含識別碼，nil 集合視為空集合
func (s IDSet) Has(id IngredientID) bool {
	_, ok := s[id]
	return ok
}

// Len 集合大小
func (s IDSet) Len() int {
	return len(s)
}

// Sorted 依字典序回傳集合內容
func (s IDSet) Sorted() []IngredientID {
	out := make([]IngredientID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MatchResult 單一酒譜的比對結果
type MatchResult struct {
	Recipe               Recipe         `json:"recipe" yaml:"recipe"`
	RequiredTotal        int            `json:"required_total" yaml:"required_total"`
	RequiredCovered      int            `json:"required_covered" yaml:"required_covered"`
	MissingRequiredIDs   []IngredientID `json:"missing_required_ids" yaml:"missing_required_ids"`
	MissingRequiredNames []string       `json:"missing_required_names" yaml:"missing_required_names"`
	MissingCount         int            `json:"missing_count" yaml:"missing_count"`
	MatchFraction        float64        `json:"match_fraction" yaml:"match_fraction"`
}

// Groups 三個就緒分級
type Groups struct {
	Ready       []MatchResult `json:"ready" yaml:"ready"`
	AlmostThere []MatchResult `json:"almost_there" yaml:"almost_there"`
	Far         []MatchResult `json:"far" yaml:"far"`
}

// Total 分級內的酒譜總數
func (g Groups) Total() int {
	return len(g.Ready) + len(g.AlmostThere) + len(g.Far)
}

// Candidate 建議購買的食材
type Candidate struct {
	IngredientID      IngredientID `json:"ingredient_id" yaml:"ingredient_id"`
	UnlockScore       int          `json:"unlock_score" yaml:"unlock_score"`
	UnlocksAtMissing1 int          `json:"unlocks_at_missing_1" yaml:"unlocks_at_missing_1"`
	UnlocksAtMissing2 int          `json:"unlocks_at_missing_2" yaml:"unlocks_at_missing_2"`
}
