package matching

// Gap 酒譜必需食材與持有集合之間的差距
type Gap struct {
	RequiredTotal int
	Covered       []IngredientID
	Missing       []IngredientRef
}

// MissingCount 缺少的必需食材數
func (g Gap) MissingCount() int {
	return len(g.Missing)
}

// MissingIDs 缺少食材的識別碼，依酒譜順序
func (g Gap) MissingIDs() []IngredientID {
	ids := make([]IngredientID, len(g.Missing))
	for i, ref := range g.Missing {
		ids[i] = ref.IngredientID
	}
	return ids
}

// MissingNames 缺少食材的名稱，依酒譜順序
func (g Gap) MissingNames() []string {
	names := make([]string, len(g.Missing))
	for i, ref := range g.Missing {
		names[i] = ref.Name
	}
	return names
}

// ComputeRequiredGap 計算酒譜的必需食材差距，分類與建議都經由此函式判斷「缺少」。
// 必需食材為非選用、識別碼非空且不在常備集合中的食材行；同一識別碼只計算第一次出現。
func ComputeRequiredGap(recipe Recipe, owned, staples IDSet) Gap {
	var gap Gap
	if len(recipe.Ingredients) == 0 {
		return gap
	}

	seen := make(map[IngredientID]struct{}, len(recipe.Ingredients))
	for _, ref := range recipe.Ingredients {
		if ref.IsOptional || ref.IngredientID == "" || staples.Has(ref.IngredientID) {
			continue
		}
		if _, dup := seen[ref.IngredientID]; dup {
			continue
		}
		seen[ref.IngredientID] = struct{}{}

		gap.RequiredTotal++
		if owned.Has(ref.IngredientID) {
			gap.Covered = append(gap.Covered, ref.IngredientID)
		} else {
			gap.Missing = append(gap.Missing, ref)
		}
	}
	return gap
}
