package matching

import "sort"

const (
	// weightCompletes 單一缺少食材即可完成酒譜
	weightCompletes = 3
	// weightAdvances 買了之後仍缺其他食材
	weightAdvances = 1
)

// SuggestNextIngredients 依解鎖分數排序建議購買的食材。
// 只有缺少數介於 1 與 maxMissing 之間的酒譜會貢獻分數；缺 1 個的權重為 3，其餘為 1。
// 持有集合為空時沒有「接近完成」的酒譜，回傳空清單。
func SuggestNextIngredients(recipes []Recipe, owned, staples IDSet, maxMissing, limit int) ([]Candidate, error) {
	if err := validateMaxMissing(maxMissing); err != nil {
		return []Candidate{}, err
	}
	if err := validateLimit(limit); err != nil {
		return []Candidate{}, err
	}
	if limit == 0 || len(recipes) == 0 || owned.Len() == 0 {
		return []Candidate{}, nil
	}

	scores := make(map[IngredientID]*Candidate)
	for _, recipe := range recipes {
		gap := ComputeRequiredGap(recipe, owned, staples)
		missing := gap.MissingCount()
		if missing < 1 || missing > maxMissing {
			continue
		}

		weight := weightAdvances
		if missing == 1 {
			weight = weightCompletes
		}

		for _, ref := range gap.Missing {
			c, ok := scores[ref.IngredientID]
			if !ok {
				c = &Candidate{IngredientID: ref.IngredientID}
				scores[ref.IngredientID] = c
			}
			c.UnlockScore += weight
			switch missing {
			case 1:
				c.UnlocksAtMissing1++
			case 2:
				c.UnlocksAtMissing2++
			}
		}
	}

	candidates := make([]Candidate, 0, len(scores))
	for _, c := range scores {
		candidates = append(candidates, *c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.UnlockScore != b.UnlockScore {
			return a.UnlockScore > b.UnlockScore
		}
		if a.UnlocksAtMissing1 != b.UnlocksAtMissing1 {
			return a.UnlocksAtMissing1 > b.UnlocksAtMissing1
		}
		return a.IngredientID < b.IngredientID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
