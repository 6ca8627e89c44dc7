// Package matching 依持有食材將酒譜分級，並建議下一個值得購買的食材。
// 套件內皆為純函式：不做 I/O、不記錄日誌、不快取，也不修改呼叫者傳入的資料。
package matching

import "sort"

// Classify 將酒譜分為 ready / almost-there / far 三級。
// 沒有必需食材的酒譜不會出現在任何分級中。
func Classify(recipes []Recipe, owned, staples IDSet, maxMissing int) (Groups, error) {
	groups := Groups{
		Ready:       []MatchResult{},
		AlmostThere: []MatchResult{},
		Far:         []MatchResult{},
	}
	if err := validateMaxMissing(maxMissing); err != nil {
		return groups, err
	}

	for _, recipe := range recipes {
		result, ok := matchRecipe(recipe, owned, staples)
		if !ok {
			continue
		}

		switch {
		case result.MissingCount == 0:
			groups.Ready = append(groups.Ready, result)
		case result.MissingCount <= maxMissing:
			groups.AlmostThere = append(groups.AlmostThere, result)
		default:
			groups.Far = append(groups.Far, result)
		}
	}

	sortReady(groups.Ready)
	sortAlmostThere(groups.AlmostThere)
	sortFar(groups.Far)

	return groups, nil
}

// matchRecipe 計算單一酒譜的比對結果，沒有必需食材時回傳 false
func matchRecipe(recipe Recipe, owned, staples IDSet) (MatchResult, bool) {
	gap := ComputeRequiredGap(recipe, owned, staples)
	if gap.RequiredTotal == 0 {
		return MatchResult{}, false
	}

	covered := len(gap.Covered)
	return MatchResult{
		Recipe:               recipe,
		RequiredTotal:        gap.RequiredTotal,
		RequiredCovered:      covered,
		MissingRequiredIDs:   gap.MissingIDs(),
		MissingRequiredNames: gap.MissingNames(),
		MissingCount:         gap.MissingCount(),
		MatchFraction:        float64(covered) / float64(gap.RequiredTotal),
	}, true
}

// sortReady 比例高者優先，其次必需食材少者優先，同分保持目錄順序
func sortReady(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchFraction != b.MatchFraction {
			return a.MatchFraction > b.MatchFraction
		}
		return a.RequiredTotal < b.RequiredTotal
	})
}

// sortAlmostThere 缺少數少者優先，其次比例高者，最後依名稱
func sortAlmostThere(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MissingCount != b.MissingCount {
			return a.MissingCount < b.MissingCount
		}
		if a.MatchFraction != b.MatchFraction {
			return a.MatchFraction > b.MatchFraction
		}
		return a.Recipe.Name < b.Recipe.Name
	})
}

// sortFar 比例高者優先，其次依名稱
func sortFar(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchFraction != b.MatchFraction {
			return a.MatchFraction > b.MatchFraction
		}
		return a.Recipe.Name < b.Recipe.Name
	})
}
