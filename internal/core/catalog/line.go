package catalog

import (
	"regexp"
	"strings"
)

var (
	optionalSuffix = regexp.MustCompile(`(?i)\s*\((optional|opt\.?)\)\s*$`)
	amountPattern  = regexp.MustCompile(`^(\d+([./]\d+)?|\d+-\d+|[¼½¾⅓⅔⅛])$`)
	letterPattern  = regexp.MustCompile(`[a-zA-Z]`)

	// 數量後面的單位
	units = map[string]struct{}{
		"oz": {}, "ounce": {}, "ounces": {}, "ml": {}, "cl": {}, "l": {},
		"tsp": {}, "tbsp": {}, "teaspoon": {}, "teaspoons": {}, "tablespoon": {}, "tablespoons": {},
		"cup": {}, "cups": {}, "part": {}, "parts": {}, "barspoon": {}, "barspoons": {},
		"dash": {}, "dashes": {}, "drop": {}, "drops": {}, "splash": {}, "splashes": {},
		"slice": {}, "slices": {}, "wedge": {}, "wedges": {}, "sprig": {}, "sprigs": {},
		"leaf": {}, "leaves": {}, "pinch": {}, "shot": {}, "shots": {}, "jigger": {},
	}

	// 可以不帶數字直接出現在開頭的量詞
	wordAmounts = map[string]struct{}{
		"dash": {}, "dashes": {}, "splash": {}, "pinch": {}, "top": {}, "float": {}, "few": {}, "some": {},
	}

	fillers = map[string]struct{}{"of": {}, "with": {}}
)

// ParseLine 解析上游格式的食材行，例如 "2 oz gin" 或 "Dash bitters (optional)"
func ParseLine(text string) LineRecord {
	line := LineRecord{Text: strings.TrimSpace(text)}
	body := line.Text
	if loc := optionalSuffix.FindStringIndex(body); loc != nil {
		line.IsOptional = true
		body = body[:loc[0]]
	}

	fields := strings.Fields(body)
	i := 0
	for i < len(fields) && amountPattern.MatchString(fields[i]) {
		i++
	}
	if i > 0 {
		if i < len(fields)-1 {
			if _, ok := units[strings.ToLower(strings.TrimSuffix(fields[i], "."))]; ok {
				i++
			}
		}
	} else if len(fields) > 1 {
		if _, ok := wordAmounts[strings.ToLower(fields[0])]; ok {
			i = 1
		}
	}
	if i > 0 && i < len(fields)-1 {
		if _, ok := fillers[strings.ToLower(fields[i])]; ok {
			i++
		}
	}

	line.Name = strings.Join(fields[i:], " ")
	return line
}

// ValidateLineText 檢查單一食材行的格式，合法時回傳空字串
func ValidateLineText(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "empty ingredient"
	case strings.Contains(text, "???"):
		return "contains '???'"
	case text == "null" || text == "None":
		return "invalid null value"
	case len([]rune(text)) < 2:
		return "too short"
	case strings.Contains(text, "|"):
		return "contains pipe character (should be split)"
	case !letterPattern.MatchString(text):
		return "no ingredient name found"
	}
	return ""
}
