package catalog

import (
	"regexp"
	"strings"
)

var (
	slugStripPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparatorRegexp = regexp.MustCompile(`[\s_]+`)
	slugSafePattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// CreateSlug 將名稱轉為網址安全的 slug
func CreateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugSeparatorRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// IsURLSafe 檢查 slug 是否只包含小寫字母、數字與連字號
func IsURLSafe(slug string) bool {
	return slugSafePattern.MatchString(slug)
}

// assignSlugs 補上缺少的 slug，重複的 slug 會加上 "-<id>"
func assignSlugs(records []RecipeRecord) map[string]string {
	slugs := make(map[string]string, len(records))
	seen := make(map[string]string, len(records))
	for _, r := range records {
		slug := r.effectiveSlug()
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			slug = slug + "-" + CreateSlug(r.ID)
		}
		seen[slug] = r.ID
		slugs[r.ID] = slug
	}
	return slugs
}
