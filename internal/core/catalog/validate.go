package catalog

import (
	"fmt"
	"strings"
)

const (
	minLinesPerRecipe = 2
	maxLinesPerRecipe = 15
)

// Severity 問題嚴重程度
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue 單一驗證問題
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	RecipeID string   `json:"recipe_id,omitempty" yaml:"recipe_id,omitempty"`
	Recipe   string   `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

// Report 目錄驗證結果
type Report struct {
	Recipes     int     `json:"recipes" yaml:"recipes"`
	Lines       int     `json:"lines" yaml:"lines"`
	UniqueSlugs int     `json:"unique_slugs" yaml:"unique_slugs"`
	Issues      []Issue `json:"issues" yaml:"issues"`
}

// Errors 錯誤數
func (r Report) Errors() int {
	return r.count(SeverityError)
}

// Warnings 警告數
func (r Report) Warnings() int {
	return r.count(SeverityWarning)
}

// OK 沒有任何錯誤
func (r Report) OK() bool {
	return r.Errors() == 0
}

func (r Report) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Validate 檢查原始目錄的 slug 與食材行格式，不會修改目錄
func Validate(doc *Document) Report {
	report := Report{Recipes: len(doc.Recipes), Issues: []Issue{}}
	slugCounts := make(map[string]int, len(doc.Recipes))
	var slugOrder []string

	for _, r := range doc.Recipes {
		add := func(sev Severity, line int, format string, args ...interface{}) {
			report.Issues = append(report.Issues, Issue{
				Severity: sev,
				RecipeID: r.ID,
				Recipe:   r.Name,
				Line:     line,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		slug := r.effectiveSlug()
		if slug == "" {
			add(SeverityError, 0, "empty slug for recipe %q", r.Name)
		} else {
			validateSlug(slug, add)
			if slugCounts[slug] == 0 {
				slugOrder = append(slugOrder, slug)
			}
			slugCounts[slug]++
		}

		if len(r.Lines) == 0 {
			add(SeverityError, 0, "no ingredients listed")
			continue
		}
		report.Lines += len(r.Lines)
		for i, line := range r.Lines {
			text := line.Text
			if text == "" {
				text = line.Name
			}
			if text == "" {
				text = line.IngredientID
			}
			if msg := ValidateLineText(text); msg != "" {
				add(SeverityError, i+1, "%s - %q", msg, text)
			}
		}
		if len(r.Lines) < minLinesPerRecipe {
			add(SeverityWarning, 0, "only %d ingredient(s) listed", len(r.Lines))
		}
		if len(r.Lines) > maxLinesPerRecipe {
			add(SeverityWarning, 0, "%d ingredients listed (very complex cocktail)", len(r.Lines))
		}
	}

	report.UniqueSlugs = len(slugCounts)
	for _, slug := range slugOrder {
		if n := slugCounts[slug]; n > 1 {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate slug %q appears %d times", slug, n),
			})
		}
	}
	return report
}

func validateSlug(slug string, add func(Severity, int, string, ...interface{})) {
	if slug != strings.ToLower(slug) {
		add(SeverityError, 0, "slug %q contains uppercase letters", slug)
	}
	if !IsURLSafe(slug) {
		add(SeverityError, 0, "slug %q is not URL-safe (use only lowercase letters, numbers, and hyphens)", slug)
	}
	if strings.Contains(slug, "--") {
		add(SeverityWarning, 0, "slug %q contains consecutive hyphens", slug)
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		add(SeverityError, 0, "slug %q has leading or trailing hyphens", slug)
	}
}
