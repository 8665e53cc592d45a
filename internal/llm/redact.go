package llm

import (
	"sort"
	"strings"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Mask replaces identifier values in prompts and generated text
const Mask = "***"

var contactCategories = []model.Category{
	model.CategoryEmail,
	model.CategoryPhone,
	model.CategoryPostal,
}

// ProtectedValues returns the contact identifier values found in result
func ProtectedValues(result model.Result) []string {
	var values []string
	for _, category := range contactCategories {
		values = append(values, result[category].Strings()...)
	}
	return values
}

// maskContacts returns a copy of result whose contact values are masked
func maskContacts(result model.Result) model.Result {
	masked := make(model.Result, len(result))
	for category, bucket := range result {
		masked[category] = bucket
	}
	for _, category := range contactCategories {
		bucket, ok := result[category]
		if !ok {
			continue
		}
		values := make([]string, bucket.Count())
		for i := range values {
			values[i] = Mask
		}
		masked[category] = model.StringBucket(values)
	}
	return masked
}

// Redact masks every protected value (and its digits-only form) that appears
// in text. It returns the masked text and the number of replacements.
func Redact(text string, protected []string) (string, int) {
	var needles []string
	seen := make(map[string]bool)
	for _, v := range protected {
		for _, n := range []string{v, digitsOnly(v)} {
			if len(n) < 4 || seen[n] {
				continue
			}
			seen[n] = true
			needles = append(needles, n)
		}
	}
	// Longest first so a full number is masked before its digit run
	sort.Slice(needles, func(i, j int) bool { return len(needles[i]) > len(needles[j]) })

	count := 0
	for _, n := range needles {
		if c := strings.Count(text, n); c > 0 {
			count += c
			text = strings.ReplaceAll(text, n, Mask)
		}
	}
	return text, count
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
