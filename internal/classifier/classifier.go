// Package classifier derives category, subcategory and brand from product
// names with ordered pattern rules. A miss is never an error.
package classifier

import (
	"regexp"
	"strings"
)

// FallbackCategory is assigned when no category rule matches
const FallbackCategory = "Other"

// Result is the outcome of classifying one product
type Result struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

// Classifier evaluates category and brand rule lists
type Classifier struct {
	categories []CategoryRule
	brands     []BrandRule
}

// New creates a classifier over the given rule lists, evaluated in order
func New(categories []CategoryRule, brands []BrandRule) *Classifier {
	return &Classifier{categories: categories, brands: brands}
}

var defaultClassifier = New(DefaultCategoryRules, DefaultBrandRules)

// Default returns the classifier built from the default rule lists
func Default() *Classifier {
	return defaultClassifier
}

// Classify classifies with the default rules
func Classify(name, supplier string) Result {
	return defaultClassifier.Classify(name, supplier)
}

// Classify returns the category, subcategory and brand for a product
func (c *Classifier) Classify(name, supplier string) Result {
	cat, sub := c.Category(name)
	return Result{Category: cat, Subcategory: sub, Brand: c.Brand(name, supplier)}
}

// Category returns the first matching category rule, or FallbackCategory
func (c *Classifier) Category(name string) (string, string) {
	for _, rule := range c.categories {
		if rule.Pattern.MatchString(name) {
			return rule.Category, rule.Subcategory
		}
	}
	return FallbackCategory, ""
}

// Brand checks the trailing " - " segment of the name first, then the whole
// name, and falls back to the supplier as given.
func (c *Classifier) Brand(name, supplier string) string {
	if segment, ok := trailingSegment(name); ok {
		if b, ok := c.matchBrand(segment); ok {
			return b
		}
	}
	if b, ok := c.matchBrand(name); ok {
		return b
	}
	return supplier
}

func (c *Classifier) matchBrand(s string) (string, bool) {
	for _, rule := range c.brands {
		if rule.Pattern.MatchString(s) {
			return rule.Brand, true
		}
	}
	return "", false
}

var segmentSeparators = []string{" - ", " – ", " — "}

func trailingSegment(name string) (string, bool) {
	cut := -1
	width := 0
	for _, sep := range segmentSeparators {
		if i := strings.LastIndex(name, sep); i > cut {
			cut, width = i, len(sep)
		}
	}
	if cut < 0 {
		return "", false
	}
	return strings.TrimSpace(name[cut+width:]), true
}

var brandSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[-–—|]\s*(art supplies|künstlerbedarf|kuenstlerbedarf|official store|official)$`),
	regexp.MustCompile(`(?i)\s+(gmbh\s*&\s*co\.?\s*kg|gmbh|ag|kg|ltd\.?|inc\.?|llc|s\.?a\.?s?)$`),
	regexp.MustCompile(`\s*[-–—|,]+$`),
}

// CleanBrandName strips boilerplate suffixes such as "- Art Supplies" or
// "GmbH" until nothing changes, and collapses whitespace. If stripping would
// leave nothing, the whitespace-collapsed input is returned instead.
func CleanBrandName(s string) string {
	original := collapseSpaces(s)
	cleaned := original
	for {
		next := cleaned
		for _, re := range brandSuffixes {
			next = collapseSpaces(re.ReplaceAllString(next, ""))
		}
		if next == cleaned {
			break
		}
		cleaned = next
	}
	if cleaned == "" {
		return original
	}
	return cleaned
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
