// Package grouping merges near-duplicate variant names into master products.
// Groupers are pure: the same input order always yields the same output.
package grouping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

// Strategy names a grouping algorithm
type Strategy string

const (
	// StrategyPrefixMerge shrinks a seed's name to the common word prefix of each joining candidate
	StrategyPrefixMerge Strategy = "prefix-merge"
	// StrategySimilarityClass groups by common leading words within a first-three-words class
	StrategySimilarityClass Strategy = "similarity-class"

	DefaultStrategy = StrategyPrefixMerge
)

// MinPrefixLength is the shortest common prefix, in characters, that may name a group
const MinPrefixLength = 3

// Grouper partitions mapped variants into master products
type Grouper interface {
	Strategy() Strategy
	Group(variants []models.Variant) []models.MasterProduct
}

// ParseStrategy accepts a strategy name or its letter alias; "" is the default
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultStrategy, nil
	case string(StrategyPrefixMerge), "a":
		return StrategyPrefixMerge, nil
	case string(StrategySimilarityClass), "b":
		return StrategySimilarityClass, nil
	}
	return "", fmt.Errorf("unknown grouping strategy %q", s)
}

// New returns the grouper for a strategy
func New(strategy Strategy) (Grouper, error) {
	switch strategy {
	case StrategyPrefixMerge, "":
		return &PrefixMerge{MinPrefix: MinPrefixLength}, nil
	case StrategySimilarityClass:
		return &SimilarityClass{}, nil
	}
	return nil, fmt.Errorf("unknown grouping strategy %q", strategy)
}

// buildMaster assembles a master from its members. The first prefixWords words
// of each member name form the master name; the rest becomes the variant label.
func buildMaster(name string, prefixWords int, members []models.Variant) models.MasterProduct {
	master := models.MasterProduct{
		Name:     name,
		Source:   models.SourceExcel,
		Variants: make([]models.Variant, len(members)),
	}

	total := decimal.Zero
	for i, member := range members {
		total = total.Add(member.Price)
		if master.Category == nil && member.Category != nil {
			category := *member.Category
			master.Category = &category
		}

		v := member
		if label := stripLeadingWords(member.Name, prefixWords); label != "" {
			v.Name = label
		}
		group := name
		v.VariantGroup = &group
		master.Variants[i] = v
	}
	if len(members) > 0 {
		master.BasePrice = total.Div(decimal.NewFromInt(int64(len(members)))).Round(2)
	}
	return master
}

func words(name string) []string {
	return strings.Split(strings.TrimSpace(name), " ")
}

func stripLeadingWords(name string, n int) string {
	w := words(name)
	if n >= len(w) {
		return ""
	}
	return strings.TrimSpace(strings.Join(w[n:], " "))
}

func wordCount(prefix string) int {
	if prefix == "" {
		return 0
	}
	return len(words(prefix))
}
