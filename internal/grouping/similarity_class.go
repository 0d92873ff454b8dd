package grouping

import (
	"strings"

	"catalog-service/internal/models"
)

// ClassKeyWords is how many leading words define a similarity class
const ClassKeyWords = 3

// SimilarityClass is the legacy grouping. For each variant, its class is every
// variant whose lower-cased name starts with the variant's first three words
// (fewer for shorter names). The master name is the run of leading words the
// whole class shares, compared case-insensitively. A variant whose class has
// no other member, or shares no leading word, is left out of every group.
type SimilarityClass struct{}

func (g *SimilarityClass) Strategy() Strategy { return StrategySimilarityClass }

func (g *SimilarityClass) Group(variants []models.Variant) []models.MasterProduct {
	lowered := make([]string, len(variants))
	for i, v := range variants {
		lowered[i] = strings.ToLower(strings.TrimSpace(v.Name))
	}

	type bucket struct {
		name    string
		words   int
		members []models.Variant
	}
	var buckets []*bucket
	index := make(map[string]*bucket)

	for i, v := range variants {
		key := leadingWords(lowered[i], ClassKeyWords)
		class := []string{v.Name}
		for j := range variants {
			if j != i && strings.HasPrefix(lowered[j], key) {
				class = append(class, variants[j].Name)
			}
		}
		if len(class) < 2 {
			continue
		}

		prefix := commonLeadingWords(class)
		if prefix == "" {
			continue
		}
		k := strings.ToLower(prefix)
		b, ok := index[k]
		if !ok {
			b = &bucket{name: prefix, words: wordCount(prefix)}
			index[k] = b
			buckets = append(buckets, b)
		}
		b.members = append(b.members, v)
	}

	masters := make([]models.MasterProduct, 0, len(buckets))
	for _, b := range buckets {
		masters = append(masters, buildMaster(b.name, b.words, b.members))
	}
	return masters
}

func leadingWords(name string, n int) string {
	w := words(name)
	if len(w) > n {
		w = w[:n]
	}
	return strings.Join(w, " ")
}

// commonLeadingWords keeps the casing of the first name
func commonLeadingWords(names []string) string {
	first := words(names[0])
	n := len(first)
	for _, name := range names[1:] {
		w := words(name)
		m := 0
		for m < n && m < len(w) && strings.EqualFold(first[m], w[m]) {
			m++
		}
		n = m
	}
	return strings.TrimSpace(strings.Join(first[:n], " "))
}
