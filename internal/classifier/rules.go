package classifier

import "regexp"

// CategoryRule assigns a category and optional subcategory to names matching Pattern
type CategoryRule struct {
	Pattern     *regexp.Regexp
	Category    string
	Subcategory string
}

// BrandRule assigns a canonical brand to names matching Pattern
type BrandRule struct {
	Pattern *regexp.Regexp
	Brand   string
}

func category(pattern, cat, sub string) CategoryRule {
	return CategoryRule{Pattern: regexp.MustCompile(`(?i)` + pattern), Category: cat, Subcategory: sub}
}

func brand(pattern, name string) BrandRule {
	return BrandRule{Pattern: regexp.MustCompile(`(?i)` + pattern), Brand: name}
}

// DefaultCategoryRules is evaluated in order; the first match wins. Multi-word
// patterns precede the single-word parents they would otherwise lose to.
var DefaultCategoryRules = []CategoryRule{
	// brushes
	category(`watercolou?r brush|aquarellpinsel`, "Brushes", "Watercolor Brushes"),
	category(`oil brush|ölpinsel|borstenpinsel`, "Brushes", "Oil Brushes"),
	category(`acrylic brush|acrylpinsel`, "Brushes", "Acrylic Brushes"),
	category(`fan brush|fächerpinsel`, "Brushes", "Fan Brushes"),
	category(`\bbrush(es)?\b|pinsel`, "Brushes", ""),

	// paper and surfaces
	category(`watercolou?r (paper|pad|block)|aquarell(papier|block)`, "Paper", "Watercolor Paper"),
	category(`sketch ?(book|pad)|skizzen(buch|block)`, "Paper", "Sketchbooks"),
	category(`\bcanvas\b|leinwand|keilrahmen`, "Canvas & Boards", "Canvas"),
	category(`painting board|malpappe|malplatte`, "Canvas & Boards", "Boards"),
	category(`\bpaper\b|papier|zeichenblock`, "Paper", ""),

	// accessories that share words with paints
	category(`palette knife|malmesser|spachtel`, "Accessories", "Palette Knives"),
	category(`\bpalettes?\b|mischpalette`, "Accessories", "Palettes"),
	category(`\beasel\b|staffelei`, "Accessories", "Easels"),
	category(`\beraser\b|radiergummi|radierer`, "Accessories", "Erasers"),
	category(`\bsharpener\b|spitzer`, "Accessories", "Sharpeners"),

	// mediums before paints: "acrylic medium" is not a paint
	category(`\bvarnish\b|firnis`, "Mediums", "Varnishes"),
	category(`\bmedium\b|malmittel|\bgesso\b|grundierung`, "Mediums", ""),

	// paints
	category(`watercolou?r|aquarell`, "Paints", "Watercolor"),
	category(`\bacrylics?\b|acrylfarbe|acryl\b`, "Paints", "Acrylic"),
	category(`oil (paint|colou?r)|ölfarbe`, "Paints", "Oil"),
	category(`\bgouache\b`, "Paints", "Gouache"),
	category(`spray ?paint|sprühfarbe|sprühdose`, "Paints", "Spray"),
	category(`\bink\b|tusche`, "Paints", "Ink"),
	category(`\bpaints?\b|farbe`, "Paints", ""),

	// drawing
	category(`colou?red pencils?|buntstift`, "Drawing", "Colored Pencils"),
	category(`graphite|bleistift`, "Drawing", "Graphite Pencils"),
	category(`charcoal|zeichenkohle|\bkohle\b`, "Drawing", "Charcoal"),
	category(`pastel`, "Drawing", "Pastels"),
	category(`\bmarkers?\b|fineliner|filzstift`, "Drawing", "Markers"),
	category(`\bpencils?\b|\bstift`, "Drawing", ""),
}

// DefaultBrandRules is evaluated in order; the first match wins
var DefaultBrandRules = []BrandRule{
	brand(`winsor\s*(&|and)\s*newton`, "Winsor & Newton"),
	brand(`royal\s+talens`, "Royal Talens"),
	brand(`\brembrandt\b`, "Rembrandt"),
	brand(`van\s+gogh`, "Van Gogh"),
	brand(`faber[\s-]*castell`, "Faber-Castell"),
	brand(`caran\s*d.?ache`, "Caran d'Ache"),
	brand(`\bda\s+vinci\b`, "da Vinci"),
	brand(`\bschmincke\b`, "Schmincke"),
	brand(`\bstaedtler\b`, "Staedtler"),
	brand(`\bliquitex\b`, "Liquitex"),
	brand(`\bsennelier\b`, "Sennelier"),
	brand(`\bderwent\b`, "Derwent"),
	brand(`hahnem(ü|ue|u)hle`, "Hahnemühle"),
	brand(`\bcanson\b`, "Canson"),
	brand(`\bstabilo\b`, "Stabilo"),
	brand(`p[eé]b[eé]o`, "Pébéo"),
	brand(`\blukas\b`, "Lukas"),
	brand(`\bposca\b`, "Posca"),
	brand(`\bcopic\b`, "Copic"),
	brand(`\bescoda\b`, "Escoda"),
	brand(`\bmarabu\b`, "Marabu"),
	brand(`\blascaux\b`, "Lascaux"),
}
