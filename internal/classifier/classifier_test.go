package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		subcategory string
	}{
		{"Watercolor Brush Round No. 4", "Brushes", "Watercolor Brushes"},
		{"da Vinci Aquarellpinsel Serie 36", "Brushes", "Watercolor Brushes"},
		{"Synthetic Brush Flat 12", "Brushes", ""},
		{"Aquarellpapier 300g A4", "Paper", "Watercolor Paper"},
		{"Watercolour pad 24x32", "Paper", "Watercolor Paper"},
		{"Schmincke Horadam Aquarell 1/2 Näpfchen", "Paints", "Watercolor"},
		{"Ölfarbe Titanweiß 200ml", "Paints", "Oil"},
		{"Acrylic Medium Gloss", "Mediums", ""},
		{"Liquitex Heavy Body Acrylic 59ml", "Paints", "Acrylic"},
		{"Blue Paint 10ml", "Paints", ""},
		{"Palette Knife No. 5", "Accessories", "Palette Knives"},
		{"Porcelain Palette 10 wells", "Accessories", "Palettes"},
		{"Keilrahmen 30x40 cm", "Canvas & Boards", "Canvas"},
		{"Colored Pencils Set 24", "Drawing", "Colored Pencils"},
		{"Bleistift HB", "Drawing", "Graphite Pencils"},
		{"Soft Pastels 12er", "Drawing", "Pastels"},
		{"Gift Voucher", FallbackCategory, ""},
	}
	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, sub := c.Category(tt.name)
			assert.Equal(t, tt.category, cat)
			assert.Equal(t, tt.subcategory, sub)
		})
	}
}

func TestCategory_SpecificRulesPrecedeParents(t *testing.T) {
	// "watercolor brush" must not be swallowed by the watercolor paint rule
	// or by the generic brush rule
	cat, sub := Default().Category("Watercolor Brush")
	assert.Equal(t, "Brushes", cat)
	assert.Equal(t, "Watercolor Brushes", sub)
}

func TestCategory_CustomRulesFirstMatchWins(t *testing.T) {
	c := New([]CategoryRule{
		category(`paint`, "First", ""),
		category(`blue paint`, "Second", ""),
	}, nil)

	cat, _ := c.Category("Blue Paint")
	assert.Equal(t, "First", cat)
}

func TestBrand(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		supplier string
		want     string
	}{
		{"trailing segment", "Aquarellfarbe Ultramarin - Winsor & Newton", "Art Depot", "Winsor & Newton"},
		{"trailing segment beats whole name", "Rembrandt Soft Pastel – Royal Talens", "", "Royal Talens"},
		{"whole name", "Faber-Castell Polychromos 24er", "Art Depot", "Faber-Castell"},
		{"whole name when segment unknown", "Schmincke Horadam - Sonderedition", "", "Schmincke"},
		{"supplier fallback", "Keilrahmen 30x40", "Boesner GmbH", "Boesner GmbH"},
		{"no brand at all", "Keilrahmen 30x40", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default().Brand(tt.product, tt.supplier))
		})
	}
}

func TestClassify(t *testing.T) {
	r := Classify("Da Vinci Fan Brush 4", "Importer Ltd")
	assert.Equal(t, Result{Category: "Brushes", Subcategory: "Fan Brushes", Brand: "da Vinci"}, r)
}

func TestCleanBrandName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Winsor & Newton – Art Supplies", "Winsor & Newton"},
		{"Schmincke - Art Supplies", "Schmincke"},
		{"Boesner GmbH", "Boesner"},
		{"Lukas  Künstlerfarben   GmbH & Co. KG", "Lukas Künstlerfarben"},
		{"Foo Ltd - Art Supplies", "Foo"},
		{"  Staedtler  ", "Staedtler"},
		{"- Art Supplies", "- Art Supplies"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanBrandName(tt.in))
		})
	}
}

func TestCleanBrandName_Idempotent(t *testing.T) {
	inputs := []string{
		"Winsor & Newton – Art Supplies",
		"Foo Ltd - Art Supplies GmbH",
		"GmbH",
		"- Art Supplies",
		"Royal   Talens -",
		"AG",
		"Caran d'Ache | Official Store",
	}
	for _, in := range inputs {
		once := CleanBrandName(in)
		assert.Equal(t, once, CleanBrandName(once), in)
	}
}
