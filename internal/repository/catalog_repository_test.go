package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"catalog-service/internal/models"
)

func TestCondition(t *testing.T) {
	expr, err := condition(models.TableVariants, models.SourcePredicate(models.SourceExcel))
	require.NoError(t, err)
	assert.Equal(t, clause.Eq{Column: clause.Column{Name: "source"}, Value: models.SourceExcel}, expr)

	_, err = condition(models.TableVariants, models.Predicate{Column: "price; DROP TABLE x", Value: 1})
	assert.ErrorIs(t, err, ErrColumnNotFilterable)

	_, err = condition(models.TableMasterProducts, models.Predicate{Column: "article_number", Value: "A-1"})
	assert.ErrorIs(t, err, ErrColumnNotFilterable)
}

func TestModelFor(t *testing.T) {
	m, err := modelFor(models.TableMasterProducts)
	require.NoError(t, err)
	assert.IsType(t, &models.MasterProduct{}, m)

	_, err = modelFor("users")
	assert.Error(t, err)
}

func TestDedupeByArticleNumber(t *testing.T) {
	in := []*models.Variant{
		{ArticleNumber: "A-1", Name: "first"},
		{ArticleNumber: "A-2", Name: "other"},
		{ArticleNumber: "A-1", Name: "second"},
	}

	out := dedupeByArticleNumber(in)

	require.Len(t, out, 2)
	assert.Equal(t, "other", out[0].Name)
	assert.Equal(t, "second", out[1].Name)
}
