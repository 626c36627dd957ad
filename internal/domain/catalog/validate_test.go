package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() *Product {
	return &Product{
		Name:       "Espresso Beans",
		UnitPrice:  decimal.RequireFromString("12.50"),
		Inventory:  10,
		CategoryID: 1,
	}
}

func TestCategoryValidate(t *testing.T) {
	c := &Category{Title: "Coffee"}
	require.NoError(t, c.Validate())

	c.Title = "ab"
	var vErr *ValidationError
	require.ErrorAs(t, c.Validate(), &vErr)
	assert.Equal(t, "title", vErr.Field)

	// Whitespace padding does not count toward the minimum.
	c.Title = "  a  "
	require.ErrorAs(t, c.Validate(), &vErr)
}

func TestProductValidate(t *testing.T) {
	require.NoError(t, validProduct().Validate())

	tests := []struct {
		name   string
		mutate func(*Product)
		field  string
	}{
		{"short name", func(p *Product) { p.Name = "Mug" }, "name"},
		{"negative price", func(p *Product) { p.UnitPrice = decimal.RequireFromString("-1.00") }, "unit_price"},
		{"negative inventory", func(p *Product) { p.Inventory = -1 }, "inventory"},
		{"missing category", func(p *Product) { p.CategoryID = 0 }, "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)

			var vErr *ValidationError
			require.ErrorAs(t, p.Validate(), &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCommentValidate(t *testing.T) {
	c := &Comment{Name: "Sam", Body: "Great beans."}
	require.NoError(t, c.Validate())

	var vErr *ValidationError
	require.ErrorAs(t, (&Comment{Body: "x"}).Validate(), &vErr)
	assert.Equal(t, "name", vErr.Field)

	require.ErrorAs(t, (&Comment{Name: "Sam", Body: "   "}).Validate(), &vErr)
	assert.Equal(t, "body", vErr.Field)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Espresso Beans", "espresso-beans"},
		{"Earl Grey (Loose Leaf)", "earl-grey-loose-leaf"},
		{"  padded  name  ", "padded-name"},
		{"UPPER", "upper"},
		{"100% Arabica", "100-arabica"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
