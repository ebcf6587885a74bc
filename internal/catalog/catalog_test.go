package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svc-forge/internal/model"
)

func TestNormalize_FlattensAllContainers(t *testing.T) {
	plain := []model.Product{
		{ID: "p-soil", Name: "Topsoil Bag", Price: 8},
	}
	tagged := []model.ProductGroup{
		{Tag: "tools", Products: []model.Product{
			{ID: "p-rake", Name: "Rake", Price: 12},
			{ID: "p-shears", Name: "Shears", Price: 18},
		}},
		{Tag: "treatments", Products: []model.Product{
			{ID: "p-feed", Name: "Lawn Feed", Price: 9},
		}},
	}
	untagged := []model.Product{
		{ID: "p-gloves", Name: "Gloves", Price: 5},
	}

	c := Normalize(plain, tagged, untagged)

	assert.Len(t, c.ByID, 5)
	for _, id := range []string{"p-soil", "p-rake", "p-shears", "p-feed", "p-gloves"} {
		_, ok := c.Lookup(id)
		assert.True(t, ok, id)
	}

	// Tagged groups keep their order, then one tagless group for the rest
	require.Len(t, c.Groups, 3)
	assert.Equal(t, "tools", c.Groups[0].Tag)
	assert.Equal(t, "treatments", c.Groups[1].Tag)
	assert.Equal(t, "", c.Groups[2].Tag)
	assert.Len(t, c.Groups[2].Products, 2)

	// Products inherit their group tag
	rake, _ := c.Lookup("p-rake")
	assert.Equal(t, "tools", rake.Tag)
}

func TestNormalize_FirstOccurrenceWins(t *testing.T) {
	tagged := []model.ProductGroup{
		{Tag: "tools", Products: []model.Product{
			{ID: "p-rake", Name: "Rake", Price: 12},
		}},
	}
	plain := []model.Product{
		{ID: "p-rake", Name: "Rake (duplicate)", Price: 99},
	}

	c := Normalize(plain, tagged, nil)

	require.Len(t, c.ByID, 1)
	p, ok := c.Lookup("p-rake")
	require.True(t, ok)
	assert.Equal(t, "Rake", p.Name)
	assert.Equal(t, float64(12), p.Price)

	// The duplicate never produced a second display group
	require.Len(t, c.Groups, 1)
	assert.Equal(t, "tools", c.Groups[0].Tag)
}

func TestNormalize_EmptyContainers(t *testing.T) {
	c := Normalize(nil, nil, nil)
	assert.True(t, c.Empty())
	assert.Empty(t, c.Groups)
}

func testCatalog() model.Catalog {
	return Normalize([]model.Product{
		{ID: "p-rake", Name: "Rake", Price: 12},
		{ID: "p-feed", Name: "Lawn Feed", Price: 9},
		{ID: "p-gloves", Name: "Gloves", Price: 5},
	}, nil, nil)
}

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection(testCatalog())

	require.NoError(t, sel.Toggle("p-rake"))
	assert.Equal(t, 1, sel.Quantity("p-rake"))
	assert.Equal(t, 1, sel.Len())

	// Toggling again removes the entry entirely
	require.NoError(t, sel.Toggle("p-rake"))
	assert.Equal(t, 0, sel.Quantity("p-rake"))
	assert.Equal(t, 0, sel.Len())
}

func TestSelection_Toggle_UnknownProduct(t *testing.T) {
	sel := NewSelection(testCatalog())
	assert.ErrorIs(t, sel.Toggle("p-ghost"), model.ErrProductNotFound)
}

func TestSelection_SetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *Selection)
		productID string
		qty       int
		wantQty   int
		wantLen   int
		wantErr   error
	}{
		{
			name:      "positive quantity selects the product",
			setup:     func(s *Selection) {},
			productID: "p-rake", qty: 3, wantQty: 3, wantLen: 1,
		},
		{
			name: "positive quantity updates an existing entry",
			setup: func(s *Selection) {
				_ = s.Toggle("p-rake")
			},
			productID: "p-rake", qty: 5, wantQty: 5, wantLen: 1,
		},
		{
			name: "zero removes the entry",
			setup: func(s *Selection) {
				_ = s.Toggle("p-rake")
			},
			productID: "p-rake", qty: 0, wantQty: 0, wantLen: 0,
		},
		{
			name: "negative removes the entry",
			setup: func(s *Selection) {
				_ = s.Toggle("p-rake")
			},
			productID: "p-rake", qty: -2, wantQty: 0, wantLen: 0,
		},
		{
			name:      "zero on an unselected product is a no-op",
			setup:     func(s *Selection) {},
			productID: "p-rake", qty: 0, wantQty: 0, wantLen: 0,
		},
		{
			name:      "unknown product with positive quantity fails",
			setup:     func(s *Selection) {},
			productID: "p-ghost", qty: 2, wantErr: model.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection(testCatalog())
			tt.setup(sel)

			err := sel.SetQuantity(tt.productID, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, sel.Quantity(tt.productID))
			assert.Equal(t, tt.wantLen, sel.Len())
		})
	}
}

func TestSelection_Subtotal(t *testing.T) {
	sel := NewSelection(testCatalog())

	// 2 x 12 + 1 x 9 + no gloves = 33; then bump feed to 2 for 42
	require.NoError(t, sel.SetQuantity("p-rake", 2))
	require.NoError(t, sel.Toggle("p-feed"))
	assert.InDelta(t, 33.0, sel.Subtotal(), 1e-9)

	require.NoError(t, sel.SetQuantity("p-feed", 2))
	assert.InDelta(t, 42.0, sel.Subtotal(), 1e-9)

	require.NoError(t, sel.SetQuantity("p-rake", 0))
	assert.InDelta(t, 18.0, sel.Subtotal(), 1e-9)
}

func TestSelection_ItemsKeepSelectionOrder(t *testing.T) {
	sel := NewSelection(testCatalog())

	require.NoError(t, sel.Toggle("p-feed"))
	require.NoError(t, sel.Toggle("p-rake"))
	require.NoError(t, sel.SetQuantity("p-gloves", 4))

	items := sel.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p-feed", items[0].ProductID)
	assert.Equal(t, "p-rake", items[1].ProductID)
	assert.Equal(t, "p-gloves", items[2].ProductID)
	assert.Equal(t, 4, items[2].Quantity)
}

func TestSelection_Clear(t *testing.T) {
	sel := NewSelection(testCatalog())
	require.NoError(t, sel.Toggle("p-rake"))

	sel.Clear()
	assert.Equal(t, 0, sel.Len())
	assert.Zero(t, sel.Subtotal())

	// The catalog survives; reselection still works
	require.NoError(t, sel.Toggle("p-rake"))
	assert.Equal(t, 1, sel.Quantity("p-rake"))
}
