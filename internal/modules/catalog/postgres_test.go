package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{
	"product_id", "name", "stock",
	"color_id", "color_name", "image_path",
	"brand", "price",
	"size_id", "size_name",
}

var bundleDetailColumns = []string{
	"bundle_id",
	"product_id", "name", "quantity", "price",
	"color_id", "color_name", "image_path",
	"size_id", "size_name",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(Filters{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	category, size := "Shirts", "M"
	where, args = filterClause(Filters{Category: &category, Size: &size})
	assert.Equal(t, "WHERE cat.name = $1 AND s.name = $2", where)
	assert.Equal(t, []interface{}{"Shirts", "M"}, args)

	brand, color := "Acme", "Blue"
	where, args = filterClause(Filters{Category: &category, Brand: &brand, Color: &color, Size: &size})
	assert.Equal(t, "WHERE cat.name = $1 AND br.name = $2 AND c.name = $3 AND s.name = $4", where)
	assert.Equal(t, []interface{}{"Shirts", "Acme", "Blue", "M"}, args)
}

func TestQueryProductsFoldsColorsAndSizes(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products p")).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(1, "Polo Shirt", 10, 1, "Blue", "polos/blue.png", "Acme", 19.99, 2, "M").
			AddRow(1, "Polo Shirt", 10, 3, "Red", "polos/red.png", "Acme", 19.99, 2, "M"))

	products, err := repo.QueryProducts(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Polo Shirt", p.Name)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, 19.99, p.UnitPrice)
	require.Len(t, p.Colors, 2)
	assert.Equal(t, "Blue", p.Colors[0].Name)
	assert.Equal(t, "polos/blue.png", p.Colors[0].ImageURL)
	assert.Equal(t, "Red", p.Colors[1].Name)
	require.Len(t, p.Sizes, 1)
	assert.Equal(t, "M", p.Sizes[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryProductsWithoutOptionsYieldsEmptyLists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products p")).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(2, "Plain Mug", 5, nil, nil, nil, nil, 7.50, nil, nil))

	products, err := repo.QueryProducts(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.NotNil(t, products[0].Colors)
	assert.Empty(t, products[0].Colors)
	assert.NotNil(t, products[0].Sizes)
	assert.Empty(t, products[0].Sizes)
	assert.Empty(t, products[0].Brand)
}

func TestQueryProductsBindsFilterArgs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products p")).
		WithArgs("Shirts", "Blue").
		WillReturnRows(sqlmock.NewRows(productColumns))

	category, color := "Shirts", "Blue"
	_, err := repo.QueryProducts(context.Background(), Filters{Category: &category, Color: &color})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryBundlesComputesTotalPrice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bundles b")).
		WillReturnRows(sqlmock.NewRows([]string{"bundle_id", "name", "description", "preparation_cost", "sum"}).
			AddRow(1, "Summer Pack", "Shirt and hat", 5.0, 40.0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bundle_items bi")).
		WillReturnRows(sqlmock.NewRows(bundleDetailColumns).
			AddRow(1, 10, "Shirt", 2, 10.0, 4, "Blue", "shirts/blue.png", 2, "M").
			AddRow(1, 20, "Hat", 1, 20.0, nil, nil, nil, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bundle_colors bc")).
		WillReturnRows(sqlmock.NewRows([]string{"bundle_id", "color_id", "name", "image_path"}).
			AddRow(1, 9, "Assorted", "bundles/summer.png"))

	bundles, err := repo.QueryBundles(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, bundles, 1)
	b := bundles[0]
	// 2x10 + 1x20 + preparation surcharge 5
	assert.Equal(t, 45.0, b.TotalPrice)
	assert.Equal(t, 5.0, b.PreparationCost)

	require.Len(t, b.Products, 2)
	shirt := b.Products[0]
	assert.Equal(t, int64(10), shirt.ProductID)
	assert.Equal(t, 2, shirt.Quantity)
	require.Len(t, shirt.Colors, 1)
	require.Len(t, shirt.Sizes, 1)

	// Constituents with no options keep nil lists so the fields marshal away.
	hat := b.Products[1]
	assert.Nil(t, hat.Colors)
	assert.Nil(t, hat.Sizes)

	require.Len(t, b.Colors, 1)
	assert.Equal(t, "Assorted", b.Colors[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryBundlesMergesDuplicateConstituents(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bundles b")).
		WillReturnRows(sqlmock.NewRows([]string{"bundle_id", "name", "description", "preparation_cost", "sum"}).
			AddRow(1, "Summer Pack", "Shirt only", 5.0, 20.0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bundle_items bi")).
		WillReturnRows(sqlmock.NewRows(bundleDetailColumns).
			AddRow(1, 10, "Shirt", 2, 10.0, 4, "Blue", "shirts/blue.png", 2, "M").
			AddRow(1, 10, "Shirt", 2, 10.0, 6, "Red", "shirts/red.png", 2, "M").
			AddRow(1, 10, "Shirt", 2, 10.0, 4, "Blue", "shirts/blue.png", 3, "L"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bundle_colors bc")).
		WillReturnRows(sqlmock.NewRows([]string{"bundle_id", "color_id", "name", "image_path"}))

	bundles, err := repo.QueryBundles(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, bundles, 1)
	require.Len(t, bundles[0].Products, 1)
	shirt := bundles[0].Products[0]
	assert.Len(t, shirt.Colors, 2)
	assert.Len(t, shirt.Sizes, 2)
	// Merged rows must not double-count the constituent in the total.
	assert.Equal(t, 25.0, bundles[0].TotalPrice)
}

func TestQueryBundlesNoMatchesSkipsDetailQueries(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bundles b")).
		WillReturnRows(sqlmock.NewRows([]string{"bundle_id", "name", "description", "preparation_cost", "sum"}))

	bundles, err := repo.QueryBundles(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Empty(t, bundles)
	assert.NoError(t, mock.ExpectationsWereMet())
}
