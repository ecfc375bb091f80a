package catalog

import "context"

// Repository defines data access for the catalog. The query methods return
// views whose ColorView.ImageURL fields still hold the stored blob path;
// the service resolves them to public URLs.
type Repository interface {
	// QueryProducts retrieves products matching the filters, folded by
	// product with de-duplicated color and size lists.
	QueryProducts(ctx context.Context, f Filters) ([]*ProductView, error)

	// QueryBundles retrieves bundles whose constituents match the filters,
	// with constituent detail, bundle-level colors, and computed totals.
	QueryBundles(ctx context.Context, f Filters) ([]*BundleView, error)

	ListCategories(ctx context.Context) ([]Category, error)
	ListSizes(ctx context.Context) ([]SizeView, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	ListColors(ctx context.Context) ([]ColorOption, error)
}
