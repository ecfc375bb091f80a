package catalog

// Filters are optional exact-match constraints on the catalog query.
// A nil field imposes no constraint; present fields are combined with AND.
type Filters struct {
	Category *string
	Size     *string
	Brand    *string
	Color    *string
}

// ColorView is one color option of a product or bundle. ImageURL is the
// resolved public URL of the stored image, empty when none exists.
type ColorView struct {
	ID       int64  `json:"color_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// SizeView is one size option of a product.
type SizeView struct {
	ID   int64  `json:"size_id"`
	Name string `json:"name"`
}

// ProductView is a standalone product with its options folded in.
// Colors and Sizes are always present, possibly empty.
type ProductView struct {
	ID        int64       `json:"product_id"`
	Name      string      `json:"name"`
	Stock     int         `json:"stock"`
	Brand     string      `json:"brand,omitempty"`
	UnitPrice float64     `json:"unit_price"`
	Colors    []ColorView `json:"colors"`
	Sizes     []SizeView  `json:"sizes"`
}

// BundleProduct is one constituent of a bundle. Unlike ProductView, empty
// color/size lists are omitted from the payload entirely; API consumers
// depend on that shape.
type BundleProduct struct {
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice float64     `json:"unit_price"`
	Colors    []ColorView `json:"colors,omitempty"`
	Sizes     []SizeView  `json:"sizes,omitempty"`
}

// BundleView is a sellable grouping of products with its own surcharge.
// TotalPrice = sum over constituents of quantity x unit price, plus
// PreparationCost.
type BundleView struct {
	ID              int64            `json:"bundle_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	PreparationCost float64          `json:"preparation_cost"`
	TotalPrice      float64          `json:"total_price"`
	Products        []*BundleProduct `json:"products"`
	Colors          []ColorView      `json:"colors"`
}

// CatalogView is the aggregated response for the product listing endpoint.
type CatalogView struct {
	Products []*ProductView `json:"products"`
	Bundles  []*BundleView  `json:"bundles"`
}

// Category is a row from the categories lookup table.
type Category struct {
	ID          int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Brand is a row from the brands lookup table.
type Brand struct {
	ID   int64  `json:"brand_id"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// ColorOption is a row from the colors lookup table.
type ColorOption struct {
	ID   int64  `json:"color_id"`
	Name string `json:"name"`
}
