package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// filterClause builds the shared WHERE clause for the product and bundle
// queries. Aliases: cat = categories, br = brands, c = colors, s = sizes.
func filterClause(f Filters) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("cat.name", f.Category)
	add("br.name", f.Brand)
	add("c.name", f.Color)
	add("s.name", f.Size)

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *postgresRepo) QueryProducts(ctx context.Context, f Filters) ([]*ProductView, error) {
	where, args := filterClause(f)
	rows, err := r.db.QueryContext(ctx, `
		SELECT
		  p.product_id, p.name, p.stock,
		  c.color_id, c.name, pc.image_path,
		  br.name, i.price,
		  s.size_id, s.name
		FROM products p
		INNER JOIN inventories i ON p.product_id = i.product_id
		LEFT JOIN brands br ON p.brand_id = br.brand_id
		LEFT JOIN product_colors pc ON p.product_id = pc.product_id
		LEFT JOIN colors c ON pc.color_id = c.color_id
		LEFT JOIN product_sizes ps ON p.product_id = ps.product_id
		LEFT JOIN sizes s ON ps.size_id = s.size_id
		LEFT JOIN product_categories pcat ON p.product_id = pcat.product_id
		LEFT JOIN categories cat ON pcat.category_id = cat.category_id
		`+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*ProductView)
	products := []*ProductView{}
	for rows.Next() {
		var (
			id        int64
			name      string
			stock     int
			colorID   sql.NullInt64
			colorName sql.NullString
			imagePath sql.NullString
			brand     sql.NullString
			price     float64
			sizeID    sql.NullInt64
			sizeName  sql.NullString
		)
		if err := rows.Scan(&id, &name, &stock, &colorID, &colorName, &imagePath,
			&brand, &price, &sizeID, &sizeName); err != nil {
			return nil, err
		}

		p, ok := byID[id]
		if !ok {
			p = &ProductView{
				ID:        id,
				Name:      name,
				Stock:     stock,
				Brand:     brand.String,
				UnitPrice: price,
				Colors:    []ColorView{},
				Sizes:     []SizeView{},
			}
			byID[id] = p
			products = append(products, p)
		}
		if colorName.Valid {
			appendColor(&p.Colors, ColorView{ID: colorID.Int64, Name: colorName.String, ImageURL: imagePath.String})
		}
		if sizeName.Valid {
			appendSize(&p.Sizes, SizeView{ID: sizeID.Int64, Name: sizeName.String})
		}
	}
	return products, rows.Err()
}

func (r *postgresRepo) QueryBundles(ctx context.Context, f Filters) ([]*BundleView, error) {
	bundles, byID, err := r.queryBundleHeaders(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return bundles, nil
	}
	if err := r.attachBundleProducts(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachBundleColors(ctx, byID); err != nil {
		return nil, err
	}

	// Final price: constituents at quantity x unit price, plus the
	// preparation surcharge.
	for _, b := range bundles {
		total := 0.0
		for _, p := range b.Products {
			total += float64(p.Quantity) * p.UnitPrice
		}
		b.TotalPrice = total + b.PreparationCost
	}
	return bundles, nil
}

// queryBundleHeaders selects bundles containing at least one product that
// matches the filters, with a running constituent-price total.
func (r *postgresRepo) queryBundleHeaders(ctx context.Context, f Filters) ([]*BundleView, map[int64]*BundleView, error) {
	where, args := filterClause(f)
	rows, err := r.db.QueryContext(ctx, `
		SELECT
		  b.bundle_id, b.name, b.description, b.preparation_cost,
		  SUM(i.price * bi.quantity)
		FROM bundles b
		INNER JOIN bundle_items bi ON b.bundle_id = bi.bundle_id
		INNER JOIN inventories i ON bi.product_id = i.product_id
		INNER JOIN products p ON bi.product_id = p.product_id
		LEFT JOIN brands br ON p.brand_id = br.brand_id
		LEFT JOIN product_colors pc ON p.product_id = pc.product_id
		LEFT JOIN colors c ON pc.color_id = c.color_id
		LEFT JOIN product_sizes ps ON p.product_id = ps.product_id
		LEFT JOIN sizes s ON ps.size_id = s.size_id
		LEFT JOIN product_categories pcat ON p.product_id = pcat.product_id
		LEFT JOIN categories cat ON pcat.category_id = cat.category_id
		`+where+`
		GROUP BY b.bundle_id, b.name, b.description, b.preparation_cost`, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*BundleView)
	bundles := []*BundleView{}
	for rows.Next() {
		b := &BundleView{Products: []*BundleProduct{}, Colors: []ColorView{}}
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.PreparationCost, &b.TotalPrice); err != nil {
			return nil, nil, err
		}
		byID[b.ID] = b
		bundles = append(bundles, b)
	}
	return bundles, byID, rows.Err()
}

// attachBundleProducts folds constituent rows into their bundles, merging
// colors and sizes when the same product appears on multiple rows.
func (r *postgresRepo) attachBundleProducts(ctx context.Context, byID map[int64]*BundleView) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
		  bi.bundle_id,
		  p.product_id, p.name, bi.quantity, i.price,
		  pc.color_id, c.name, pc.image_path,
		  ps.size_id, s.name
		FROM bundle_items bi
		INNER JOIN products p ON bi.product_id = p.product_id
		INNER JOIN inventories i ON p.product_id = i.product_id
		LEFT JOIN product_colors pc ON p.product_id = pc.product_id
		LEFT JOIN colors c ON pc.color_id = c.color_id
		LEFT JOIN product_sizes ps ON p.product_id = ps.product_id
		LEFT JOIN sizes s ON ps.size_id = s.size_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bundleID  int64
			productID int64
			name      string
			quantity  int
			price     float64
			colorID   sql.NullInt64
			colorName sql.NullString
			imagePath sql.NullString
			sizeID    sql.NullInt64
			sizeName  sql.NullString
		)
		if err := rows.Scan(&bundleID, &productID, &name, &quantity, &price,
			&colorID, &colorName, &imagePath, &sizeID, &sizeName); err != nil {
			return err
		}
		b, ok := byID[bundleID]
		if !ok {
			continue
		}

		var bp *BundleProduct
		for _, existing := range b.Products {
			if existing.ProductID == productID {
				bp = existing
				break
			}
		}
		if bp == nil {
			bp = &BundleProduct{ProductID: productID, Name: name, Quantity: quantity, UnitPrice: price}
			b.Products = append(b.Products, bp)
		}
		if colorName.Valid {
			appendColor(&bp.Colors, ColorView{ID: colorID.Int64, Name: colorName.String, ImageURL: imagePath.String})
		}
		if sizeName.Valid {
			appendSize(&bp.Sizes, SizeView{ID: sizeID.Int64, Name: sizeName.String})
		}
	}
	return rows.Err()
}

func (r *postgresRepo) attachBundleColors(ctx context.Context, byID map[int64]*BundleView) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bc.bundle_id, c.color_id, c.name, bc.image_path
		FROM bundle_colors bc
		INNER JOIN colors c ON bc.color_id = c.color_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bundleID  int64
			color     ColorView
			imagePath sql.NullString
		)
		if err := rows.Scan(&bundleID, &color.ID, &color.Name, &imagePath); err != nil {
			return err
		}
		color.ImageURL = imagePath.String
		if b, ok := byID[bundleID]; ok {
			b.Colors = append(b.Colors, color)
		}
	}
	return rows.Err()
}

// ── lookups ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id, name, description FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description); err != nil {
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) ListSizes(ctx context.Context) ([]SizeView, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT size_id, name FROM sizes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []SizeView
	for rows.Next() {
		var s SizeView
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	return sizes, rows.Err()
}

func (r *postgresRepo) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT brand_id, name, hex FROM brands`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []Brand
	for rows.Next() {
		var b Brand
		var hex sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &hex); err != nil {
			return nil, err
		}
		b.Hex = hex.String
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *postgresRepo) ListColors(ctx context.Context) ([]ColorOption, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT color_id, name FROM colors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []ColorOption
	for rows.Next() {
		var c ColorOption
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}

// ── folding helpers ──────────────────────────────────────────────────────────

func appendColor(list *[]ColorView, color ColorView) {
	for _, existing := range *list {
		if existing.ID == color.ID {
			return
		}
	}
	*list = append(*list, color)
}

func appendSize(list *[]SizeView, size SizeView) {
	for _, existing := range *list {
		if existing.ID == size.ID {
			return
		}
	}
	*list = append(*list, size)
}
