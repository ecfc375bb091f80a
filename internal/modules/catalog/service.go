package catalog

import (
	"context"
	"fmt"

	"github.com/jvalladares/tienda-backend/internal/blob"
)

// Service defines catalog business logic.
type Service interface {
	// Aggregate assembles the filtered product and bundle views. It returns
	// either a complete view or an error, never a partial result.
	Aggregate(ctx context.Context, f Filters) (*CatalogView, error)

	ListCategories(ctx context.Context) ([]Category, error)
	ListSizes(ctx context.Context) ([]SizeView, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	ListColors(ctx context.Context) ([]ColorOption, error)
}

type service struct {
	repo   Repository
	images blob.Resolver
}

// NewService creates a catalog service. Stored image paths are resolved to
// public URLs through images.
func NewService(repo Repository, images blob.Resolver) Service {
	return &service{repo: repo, images: images}
}

func (s *service) Aggregate(ctx context.Context, f Filters) (*CatalogView, error) {
	products, err := s.repo.QueryProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	bundles, err := s.repo.QueryBundles(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	for _, p := range products {
		s.resolveColors(p.Colors)
	}
	for _, b := range bundles {
		s.resolveColors(b.Colors)
		for _, bp := range b.Products {
			s.resolveColors(bp.Colors)
		}
	}

	return &CatalogView{Products: products, Bundles: bundles}, nil
}

// resolveColors rewrites stored blob paths into public URLs in place.
func (s *service) resolveColors(colors []ColorView) {
	for i := range colors {
		colors[i].ImageURL = s.images.Resolve(colors[i].ImageURL)
	}
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) ListSizes(ctx context.Context) ([]SizeView, error) {
	return s.repo.ListSizes(ctx)
}

func (s *service) ListBrands(ctx context.Context) ([]Brand, error) {
	return s.repo.ListBrands(ctx)
}

func (s *service) ListColors(ctx context.Context) ([]ColorOption, error) {
	return s.repo.ListColors(ctx)
}
