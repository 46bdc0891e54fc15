package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/cart"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

// Service owns per-user wishlists.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Contains(ctx context.Context, userID, productID uuid.UUID) bool
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
}

type service struct {
	repo    Repository
	catalog cart.CatalogReader
	logg    *logger.Logger
}

// NewService wires the wishlist service.
func NewService(repo Repository, catalog cart.CatalogReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repository is required")
	}
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: repo, catalog: catalog, logg: logg}, nil
}

// Add likes a product. Liking it twice leaves a single row.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up product")
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}
	return nil
}

// Remove unlikes a product; unliking something never liked succeeds.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
	}
	return nil
}

// Contains reports whether the product is on the user's wishlist. A lookup
// failure reads as false; the heart toggle renders unfilled rather than the
// page erroring, and the miss is logged for operators.
func (s *service) Contains(ctx context.Context, userID, productID uuid.UUID) bool {
	found, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("wishlist lookup failed for product %s, rendering as not saved", productID))
		return false
	}
	return found
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return entries, nil
}
