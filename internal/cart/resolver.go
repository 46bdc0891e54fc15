package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
)

// Resolution describes where an incoming line lands in a cart. Exactly one of
// the two fields is set: Existing when a line with the same identity is
// already present, NewLine when the add creates a fresh row.
type Resolution struct {
	Existing *models.CartItem
	NewLine  *models.CartItem
}

// Resolver turns an add-to-cart request into a concrete cart mutation target.
// It confirms the referenced product or gift box exists before touching the
// cart so that dangling references never make it into storage.
type Resolver struct {
	repo    Repository
	catalog CatalogReader
}

// NewResolver wires the resolver.
func NewResolver(repo Repository, catalog CatalogReader) *Resolver {
	return &Resolver{repo: repo, catalog: catalog}
}

// Resolve validates the input and decides between incrementing an existing
// line and inserting a new one.
func (r *Resolver) Resolve(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*Resolution, error) {
	if err := input.Ref.Validate(); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Ref.Kind == enums.LineKindGiftBox && input.PackSize != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gift boxes do not have pack sizes")
	}

	if err := r.confirmTarget(ctx, input.Ref); err != nil {
		return nil, err
	}

	existing, err := r.repo.FindLine(ctx, cartID, input.Ref, input.PackSize)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up cart line")
	}
	if existing != nil {
		return &Resolution{Existing: existing}, nil
	}

	line := &models.CartItem{
		ID:       uuid.New(),
		CartID:   cartID,
		Kind:     input.Ref.Kind,
		PackSize: input.PackSize,
		Quantity: input.Quantity,
	}
	switch input.Ref.Kind {
	case enums.LineKindGiftBox:
		id := input.Ref.ID
		line.GiftBoxID = &id
	default:
		id := input.Ref.ID
		line.ProductID = &id
	}
	return &Resolution{NewLine: line}, nil
}

func (r *Resolver) confirmTarget(ctx context.Context, ref LineRef) error {
	var err error
	switch ref.Kind {
	case enums.LineKindGiftBox:
		_, err = r.catalog.FindGiftBoxByID(ctx, ref.ID)
	default:
		_, err = r.catalog.FindProductByID(ctx, ref.ID)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if ref.Kind == enums.LineKindGiftBox {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gift box not found")
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up catalog entry")
}
