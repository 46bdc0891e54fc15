package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/pricing"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/metrics"
)

// Service owns the authenticated shopping cart lifecycle.
type Service interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) error
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	GetItems(ctx context.Context, userID uuid.UUID) (CartView, error)
	MergeGuestCart(ctx context.Context, userID uuid.UUID, guestToken string) error
}

type service struct {
	repo     Repository
	catalog  CatalogReader
	resolver *Resolver
	guest    GuestSession
	metrics  *metrics.StorefrontMetrics
	logg     *logger.Logger
}

// NewService wires the cart service. The guest store and metrics are optional.
func NewService(
	repo Repository,
	catalog CatalogReader,
	guest GuestSession,
	storefrontMetrics *metrics.StorefrontMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository is required")
	}
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     repo,
		catalog:  catalog,
		resolver: NewResolver(repo, catalog),
		guest:    guest,
		metrics:  storefrontMetrics,
		logg:     logg,
	}, nil
}

// GetOrCreate returns the user's cart, creating it on first use. Only a
// definitive "no cart row" answer triggers creation; a store outage surfaces
// as an error rather than spawning a duplicate cart.
func (s *service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	record, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created := &models.Cart{ID: uuid.New(), UserID: userID}
	if err := s.repo.Create(ctx, created); err != nil {
		// Another request may have created the row between our read and
		// write; the unique user index makes that visible here.
		if db.IsUniqueViolation(err, "carts_user_id_key") {
			if existing, findErr := s.repo.FindByUserID(ctx, userID); findErr == nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// AddItem folds a line into the cart: an existing line with the same identity
// gains quantity, anything else becomes a new row.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (err error) {
	defer func() { s.metrics.ObserveCartOp("add_item", err) }()

	if cartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	resolution, err := s.resolver.Resolve(ctx, cartID, input)
	if err != nil {
		return err
	}

	if resolution.Existing != nil {
		if err := s.repo.IncrementQuantity(ctx, resolution.Existing.ID, input.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment cart line")
		}
		return nil
	}
	if err := s.repo.InsertLine(ctx, resolution.NewLine); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
	}
	return nil
}

// UpdateQuantity sets a line's quantity directly. Quantity floors are the
// caller's concern here; removal goes through RemoveItem.
func (s *service) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (err error) {
	defer func() { s.metrics.ObserveCartOp("update_quantity", err) }()

	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	if err := s.repo.SetQuantity(ctx, itemID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return nil
}

// RemoveItem deletes a line. Removing an already-removed line succeeds.
func (s *service) RemoveItem(ctx context.Context, itemID uuid.UUID) (err error) {
	defer func() { s.metrics.ObserveCartOp("remove_item", err) }()

	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

// Clear empties the user's cart. A user without a cart has nothing to clear.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { s.metrics.ObserveCartOp("clear", err) }()

	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteByCart(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// GetItems joins cart lines against the catalog and prices each line. Lines
// whose catalog reference no longer exists are reported in Warnings instead
// of being dropped without a trace.
func (s *service) GetItems(ctx context.Context, userID uuid.UUID) (CartView, error) {
	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartView{}, nil
		}
		return CartView{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := s.repo.ListItems(ctx, record.ID)
	if err != nil {
		return CartView{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	view := CartView{CartID: record.ID}
	products := map[uuid.UUID]*models.Product{}
	boxes := map[uuid.UUID]*models.GiftBox{}

	for _, item := range items {
		display, warn, err := s.renderLine(ctx, item, products, boxes)
		if err != nil {
			return CartView{}, err
		}
		if warn != nil {
			view.Warnings = append(view.Warnings, *warn)
			continue
		}
		view.Items = append(view.Items, *display)
	}
	return view, nil
}

func (s *service) renderLine(
	ctx context.Context,
	item models.CartItem,
	products map[uuid.UUID]*models.Product,
	boxes map[uuid.UUID]*models.GiftBox,
) (*DisplayItem, *LineWarning, error) {
	display := DisplayItem{
		ItemID:   item.ID,
		Kind:     item.Kind,
		RefID:    item.RefID(),
		PackSize: item.PackSize,
		Quantity: item.Quantity,
	}

	switch item.Kind {
	case enums.LineKindGiftBox:
		box, ok := boxes[display.RefID]
		if !ok {
			loaded, err := s.catalog.FindGiftBoxByID(ctx, display.RefID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					s.logg.Warn(ctx, fmt.Sprintf("cart line %s references missing gift box %s", item.ID, display.RefID))
					return nil, &LineWarning{ItemID: item.ID, Reason: "gift box no longer available"}, nil
				}
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gift box")
			}
			boxes[display.RefID] = loaded
			box = loaded
		}
		display.Name = box.Name
		display.UnitPriceCents = box.PriceCents
		display.ImageURL = box.ImageURL
		display.InStock = true
	default:
		product, ok := products[display.RefID]
		if !ok {
			loaded, err := s.catalog.FindProductByID(ctx, display.RefID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					s.logg.Warn(ctx, fmt.Sprintf("cart line %s references missing product %s", item.ID, display.RefID))
					return nil, &LineWarning{ItemID: item.ID, Reason: "product no longer available"}, nil
				}
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			products[display.RefID] = loaded
			product = loaded
		}
		display.Name = product.Name
		display.UnitPriceCents = pricing.EffectiveUnitPriceCents(*product, item.PackSize)
		display.ImageURL = product.ImageURL
		display.InStock = product.InStock
	}

	display.LineTotalCents = display.UnitPriceCents * display.Quantity
	return &display, nil, nil
}

// MergeGuestCart folds an anonymous cart into the user's persistent cart
// after login, then discards the guest copy. Guest lines that no longer
// resolve in the catalog are skipped so a stale session cannot block login.
func (s *service) MergeGuestCart(ctx context.Context, userID uuid.UUID, guestToken string) error {
	if s.guest == nil || guestToken == "" {
		return nil
	}

	payload := s.guest.Load(ctx, guestToken)
	if len(payload.Items) == 0 {
		return s.guest.Delete(ctx, guestToken)
	}

	record, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	for _, line := range payload.Items {
		productID, parseErr := uuid.Parse(line.ProductID)
		if parseErr != nil || line.Quantity < 1 {
			s.logg.Warn(ctx, fmt.Sprintf("skipping unparseable guest cart line %q", line.ID))
			continue
		}
		addErr := s.AddItem(ctx, record.ID, AddItemInput{
			Ref:      ProductRef(productID),
			Quantity: line.Quantity,
			PackSize: line.PackSize,
		})
		if addErr != nil {
			if pkgerrors.IsCode(addErr, pkgerrors.CodeNotFound) {
				s.logg.Warn(ctx, fmt.Sprintf("skipping guest cart line for missing product %s", productID))
				continue
			}
			return addErr
		}
	}
	return s.guest.Delete(ctx, guestToken)
}
