package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

type stubRepo struct {
	carts     map[uuid.UUID]*models.Cart
	items     map[uuid.UUID]*models.CartItem
	order     []uuid.UUID
	findErr   error
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, record := range s.carts {
		if record.UserID == userID {
			return record, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Create(ctx context.Context, record *models.Cart) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.carts[record.ID] = record
	return nil
}

func (s *stubRepo) matches(item *models.CartItem, cartID uuid.UUID, ref LineRef, packSize *string) bool {
	if item.CartID != cartID || item.Kind != ref.Kind || item.RefID() != ref.ID {
		return false
	}
	if packSize == nil {
		return true
	}
	return item.PackSize != nil && *item.PackSize == *packSize
}

func (s *stubRepo) FindLine(ctx context.Context, cartID uuid.UUID, ref LineRef, packSize *string) (*models.CartItem, error) {
	for _, id := range s.order {
		item, ok := s.items[id]
		if ok && s.matches(item, cartID, ref, packSize) {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubRepo) InsertLine(ctx context.Context, item *models.CartItem) error {
	ref := LineRef{Kind: item.Kind, ID: item.RefID()}
	if existing, err := s.FindLine(ctx, item.CartID, ref, item.PackSize); err == nil {
		existing.Quantity += item.Quantity
		return nil
	}
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return nil
}

func (s *stubRepo) IncrementQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	item, ok := s.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity += delta
	return nil
}

func (s *stubRepo) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	item, ok := s.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (s *stubRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	delete(s.items, itemID)
	return nil
}

func (s *stubRepo) DeleteByCart(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range s.items {
		if item.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, id := range s.order {
		item, ok := s.items[id]
		if ok && item.CartID == cartID {
			out = append(out, *item)
		}
	}
	return out, nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
	boxes    map[uuid.UUID]*models.GiftBox
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[uuid.UUID]*models.Product{},
		boxes:    map[uuid.UUID]*models.GiftBox{},
	}
}

func (s *stubCatalog) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalog) FindGiftBoxByID(ctx context.Context, id uuid.UUID) (*models.GiftBox, error) {
	box, ok := s.boxes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return box, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, repo *stubRepo, catalog *stubCatalog) Service {
	t.Helper()
	svc, err := NewService(repo, catalog, nil, nil, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProduct(catalog *stubCatalog, priceCents int) uuid.UUID {
	id := uuid.New()
	catalog.products[id] = &models.Product{
		ID:         id,
		Name:       "Smoked Paprika",
		PriceCents: priceCents,
		InStock:    true,
	}
	return id
}

func TestGetOrCreateCreatesOnFirstUse(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, newStubCatalog())
	userID := uuid.New()

	first, err := svc.GetOrCreate(context.Background(), userID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := svc.GetOrCreate(context.Background(), userID)
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one cart per user, got %s and %s", first.ID, second.ID)
	}
}

func TestGetOrCreateDoesNotMaskOutages(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.findErr = errors.New("connection refused")
	svc := newTestService(t, repo, newStubCatalog())

	_, err := svc.GetOrCreate(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.carts) != 0 {
		t.Fatalf("outage must not create a cart")
	}
}

func TestAddItemMergesSameIdentity(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	catalog := newStubCatalog()
	productID := seedProduct(catalog, 10000)
	svc := newTestService(t, repo, catalog)
	cartID := mustCart(t, svc)

	pack := "500g"
	for _, quantity := range []int{2, 3} {
		err := svc.AddItem(context.Background(), cartID, AddItemInput{
			Ref:      ProductRef(productID),
			Quantity: quantity,
			PackSize: &pack,
		})
		if err != nil {
			t.Fatalf("add item: %v", err)
		}
	}

	items, _ := repo.ListItems(context.Background(), cartID)
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddItemDifferentPackSizesStaySeparate(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	catalog := newStubCatalog()
	productID := seedProduct(catalog, 10000)
	svc := newTestService(t, repo, catalog)
	cartID := mustCart(t, svc)

	for _, pack := range []string{"250g", "500g"} {
		size := pack
		err := svc.AddItem(context.Background(), cartID, AddItemInput{
			Ref:      ProductRef(productID),
			Quantity: 1,
			PackSize: &size,
		})
		if err != nil {
			t.Fatalf("add item %s: %v", pack, err)
		}
	}

	items, _ := repo.ListItems(context.Background(), cartID)
	if len(items) != 2 {
		t.Fatalf("expected two distinct lines, got %d", len(items))
	}
}

func TestAddItemUnknownProductIsNotFound(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, newStubCatalog())
	cartID := mustCart(t, svc)

	err := svc.AddItem(context.Background(), cartID, AddItemInput{
		Ref:      ProductRef(uuid.New()),
		Quantity: 1,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	items, _ := repo.ListItems(context.Background(), cartID)
	if len(items) != 0 {
		t.Fatalf("dangling reference must not be stored")
	}
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	catalog := newStubCatalog()
	productID := seedProduct(catalog, 10000)
	svc := newTestService(t, repo, catalog)
	cartID := mustCart(t, svc)

	err := svc.AddItem(context.Background(), cartID, AddItemInput{
		Ref:      ProductRef(productID),
		Quantity: 0,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityMissingItemIsNotFound(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, newStubCatalog())

	err := svc.UpdateQuantity(context.Background(), uuid.New(), 3)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, newStubCatalog())

	if err := svc.RemoveItem(context.Background(), uuid.New()); err != nil {
		t.Fatalf("removing an absent line must succeed, got %v", err)
	}
}

func TestGetItemsWarnsOnMissingProduct(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	catalog := newStubCatalog()
	productID := seedProduct(catalog, 10000)
	svc := newTestService(t, repo, catalog)
	userID := uuid.New()

	record, err := svc.GetOrCreate(context.Background(), userID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if err := svc.AddItem(context.Background(), record.ID, AddItemInput{Ref: ProductRef(productID), Quantity: 2}); err != nil {
		t.Fatalf("add live product: %v", err)
	}

	ghostID := uuid.New()
	ghost := &models.CartItem{ID: uuid.New(), CartID: record.ID, Kind: enums.LineKindProduct, ProductID: &ghostID, Quantity: 1}
	repo.items[ghost.ID] = ghost
	repo.order = append(repo.order, ghost.ID)

	view, err := svc.GetItems(context.Background(), userID)
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one live line, got %d", len(view.Items))
	}
	if len(view.Warnings) != 1 || view.Warnings[0].ItemID != ghost.ID {
		t.Fatalf("expected a warning for the dangling line, got %+v", view.Warnings)
	}
	if view.Items[0].LineTotalCents != 20000 {
		t.Fatalf("expected line total 20000, got %d", view.Items[0].LineTotalCents)
	}
}

func TestGetItemsWithoutCartIsEmpty(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo(), newStubCatalog())
	view, err := svc.GetItems(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	if len(view.Items) != 0 || view.Count() != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func mustCart(t *testing.T, svc Service) uuid.UUID {
	t.Helper()
	record, err := svc.GetOrCreate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	return record.ID
}
