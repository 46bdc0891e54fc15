package orders

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/cart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

type stubTx struct{}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	orders    map[uuid.UUID]*models.Order
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID != nil && *order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentStatus = status
	return nil
}

type stubCartRepo struct {
	cart.Repository
	cleared   []uuid.UUID
	deleteErr error
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) DeleteByCart(ctx context.Context, cartID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.cleared = append(s.cleared, cartID)
	return nil
}

type stubCartReader struct {
	view cart.CartView
	err  error
}

func (s *stubCartReader) GetItems(ctx context.Context, userID uuid.UUID) (cart.CartView, error) {
	return s.view, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func strPtr(s string) *string { return &s }

func checkoutInput() CreateOrderInput {
	address := models.Address{
		FullName:   "Shirin Rahimi",
		Line1:      "12 Saffron Lane",
		City:       "Shiraz",
		PostalCode: "71345",
		Country:    "IR",
	}
	return CreateOrderInput{
		ShippingAddress: address,
		BillingAddress:  address,
		PaymentMethod:   enums.PaymentMethodCOD,
	}
}

func filledView() cart.CartView {
	return cart.CartView{
		CartID: uuid.New(),
		Items: []cart.DisplayItem{
			{
				ItemID:         uuid.New(),
				Kind:           enums.LineKindProduct,
				RefID:          uuid.New(),
				Name:           "Saffron Threads",
				PackSize:       strPtr("5g"),
				Quantity:       2,
				UnitPriceCents: 4000,
				LineTotalCents: 8000,
			},
			{
				ItemID:         uuid.New(),
				Kind:           enums.LineKindGiftBox,
				RefID:          uuid.New(),
				Name:           "Festive Box",
				Quantity:       1,
				UnitPriceCents: 5000,
				LineTotalCents: 5000,
			},
		},
	}
}

func newTestService(t *testing.T, repo *stubOrderRepo, cartRepo *stubCartRepo, reader *stubCartReader) Service {
	t.Helper()
	svc, err := NewService(&stubTx{}, repo, cartRepo, reader, "5", nil, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateOrderFreezesCartAndClearsIt(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	cartRepo := &stubCartRepo{}
	view := filledView()
	svc := newTestService(t, repo, cartRepo, &stubCartReader{view: view})
	userID := uuid.New()

	receipt, err := svc.CreateOrder(context.Background(), userID, checkoutInput())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if receipt.TotalCents != 13000 {
		t.Fatalf("expected total 13000, got %d", receipt.TotalCents)
	}
	if receipt.Subtotal.String() != "130" {
		t.Fatalf("expected display subtotal 130, got %s", receipt.Subtotal)
	}
	if receipt.Tax.String() != "6.5" {
		t.Fatalf("expected tax 6.5, got %s", receipt.Tax)
	}
	if receipt.GrandTotal.String() != "136.5" {
		t.Fatalf("expected grand total 136.5, got %s", receipt.GrandTotal)
	}
	if receipt.ItemCount != 3 {
		t.Fatalf("expected 3 units, got %d", receipt.ItemCount)
	}

	order, ok := repo.orders[receipt.OrderID]
	if !ok {
		t.Fatalf("order was not persisted")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 frozen lines, got %d", len(order.Items))
	}
	if order.Items[0].ProductName != "Saffron Threads" || order.Items[0].UnitPriceCents != 4000 {
		t.Fatalf("line snapshot not frozen: %+v", order.Items[0])
	}
	if len(cartRepo.cleared) != 1 || cartRepo.cleared[0] != view.CartID {
		t.Fatalf("cart was not cleared in the same flow")
	}
}

func TestCreateOrderEmptyCartIsRejected(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	cartRepo := &stubCartRepo{}
	svc := newTestService(t, repo, cartRepo, &stubCartReader{view: cart.CartView{CartID: uuid.New()}})

	_, err := svc.CreateOrder(context.Background(), uuid.New(), checkoutInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart rejection, got %v", err)
	}
	if len(repo.orders) != 0 {
		t.Fatalf("no order may be created from an empty cart")
	}
	if len(cartRepo.cleared) != 0 {
		t.Fatalf("empty cart must not be cleared")
	}
}

func TestCreateOrderAbortsOnUnresolvableLines(t *testing.T) {
	t.Parallel()

	view := cart.CartView{
		CartID:   uuid.New(),
		Items:    filledView().Items,
		Warnings: []cart.LineWarning{{ItemID: uuid.New(), Reason: "product no longer available"}},
	}
	repo := newStubOrderRepo()
	svc := newTestService(t, repo, &stubCartRepo{}, &stubCartReader{view: view})

	_, err := svc.CreateOrder(context.Background(), uuid.New(), checkoutInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on stale cart, got %v", err)
	}
	if len(repo.orders) != 0 {
		t.Fatalf("stale cart must not produce an order")
	}
}

func TestCreateOrderCartWipeFailureAbortsCheckout(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	cartRepo := &stubCartRepo{deleteErr: errors.New("deadlock detected")}
	svc := newTestService(t, repo, cartRepo, &stubCartReader{view: filledView()})

	_, err := svc.CreateOrder(context.Background(), uuid.New(), checkoutInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubOrderRepo(), &stubCartRepo{}, &stubCartReader{view: filledView()})
	input := checkoutInput()
	input.PaymentMethod = enums.PaymentMethod("crypto")

	_, err := svc.CreateOrder(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: &owner}
	repo.orders[order.ID] = order
	svc := newTestService(t, repo, &stubCartRepo{}, &stubCartReader{})

	_, err := svc.GetOrder(context.Background(), uuid.New(), order.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("foreign order must read as absent, got %v", err)
	}

	got, err := svc.GetOrder(context.Background(), owner, order.ID)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, got.ID)
	}
}

func TestUpdateStatusValidatesAndReports(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: &owner, Status: enums.OrderStatusPending}
	repo.orders[order.ID] = order
	svc := newTestService(t, repo, &stubCartRepo{}, &stubCartReader{})

	if err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatus("lost")); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusShipped); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if order.Status != enums.OrderStatusShipped {
		t.Fatalf("status not applied, got %s", order.Status)
	}
}
