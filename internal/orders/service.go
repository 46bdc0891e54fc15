package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/cart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/pricing"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/metrics"
)

// Service assembles orders from carts and serves order history.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*Receipt, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartReader is the slice of the cart service that checkout needs.
type CartReader interface {
	GetItems(ctx context.Context, userID uuid.UUID) (cart.CartView, error)
}

type service struct {
	tx       TxRunner
	repo     Repository
	cartRepo cart.Repository
	carts    CartReader
	taxRate  string
	metrics  *metrics.StorefrontMetrics
	logg     *logger.Logger
}

// NewService wires the order service.
func NewService(
	tx TxRunner,
	repo Repository,
	cartRepo cart.Repository,
	carts CartReader,
	taxRate string,
	storefrontMetrics *metrics.StorefrontMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repository is required")
	}
	if cartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository is required")
	}
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		cartRepo: cartRepo,
		carts:    carts,
		taxRate:  taxRate,
		metrics:  storefrontMetrics,
		logg:     logg,
	}, nil
}

// CreateOrder turns the user's cart into an immutable order. The order row,
// its frozen line items and the cart wipe commit in one transaction, so a
// failure partway leaves both cart and order history untouched.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*Receipt, error) {
	started := time.Now()

	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
	if err := validateAddress("shipping address", input.ShippingAddress); err != nil {
		return nil, err
	}
	if err := validateAddress("billing address", input.BillingAddress); err != nil {
		return nil, err
	}

	view, err := s.carts.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 && len(view.Warnings) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	if len(view.Warnings) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart contains items that are no longer available")
	}

	uid := userID
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          &uid,
		TotalCents:      view.TotalCents(),
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		PaymentMethod:   input.PaymentMethod,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		Items:           freezeLines(view.Items),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.cartRepo.WithTx(tx).DeleteByCart(ctx, view.CartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart after checkout")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveOrderCreated(time.Since(started))
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order created")

	totals := pricing.DisplayTotals(order.TotalCents, s.taxRate)
	receipt := &Receipt{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalCents:    order.TotalCents,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		GrandTotal:    totals.Grand,
	}
	for _, item := range order.Items {
		receipt.ItemCount += item.Quantity
	}
	return receipt, nil
}

// GetOrder loads one order. Orders belonging to someone else read as absent
// rather than forbidden, so order ids cannot be probed.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return records, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}
	if err := s.repo.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return nil
}

func freezeLines(items []cart.DisplayItem) []models.OrderItem {
	frozen := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		line := models.OrderItem{
			ID:             uuid.New(),
			Kind:           item.Kind,
			ProductName:    item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			PackSize:       item.PackSize,
		}
		ref := item.RefID
		if item.Kind == enums.LineKindGiftBox {
			line.GiftBoxID = &ref
		} else {
			line.ProductID = &ref
		}
		frozen = append(frozen, line)
	}
	return frozen
}

func validateAddress(label string, addr models.Address) error {
	if addr.FullName == "" || addr.Line1 == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, label+" is incomplete")
	}
	return nil
}
