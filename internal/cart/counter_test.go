package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/guestcart"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
)

type stubGuest struct {
	payloads map[string]guestcart.Payload
}

func newStubGuest() *stubGuest {
	return &stubGuest{payloads: map[string]guestcart.Payload{}}
}

func (s *stubGuest) Load(ctx context.Context, token string) guestcart.Payload {
	return s.payloads[token]
}

func (s *stubGuest) Delete(ctx context.Context, token string) error {
	delete(s.payloads, token)
	return nil
}

func (s *stubGuest) Count(ctx context.Context, token string) int {
	total := 0
	for _, item := range s.payloads[token].Items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	return total
}

func TestProjectorCountsGuestCart(t *testing.T) {
	t.Parallel()

	guest := newStubGuest()
	guest.payloads["tok"] = guestcart.Payload{Items: []guestcart.Item{
		{ID: "1", ProductID: uuid.NewString(), Quantity: 2},
		{ID: "2", ProductID: uuid.NewString(), Quantity: 4},
	}}
	projector := NewProjector(newStubRepo(), guest)

	count, err := projector.Count(context.Background(), uuid.Nil, "tok")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6, got %d", count)
	}
}

func TestProjectorNeverCreatesCart(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	projector := NewProjector(repo, newStubGuest())

	count, err := projector.Count(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for a user without a cart, got %d", count)
	}
	if len(repo.carts) != 0 {
		t.Fatalf("badge reads must not create carts")
	}
}

func TestProjectorMatchesSumOfQuantities(t *testing.T) {
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
	pack := "250g"
	if err := svc.AddItem(context.Background(), record.ID, AddItemInput{Ref: ProductRef(productID), Quantity: 3}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := svc.AddItem(context.Background(), record.ID, AddItemInput{Ref: ProductRef(productID), Quantity: 2, PackSize: &pack}); err != nil {
		t.Fatalf("add item with pack: %v", err)
	}

	projector := NewProjector(repo, nil)
	count, err := projector.Count(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5, got %d", count)
	}
}

func TestProjectorSurfacesStoreOutage(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.findErr = errors.New("connection refused")
	projector := NewProjector(repo, nil)

	_, err := projector.Count(context.Background(), uuid.New(), "")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestMergeGuestCartReplaysLinesAndRetiresToken(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	catalog := newStubCatalog()
	productID := seedProduct(catalog, 10000)
	guest := newStubGuest()
	pack := "500g"
	guest.payloads["tok"] = guestcart.Payload{Items: []guestcart.Item{
		{ID: "1", ProductID: productID.String(), PackSize: &pack, Quantity: 2},
		{ID: "2", ProductID: uuid.NewString(), Quantity: 1},
		{ID: "3", ProductID: "not-a-uuid", Quantity: 1},
	}}

	svc, err := NewService(repo, catalog, guest, nil, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	userID := uuid.New()

	if err := svc.MergeGuestCart(context.Background(), userID, "tok"); err != nil {
		t.Fatalf("merge: %v", err)
	}

	record, err := repo.FindByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("find cart: %v", err)
	}
	items, _ := repo.ListItems(context.Background(), record.ID)
	if len(items) != 1 {
		t.Fatalf("expected only the resolvable line to merge, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
	if _, ok := guest.payloads["tok"]; ok {
		t.Fatalf("guest cart must be retired after merge")
	}
}
