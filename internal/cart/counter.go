package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
)

// Projector serves the cart badge count. It is strictly read-only: asking for
// a count never creates a cart and never mutates guest state.
type Projector struct {
	repo  Repository
	guest GuestSession
}

// NewProjector wires the badge counter.
func NewProjector(repo Repository, guest GuestSession) *Projector {
	return &Projector{repo: repo, guest: guest}
}

// Count returns the total quantity across cart lines. An authenticated user
// without a cart counts zero. Anonymous shoppers are counted from the guest
// store, which itself treats anything unreadable as zero.
func (p *Projector) Count(ctx context.Context, userID uuid.UUID, guestToken string) (int, error) {
	if userID == uuid.Nil {
		if p.guest == nil {
			return 0, nil
		}
		return p.guest.Count(ctx, guestToken), nil
	}

	record, err := p.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := p.repo.ListItems(ctx, record.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total, nil
}
