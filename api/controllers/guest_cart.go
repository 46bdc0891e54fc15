package controllers

import (
	"net/http"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/middleware"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/responses"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/validators"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/guestcart"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

type guestCartItemPayload struct {
	ID        string  `json:"id" validate:"required"`
	ProductID string  `json:"product_id" validate:"required,uuid"`
	PackSize  *string `json:"pack_size,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

type saveGuestCartPayload struct {
	Items []guestCartItemPayload `json:"items" validate:"dive"`
}

// GuestCartSave replaces the anonymous cart for the caller's guest token.
// The browser mirrors its session cart here so the badge survives tabs
// and devices until the shopper logs in.
func GuestCartSave(store *guestcart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := middleware.GuestTokenFromContext(ctx)
		if token == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest cart token header is required"))
			return
		}

		var payload saveGuestCartPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]guestcart.Item, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, guestcart.Item{
				ID:        item.ID,
				ProductID: item.ProductID,
				PackSize:  item.PackSize,
				Quantity:  item.Quantity,
			})
		}

		if err := store.Save(ctx, token, guestcart.Payload{Items: items}); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest cart"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"saved": true})
	}
}
