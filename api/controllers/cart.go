package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/middleware"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/responses"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/validators"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/cart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/pricing"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

type addCartItemPayload struct {
	ProductID string  `json:"product_id,omitempty" validate:"omitempty,uuid"`
	GiftBoxID string  `json:"gift_box_id,omitempty" validate:"omitempty,uuid"`
	PackSize  *string `json:"pack_size,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type mergeCartPayload struct {
	GuestToken string `json:"guest_token" validate:"required"`
}

func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

func (p addCartItemPayload) lineRef() (cart.LineRef, error) {
	hasProduct := strings.TrimSpace(p.ProductID) != ""
	hasGiftBox := strings.TrimSpace(p.GiftBoxID) != ""
	if hasProduct == hasGiftBox {
		return cart.LineRef{}, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of product_id or gift_box_id is required")
	}
	if hasGiftBox {
		id, err := uuid.Parse(p.GiftBoxID)
		if err != nil {
			return cart.LineRef{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gift box id")
		}
		return cart.GiftBoxRef(id), nil
	}
	id, err := uuid.Parse(p.ProductID)
	if err != nil {
		return cart.LineRef{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return cart.ProductRef(id), nil
}

// CartGet returns the priced cart with display totals.
func CartGet(svc cart.Service, taxRate string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.GetItems(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		totals := pricing.DisplayTotals(view.TotalCents(), taxRate)
		responses.WriteSuccess(w, map[string]any{
			"cart_id":        view.CartID,
			"items":          view.Items,
			"warnings":       view.Warnings,
			"count":          view.Count(),
			"subtotal_cents": view.TotalCents(),
			"subtotal":       totals.Subtotal,
			"tax":            totals.Tax,
			"grand_total":    totals.Grand,
		})
	}
}

// CartAddItem adds a product or gift box line to the shopper's cart.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ref, err := payload.lineRef()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.GetOrCreate(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.AddItem(ctx, record.ID, cart.AddItemInput{
			Ref:      ref,
			Quantity: payload.Quantity,
			PackSize: payload.PackSize,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"added": true})
	}
}

// CartUpdateItem sets a line's quantity.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, err := authedUserID(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.UpdateQuantity(ctx, itemID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// CartRemoveItem removes a line.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, err := authedUserID(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		if err := svc.RemoveItem(ctx, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}

// CartClear empties the shopper's cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Clear(ctx, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

// CartCount serves the badge for both authenticated and anonymous shoppers.
func CartCount(projector *cart.Projector, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := uuid.Nil
		if raw := middleware.UserIDFromContext(ctx); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err == nil {
				userID = parsed
			}
		}

		count, err := projector.Count(ctx, userID, middleware.GuestTokenFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": count})
	}
}

// CartMerge folds a guest cart into the authenticated cart after login.
func CartMerge(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload mergeCartPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.MergeGuestCart(ctx, userID, strings.TrimSpace(payload.GuestToken)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"merged": true})
	}
}
