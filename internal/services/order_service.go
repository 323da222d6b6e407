package services

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/messaging"
)

type OrderStore interface {
	Create(ctx context.Context, o domain.Order) (string, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Order, error)
}

// OrderService hands an in-stock product off to the shop's WhatsApp chat and
// keeps a record of each hand-off.
type OrderService struct {
	Catalog  *CatalogService
	Orders   OrderStore
	WhatsApp messaging.WhatsApp
}

func NewOrderService(cat *CatalogService, orders OrderStore, wa messaging.WhatsApp) *OrderService {
	return &OrderService{Catalog: cat, Orders: orders, WhatsApp: wa}
}

// Enquiry collects what the shopper is looking at: the product, whatever
// variants they picked, the effective price and the image on screen.
func (s *OrderService) Enquiry(sess *Session, productID string) (messaging.Enquiry, error) {
	p, ok := s.Catalog.Product(productID)
	if !ok {
		return messaging.Enquiry{}, ErrNotFound
	}
	if !p.InStock() {
		return messaging.Enquiry{}, ErrOutOfStock
	}

	e := messaging.Enquiry{ProductName: p.Name, EffectivePrice: p.EffectivePrice()}
	var color string
	if sel := sess.selections(); sel != nil {
		if chosen, ok := sel.Get(p.ID); ok {
			color = chosen.Color
			e.ChosenColor = chosen.Color
			e.ChosenSize = chosen.Size
		}
	}
	e.ImageAddress = catalog.ThumbnailImage(p, color)
	return e, nil
}

// Link builds the WhatsApp link and records the enquiry. A failed record is
// logged but does not stop the hand-off.
func (s *OrderService) Link(ctx context.Context, sess *Session, productID string) (string, error) {
	e, err := s.Enquiry(sess, productID)
	if err != nil {
		return "", err
	}
	if s.Orders != nil {
		o := domain.Order{
			ProductID:   productID,
			ProductName: e.ProductName,
			Color:       e.ChosenColor,
			Size:        e.ChosenSize,
			Price:       e.EffectivePrice,
		}
		if sess != nil {
			o.SessionID = sess.ID
		}
		if _, err := s.Orders.Create(ctx, o); err != nil {
			applog.Event("error", "order.record", err, map[string]any{"product_id": productID})
		}
	}
	return s.WhatsApp.Link(e), nil
}

// Recent lists the latest enquiries for the admin.
func (s *OrderService) Recent(ctx context.Context, sess *Session, limit int) ([]domain.Order, error) {
	if !sess.IsAdmin() {
		return nil, &AuthorizationError{Action: "view enquiries"}
	}
	out, err := s.Orders.ListLatest(ctx, limit)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return out, nil
}
