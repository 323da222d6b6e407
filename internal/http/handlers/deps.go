package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/blob"
	"storefront/internal/config"
	"storefront/internal/messaging"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	Sessions *services.SessionStore
	Auth     *services.AuthService
	Catalog  *services.CatalogService

	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	OrderHandler    *OrderHandler
	AuthHandler     *AuthHandler
	AdminHandler    *AdminHandler
}

// SessionTTL is how long an idle shopper session is kept in memory.
const SessionTTL = 12 * time.Hour

func NewDeps(db *sqlx.DB, cfg config.Config, blobs blob.Store) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	adminRepo := repos.NewAdminRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	sessions := services.NewSessionStore(SessionTTL)
	authSvc := services.NewAuthService(adminRepo)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo, blobs)
	orderSvc := services.NewOrderService(catalogSvc, orderRepo, messaging.WhatsApp{Number: cfg.WhatsAppNumber})

	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Deps{
		Sessions: sessions,
		Auth:     authSvc,
		Catalog:  catalogSvc,

		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc, Timeout: timeout},
		AuthHandler:     &AuthHandler{Auth: authSvc, Timeout: timeout},
		AdminHandler: &AdminHandler{
			Catalog:        catalogSvc,
			Timeout:        timeout,
			MaxUploadBytes: int64(cfg.MaxUploadBytes),
		},
	}
}
