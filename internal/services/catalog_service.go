package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront/internal/blob"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/validate"
)

type CategoryStore interface {
	List(ctx context.Context) ([]domain.Category, error)
	Insert(ctx context.Context, c domain.Category) (string, error)
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id string) error
}

type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (string, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) (int64, error)
}

// Snapshot is the cached catalog. It is replaced wholesale on every reload
// and never patched in place.
type Snapshot struct {
	Categories []domain.Category
	Products   []domain.Product
	FetchedAt  time.Time
}

// Upload is an image file handed in by an admin form.
type Upload struct {
	Name string
	Body io.Reader
}

// CatalogService owns the catalog cache and every write to the catalog store.
// Writes are serialized: a second one while the first is still in flight gets ErrBusy.
type CatalogService struct {
	Cats  CategoryStore
	Prods ProductStore
	Blobs blob.Store

	mu   sync.RWMutex
	snap Snapshot

	writeMu sync.Mutex
}

func NewCatalogService(cats CategoryStore, prods ProductStore, blobs blob.Store) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Blobs: blobs}
}

func (s *CatalogService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload fetches categories and products in parallel and swaps the cache.
// On failure the previous snapshot stays in place.
func (s *CatalogService) Reload(ctx context.Context) error {
	var (
		cats  []domain.Category
		prods []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = s.Cats.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prods, err = s.Prods.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		applog.Event("error", "catalog_reload", err, nil)
		return &StoreError{Op: "reload catalog", Err: err}
	}

	s.mu.Lock()
	s.snap = Snapshot{Categories: cats, Products: prods, FetchedAt: time.Now()}
	s.mu.Unlock()
	applog.Event("info", "catalog_reload", nil, map[string]any{"categories": len(cats), "products": len(prods)})
	return nil
}

func (s *CatalogService) Categories() []domain.Category {
	return s.Snapshot().Categories
}

func (s *CatalogService) Product(id string) (domain.Product, bool) {
	for _, p := range s.Snapshot().Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *CatalogService) category(id string) (domain.Category, bool) {
	for _, c := range s.Snapshot().Categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// View builds the catalog grid for sess.
func (s *CatalogService) View(q catalog.Query, sess *Session) []domain.ViewRow {
	snap := s.Snapshot()
	return catalog.BuildView(snap.Products, snap.Categories, q, sess.selections(), sess)
}

// Select records a variant choice for sess and returns the product's new row.
func (s *CatalogService) Select(sess *Session, productID, kind, value string) (domain.ViewRow, error) {
	k, err := catalog.ParseVariantKind(kind)
	if err != nil {
		return domain.ViewRow{}, invalid("kind", "must be color or size")
	}
	p, ok := s.Product(productID)
	if !ok {
		return domain.ViewRow{}, ErrNotFound
	}
	sel := sess.selections()
	if sel != nil {
		sel.Select(p, k, value)
	}
	rows := catalog.BuildView([]domain.Product{p}, s.Categories(), catalog.Query{}, sel, sess)
	return rows[0], nil
}

type CategoryInput struct {
	ID       string // empty creates
	Name     string
	ImageURL string
	Image    *Upload
}

// SaveCategory creates or updates a category and returns its id.
func (s *CatalogService) SaveCategory(ctx context.Context, sess *Session, in CategoryInput) (string, error) {
	if !sess.IsAdmin() {
		return "", &AuthorizationError{Action: "save categories"}
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return "", invalid("name", "category name is required")
	}
	c := domain.Category{Name: name}
	if in.ID != "" {
		existing, ok := s.category(in.ID)
		if !ok {
			return "", ErrNotFound
		}
		c = existing
		c.Name = name
	}
	if u := strings.TrimSpace(in.ImageURL); u != "" {
		c.ImageURL = u
	}
	if in.Image != nil {
		if err := blob.CheckImageName(in.Image.Name); err != nil {
			return "", invalid("image", err.Error())
		}
	}

	if !s.writeMu.TryLock() {
		return "", ErrBusy
	}
	defer s.writeMu.Unlock()

	var added []string
	committed := false
	defer func() {
		if !committed {
			s.discard(ctx, added)
		}
	}()

	if in.Image != nil {
		addr, err := s.upload(ctx, *in.Image)
		if err != nil {
			return "", err
		}
		added = append(added, addr)
		c.ImageURL = addr
	}

	id := c.ID
	if id == "" {
		var err error
		if id, err = s.Cats.Insert(ctx, c); err != nil {
			return "", storeErr("insert category", err)
		}
	} else if err := s.Cats.Update(ctx, c); err != nil {
		return "", storeErr("update category", err)
	}
	committed = true
	return id, s.Reload(ctx)
}

// DeleteCategory removes the category and every product in it. Products go
// first so a failure part-way never leaves products pointing at nothing.
func (s *CatalogService) DeleteCategory(ctx context.Context, sess *Session, id string) (int64, error) {
	if !sess.IsAdmin() {
		return 0, &AuthorizationError{Action: "delete categories"}
	}
	if _, ok := s.category(id); !ok {
		return 0, ErrNotFound
	}
	if !s.writeMu.TryLock() {
		return 0, ErrBusy
	}
	defer s.writeMu.Unlock()

	n, err := s.Prods.DeleteByCategory(ctx, id)
	if err != nil {
		return 0, storeErr("delete category products", err)
	}
	if err := s.Cats.Delete(ctx, id); err != nil {
		// products are already gone; refresh so the cache reflects that
		_ = s.Reload(ctx)
		return n, storeErr("delete category", err)
	}
	return n, s.Reload(ctx)
}

type ProductInput struct {
	ID           string // empty creates
	Name         string
	CategoryID   string
	MRP          string
	Price        string
	Quantity     string
	ColorOptions string
	SizeOptions  string
	ImageURL     string
	Image        *Upload
	// Per-variant image overrides keyed by color name. Uploads win over URLs.
	VariantURLs    map[string]string
	VariantUploads map[string]Upload
}

// SaveProduct validates, uploads any images, writes the product and reloads.
// Nothing is written when an upload fails.
func (s *CatalogService) SaveProduct(ctx context.Context, sess *Session, in ProductInput) (string, error) {
	if !sess.IsAdmin() {
		return "", &AuthorizationError{Action: "save products"}
	}
	p, err := s.productFromInput(in)
	if err != nil {
		return "", err
	}

	if !s.writeMu.TryLock() {
		return "", ErrBusy
	}
	defer s.writeMu.Unlock()

	var added []string
	committed := false
	defer func() {
		if !committed {
			s.discard(ctx, added)
		}
	}()

	if in.Image != nil {
		if p.ImageURL, err = s.upload(ctx, *in.Image); err != nil {
			return "", err
		}
		added = append(added, p.ImageURL)
	}
	colors := catalog.ParseOptions(p.ColorOptionsRaw)
	for _, name := range sortedKeys(in.VariantUploads) {
		if !contains(colors, name) {
			continue
		}
		addr, err := s.upload(ctx, in.VariantUploads[name])
		if err != nil {
			return "", err
		}
		added = append(added, addr)
		if p.VariantImages == nil {
			p.VariantImages = domain.VariantImages{}
		}
		p.VariantImages[name] = addr
	}

	id := p.ID
	if id == "" {
		if id, err = s.Prods.Insert(ctx, p); err != nil {
			return "", storeErr("insert product", err)
		}
	} else if err := s.Prods.Update(ctx, p); err != nil {
		return "", storeErr("update product", err)
	}
	committed = true
	return id, s.Reload(ctx)
}

// productFromInput runs every check that needs no I/O.
func (s *CatalogService) productFromInput(in ProductInput) (domain.Product, error) {
	var p domain.Product
	if in.ID != "" {
		existing, ok := s.Product(in.ID)
		if !ok {
			return p, ErrNotFound
		}
		p = existing
	}

	catID := strings.TrimSpace(in.CategoryID)
	if catID == "" {
		return p, invalid("category", "category is required")
	}
	if _, ok := s.category(catID); !ok {
		return p, invalid("category", "unknown category")
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return p, invalid("name", "product name is required")
	}
	mrp, ok := validate.Money(in.MRP)
	if !ok {
		return p, invalid("mrp", "MRP is required")
	}
	price := decimal.Zero
	if strings.TrimSpace(in.Price) != "" {
		if price, ok = validate.Money(in.Price); !ok {
			return p, invalid("price", "price must be a non-negative amount")
		}
	}
	// a special price only sticks when it undercuts the MRP
	if !price.IsPositive() || !price.LessThan(mrp) {
		price = decimal.Zero
	}

	if u := strings.TrimSpace(in.ImageURL); u != "" {
		p.ImageURL = u
	}
	if p.ImageURL == "" && in.Image == nil {
		return p, invalid("image", "a default image is required")
	}
	if in.Image != nil {
		if err := blob.CheckImageName(in.Image.Name); err != nil {
			return p, invalid("image", err.Error())
		}
	}
	for name, u := range in.VariantUploads {
		if err := blob.CheckImageName(u.Name); err != nil {
			return p, invalid("variant_image["+name+"]", err.Error())
		}
	}

	p.CategoryID = catID
	p.Name = name
	p.MRP = mrp
	p.Price = price
	p.Quantity = validate.Qty(in.Quantity)
	p.ColorOptionsRaw = strings.TrimSpace(in.ColorOptions)
	p.SizeOptionsRaw = strings.TrimSpace(in.SizeOptions)
	p.VariantImages = mergeVariantImages(p.VariantImages, in.VariantURLs, catalog.ParseOptions(p.ColorOptionsRaw))
	return p, nil
}

// mergeVariantImages overlays urls on existing and drops entries for colors
// the product no longer offers.
func mergeVariantImages(existing domain.VariantImages, urls map[string]string, colors []string) domain.VariantImages {
	out := domain.VariantImages{}
	for k, v := range existing {
		if contains(colors, k) {
			out[k] = v
		}
	}
	for k, v := range urls {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if v != "" && contains(colors, k) {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *CatalogService) DeleteProduct(ctx context.Context, sess *Session, id string) error {
	if !sess.IsAdmin() {
		return &AuthorizationError{Action: "delete products"}
	}
	if _, ok := s.Product(id); !ok {
		return ErrNotFound
	}
	if !s.writeMu.TryLock() {
		return ErrBusy
	}
	defer s.writeMu.Unlock()

	if err := s.Prods.Delete(ctx, id); err != nil {
		return storeErr("delete product", err)
	}
	return s.Reload(ctx)
}

func (s *CatalogService) upload(ctx context.Context, u Upload) (string, error) {
	if s.Blobs == nil {
		return "", &UploadError{Name: u.Name, Err: errors.New("no blob store configured")}
	}
	addr, err := s.Blobs.Upload(ctx, u.Body, u.Name)
	if err != nil {
		return "", &UploadError{Name: u.Name, Err: err}
	}
	if strings.TrimSpace(addr) == "" {
		return "", &UploadError{Name: u.Name, Err: errors.New("blob store returned no address")}
	}
	return addr, nil
}

// discard removes blobs uploaded for a write that never reached the store.
// Stores without removal support keep them.
func (s *CatalogService) discard(ctx context.Context, addrs []string) {
	r, ok := s.Blobs.(blob.Remover)
	if !ok || len(addrs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, addr := range addrs {
		if err := r.Remove(ctx, addr); err != nil {
			applog.Event("warn", "blob.discard", err, map[string]any{"address": addr})
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
