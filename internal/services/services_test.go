package services_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/repos"
	"storefront/internal/services"
)

// fakeBlob hands out predictable addresses and counts calls.
type fakeBlob struct {
	mu    sync.Mutex
	calls   int
	err     error
	removed []string
	// gate, when set, blocks every upload until it is closed.
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeBlob) Upload(ctx context.Context, r io.Reader, name string) (string, error) {
	f.mu.Lock()
	f.calls++
	started, gate, err := f.started, f.gate, f.err
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, r)
	return "https://cdn.test/" + name, nil
}

func (f *fakeBlob) Remove(ctx context.Context, addr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, addr)
	return nil
}

func (f *fakeBlob) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

func (f *fakeBlob) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	db      *sqlx.DB
	blobs   *fakeBlob
	catalog *services.CatalogService
	auth    *services.AuthService
	sess    *services.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:", "admin123")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:    db,
		blobs: &fakeBlob{},
		auth:  &services.AuthService{Admin: repos.NewAdminRepo(db), Cost: bcrypt.MinCost},
		sess:  services.NewSessionStore(0),
	}
	f.catalog = services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db), f.blobs)
	if err := f.catalog.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return f
}

// admin logs sid in with the default PIN and completes the security setup.
func (f *fixture) admin(t *testing.T, sid string) *services.Session {
	t.Helper()
	ctx := context.Background()
	s := f.sess.Get(sid)
	res, err := f.auth.Login(ctx, s, "admin123")
	if err != nil || !res.OK {
		t.Fatalf("login: %+v %v", res, err)
	}
	if res.NeedsSecuritySetup {
		if err := f.auth.SetupSecurity(ctx, s, "dog", "Bruno", ""); err != nil {
			t.Fatalf("security setup: %v", err)
		}
	}
	if !s.IsAdmin() {
		t.Fatal("expected admin session")
	}
	return s
}

func (f *fixture) firstCategory(t *testing.T) string {
	t.Helper()
	cats := f.catalog.Categories()
	if len(cats) == 0 {
		t.Fatal("no seeded categories")
	}
	return cats[0].ID
}

func wantErrType[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("want %T, got %v", target, err)
	}
	return target
}
