package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shortlink-backend/internal/domain"
	"github.com/tbourn/go-shortlink-backend/internal/repo"
)

// ---------- test DB + repo shim ----------

func newLinkDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:link_service_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Link{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Minimal shim implementing LinkRepo using the repo package (like router.go)
type testLinkRepo struct{}

func (testLinkRepo) CreateLink(ctx context.Context, db *gorm.DB, slug, url string) (*domain.Link, error) {
	return repo.CreateLink(ctx, db, slug, url)
}

func (testLinkRepo) GetLinkBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Link, error) {
	return repo.GetLinkBySlug(ctx, db, slug)
}

func (testLinkRepo) CountLinks(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountLinks(ctx, db)
}

func (testLinkRepo) ListLinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Link, error) {
	return repo.ListLinksPage(ctx, db, offset, limit)
}

func newService(t *testing.T) *LinkService {
	t.Helper()
	return NewLinkService(newLinkDB(t), testLinkRepo{}, "topsecret", "/")
}

// ---------- Authorize ----------

func TestAuthorize(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"exact match", "topsecret", nil},
		{"empty", "", ErrUnauthorized},
		{"truncated", "topsecr", ErrUnauthorized},
		{"same length mismatch", "topsecrex", ErrUnauthorized},
		{"longer", "topsecret1", ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Authorize(tc.token); !errors.Is(err, tc.want) && err != tc.want {
				t.Fatalf("Authorize(%q) = %v, want %v", tc.token, err, tc.want)
			}
		})
	}
}

func TestAuthorizeEmptySecretRejectsEverything(t *testing.T) {
	svc := NewLinkService(nil, testLinkRepo{}, "", "/")
	if err := svc.Authorize(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty/empty: %v", err)
	}
	if err := svc.Authorize("anything"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty secret: %v", err)
	}
}

// ---------- Create ----------

func TestCreateWithCallerSlug(t *testing.T) {
	svc := newService(t)

	link, err := svc.Create(context.Background(), "topsecret", "https://example.com", "promo")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if link.Slug != "promo" {
		t.Errorf("Slug = %q, want caller-supplied value verbatim", link.Slug)
	}
	if link.ID == 0 || link.CreatedAt.IsZero() {
		t.Errorf("store did not assign id/timestamp: %+v", link)
	}
}

func TestCreateGeneratesSlugWhenAbsent(t *testing.T) {
	svc := newService(t)
	svc.NewSlug = func() string { return "generated123" }

	link, err := svc.Create(context.Background(), "topsecret", "https://example.com", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if link.Slug != "generated123" {
		t.Errorf("Slug = %q, want generator output", link.Slug)
	}
}

func TestCreateUnauthorized(t *testing.T) {
	svc := newService(t)

	for _, token := range []string{"", "wrong", "topsecre"} {
		if _, err := svc.Create(context.Background(), token, "https://example.com", ""); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("token %q: err = %v, want ErrUnauthorized", token, err)
		}
	}

	// Nothing may have been persisted by failed attempts.
	if total, err := repo.CountLinks(context.Background(), svc.DB); err != nil || total != 0 {
		t.Errorf("store after unauthorized creates: total=%d err=%v", total, err)
	}
}

func TestCreateRequiresURL(t *testing.T) {
	svc := newService(t)

	for _, u := range []string{"", "   "} {
		if _, err := svc.Create(context.Background(), "topsecret", u, "x"); !errors.Is(err, ErrURLRequired) {
			t.Errorf("url %q: err = %v, want ErrURLRequired", u, err)
		}
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "topsecret", "https://example.com/a", "dup"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, "topsecret", "https://example.com/b", "dup"); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("second Create: err = %v, want ErrSlugTaken", err)
	}
}

// raceRepo simulates the store's atomic unique constraint so the
// one-winner property can be exercised with many concurrent callers
// without depending on sqlite write scheduling.
type raceRepo struct {
	mu    sync.Mutex
	slugs map[string]struct{}
}

func (r *raceRepo) CreateLink(ctx context.Context, db *gorm.DB, slug, url string) (*domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.slugs[slug]; taken {
		return nil, gorm.ErrDuplicatedKey
	}
	r.slugs[slug] = struct{}{}
	return &domain.Link{ID: uint(len(r.slugs)), Slug: slug, URL: url}, nil
}

func (r *raceRepo) GetLinkBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Link, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *raceRepo) CountLinks(ctx context.Context, db *gorm.DB) (int64, error) { return 0, nil }

func (r *raceRepo) ListLinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Link, error) {
	return nil, nil
}

func TestCreateConcurrentSameSlugOneWinner(t *testing.T) {
	svc := NewLinkService(nil, &raceRepo{slugs: make(map[string]struct{})}, "topsecret", "/")

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), "topsecret", "https://example.com", "contested")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlugTaken):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != n-1 {
		t.Fatalf("wins=%d losses=%d, want exactly one winner", wins, losses)
	}
}

// ---------- Resolve ----------

func TestResolveRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "topsecret", "https://example.com/target", "go"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, hit := svc.Resolve(ctx, "go")
	if got != "https://example.com/target" {
		t.Fatalf("Resolve = %q", got)
	}
	if !hit {
		t.Error("hit = false for a stored slug")
	}
}

func TestResolveFallsBackToSiteRoot(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if got, hit := svc.Resolve(ctx, ""); got != "/" || hit {
		t.Errorf("empty slug: (%q, %v), want site root and no hit", got, hit)
	}
	if got, hit := svc.Resolve(ctx, "missing"); got != "/" || hit {
		t.Errorf("unknown slug: (%q, %v), want site root and no hit", got, hit)
	}
}

// failRepo simulates an unreachable store.
type failRepo struct{}

func (failRepo) CreateLink(ctx context.Context, db *gorm.DB, slug, url string) (*domain.Link, error) {
	return nil, errors.New("store unreachable")
}

func (failRepo) GetLinkBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Link, error) {
	return nil, errors.New("store unreachable")
}

func (failRepo) CountLinks(ctx context.Context, db *gorm.DB) (int64, error) {
	return 0, errors.New("store unreachable")
}

func (failRepo) ListLinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Link, error) {
	return nil, errors.New("store unreachable")
}

func TestResolveStoreFailureFallsOpen(t *testing.T) {
	svc := NewLinkService(nil, failRepo{}, "topsecret", "https://example.com")
	got, hit := svc.Resolve(context.Background(), "anything")
	if got != "https://example.com" || hit {
		t.Fatalf("Resolve on store failure = (%q, %v), want configured site root", got, hit)
	}
}

// ---------- ListPage ----------

func TestListPage(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "topsecret", fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("p%d", i)); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	items, total, err := svc.ListPage(ctx, 0, -1) // invalid inputs get defaults
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d len=%d, want 3/3", total, len(items))
	}

	items, total, err = svc.ListPage(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPage page 2: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Fatalf("page 2: total=%d len=%d, want 3/1", total, len(items))
	}
}

func TestListPageEmptyStore(t *testing.T) {
	svc := newService(t)

	items, total, err := svc.ListPage(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("total=%d len=%d, want empty", total, len(items))
	}
}
