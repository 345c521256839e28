package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// idNamespace scopes the deterministic UUIDs minted for synced rows.
// Changing it would re-key every store, so it never changes.
var idNamespace = uuid.MustParse("7a5f3c1e-92b4-4c8a-9f6d-2e8b1d0c4a73")

// DeterministicID derives the row id for a category or item from
// (store_slug, kind, local_id). Re-running the sync with unchanged input
// always produces the same ids, which is what makes the upsert idempotent.
func DeterministicID(storeSlug, kind, localID string) string {
	return uuid.NewSHA1(idNamespace, []byte(storeSlug+":"+kind+":"+localID)).String()
}

type upsertCategory struct {
	ID          string
	StoreSlug   string
	Slug        string
	Name        string
	Description string
	SortOrder   int
}

type upsertItem struct {
	ID          string
	StoreSlug   string
	CategoryID  string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	ImagePath   string
	Tags        []string
	SortOrder   int
}

// Syncer upserts a local store definition into the menu tables.
type Syncer struct {
	DB *pgxpool.Pool
	// AssetBaseURL, when set, rewrites relative image references to public
	// URLs under it.
	AssetBaseURL    string
	DefaultCurrency string
}

// LoadStoreFile reads stores/<slug>.json under dir.
func LoadStoreFile(dir, slug string) (StoreFile, error) {
	b, err := os.ReadFile(filepath.Join(dir, slug+".json"))
	if err != nil {
		return StoreFile{}, err
	}
	var s StoreFile
	if err := json.Unmarshal(b, &s); err != nil {
		return StoreFile{}, fmt.Errorf("parse store file: %w", err)
	}
	if s.Slug == "" {
		s.Slug = slug
	}
	return s, nil
}

// Sync upserts every category then every item, keyed by deterministic id,
// in one transaction. Returns the category and item counts written.
func (s *Syncer) Sync(ctx context.Context, store StoreFile) (int, int, error) {
	cats := s.buildCategories(store)
	items := s.buildItems(store)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range cats {
		_, err := tx.Exec(ctx, `
			INSERT INTO menu_categories (id, store_slug, slug, name, description, sort_order, published)
			VALUES ($1, $2, $3, $4, $5, $6, true)
			ON CONFLICT (id) DO UPDATE
			SET slug = EXCLUDED.slug, name = EXCLUDED.name,
			    description = EXCLUDED.description, sort_order = EXCLUDED.sort_order,
			    published = true
		`, c.ID, c.StoreSlug, c.Slug, c.Name, nullable(c.Description), c.SortOrder)
		if err != nil {
			return 0, 0, fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}

	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO menu_items (id, store_slug, category_id, name, description,
				price_cents, currency, image_path, tags, sort_order, published)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
			ON CONFLICT (id) DO UPDATE
			SET category_id = EXCLUDED.category_id, name = EXCLUDED.name,
			    description = EXCLUDED.description, price_cents = EXCLUDED.price_cents,
			    currency = EXCLUDED.currency, image_path = EXCLUDED.image_path,
			    tags = EXCLUDED.tags, sort_order = EXCLUDED.sort_order, published = true
		`, it.ID, it.StoreSlug, it.CategoryID, it.Name, nullable(it.Description),
			it.PriceCents, it.Currency, nullable(it.ImagePath), it.Tags, it.SortOrder)
		if err != nil {
			return 0, 0, fmt.Errorf("upsert item %s: %w", it.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return len(cats), len(items), nil
}

func (s *Syncer) buildCategories(store StoreFile) []upsertCategory {
	out := make([]upsertCategory, 0, len(store.Categories))
	for i, c := range store.Categories {
		out = append(out, upsertCategory{
			ID:          DeterministicID(store.Slug, "category", c.ID),
			StoreSlug:   store.Slug,
			Slug:        c.ID,
			Name:        c.Name,
			Description: c.Description,
			SortOrder:   i,
		})
	}
	return out
}

func (s *Syncer) buildItems(store StoreFile) []upsertItem {
	var out []upsertItem
	for _, c := range store.Categories {
		categoryID := DeterministicID(store.Slug, "category", c.ID)
		for i, it := range c.Items {
			currency := it.Currency
			if currency == "" {
				currency = s.DefaultCurrency
			}
			out = append(out, upsertItem{
				ID:          DeterministicID(store.Slug, "item", it.ID),
				StoreSlug:   store.Slug,
				CategoryID:  categoryID,
				Name:        it.Name,
				Description: it.Description,
				PriceCents:  normalizePrice(it.Price),
				Currency:    currency,
				ImagePath:   s.rewriteImage(it.Image),
				Tags:        it.Tags,
				SortOrder:   i,
			})
		}
	}
	return out
}

// normalizePrice converts a decimal major-unit price to cents.
func normalizePrice(price float64) int64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return int64(math.Round(price * 100))
}

func (s *Syncer) rewriteImage(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if s.AssetBaseURL != "" {
		return strings.TrimSuffix(s.AssetBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
