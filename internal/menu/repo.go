package menu

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Menu returns the published categories and items of a store in display
// order. A store with nothing synced yet comes back as an empty slice.
func (r *Repo) Menu(ctx context.Context, storeSlug string) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.slug, c.name, COALESCE(c.description, ''),
		       i.id, i.name, COALESCE(i.description, ''),
		       i.price_cents, i.currency, COALESCE(i.image_path, ''), i.tags
		FROM menu_items i
		JOIN menu_categories c ON c.id = i.category_id
		WHERE i.store_slug = $1 AND i.published AND c.published
		ORDER BY c.sort_order, i.sort_order, i.name`, storeSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	index := map[string]int{}
	for rows.Next() {
		var catSlug, catName, catDesc string
		var it Item
		if err := rows.Scan(&catSlug, &catName, &catDesc,
			&it.ID, &it.Name, &it.Description, &it.PriceCents, &it.Currency, &it.Image, &it.Tags); err != nil {
			return nil, err
		}
		i, ok := index[catSlug]
		if !ok {
			i = len(out)
			index[catSlug] = i
			out = append(out, Category{ID: catSlug, Name: catName, Description: catDesc})
		}
		out[i].Items = append(out[i].Items, it)
	}
	return out, rows.Err()
}
