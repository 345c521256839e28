package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo computes read-only rollups over the orders table. Every query
// excludes cancelled orders; empty result sets come back as zeroes, not
// errors.
type Repo struct{ DB *pgxpool.Pool }

// predicate builds the shared WHERE clause for a filter. Columns are left
// unqualified so the same clause works for the jsonb_array_elements join.
func predicate(f Filter) (string, []any) {
	args := []any{f.Range.Start, f.Range.End}
	where := ` WHERE created_at >= $1 AND created_at <= $2 AND status <> 'cancelled'`
	if f.StoreSlug != "" {
		args = append(args, f.StoreSlug)
		where += fmt.Sprintf(" AND store_slug = $%d", len(args))
	}
	return where, args
}

const summaryStatsSQL = `
	SELECT COUNT(*)::bigint,
	       COALESCE(SUM(total_cents), 0)::bigint,
	       AVG(total_cents)::float8,
	       COUNT(*) FILTER (WHERE status = 'completed')::bigint,
	       COUNT(*) FILTER (WHERE status IN ('pending', 'preparing', 'ready'))::bigint,
	       AVG(EXTRACT(EPOCH FROM (completed_at - created_at)) / 60)
	           FILTER (WHERE completed_at IS NOT NULL)::float8
	FROM orders`

const summaryHourlySQL = `
	SELECT TO_CHAR(created_at, 'HH24:00'),
	       COUNT(*)::bigint,
	       COALESCE(SUM(total_cents), 0)::bigint
	FROM orders`

// summaryQueries appends one shared predicate to both summary queries, so the
// core figures and the hourly buckets always cover the same rows.
func summaryQueries(where string) (stats, hourly string) {
	return summaryStatsSQL + where,
		summaryHourlySQL + where + `
	GROUP BY TO_CHAR(created_at, 'HH24:00')
	ORDER BY 1`
}

func (r *Repo) Summary(ctx context.Context, f Filter) (Summary, error) {
	where, args := predicate(f)
	statsQ, hourlyQ := summaryQueries(where)

	var (
		orders, completed, pending int64
		revenueCents               int64
		avgCents, avgMinutes       *float64
	)
	err := r.DB.QueryRow(ctx, statsQ, args...).
		Scan(&orders, &revenueCents, &avgCents, &completed, &pending, &avgMinutes)
	if err != nil {
		return Summary{}, fmt.Errorf("summary stats: %w", err)
	}

	s := Summary{
		TotalRevenue:       float64(revenueCents) / 100,
		TotalOrders:        int(orders),
		CompletedOrders:    int(completed),
		PendingOrders:      int(pending),
		AvgFulfillmentTime: avgMinutes,
		HourlyData:         []HourlyBucket{},
	}
	if avgCents != nil {
		s.AvgOrderValue = *avgCents / 100
	}

	rows, err := r.DB.Query(ctx, hourlyQ, args...)
	if err != nil {
		return Summary{}, fmt.Errorf("summary hourly: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b HourlyBucket
		var n, cents int64
		if err := rows.Scan(&b.Hour, &n, &cents); err != nil {
			return Summary{}, err
		}
		b.Orders = int(n)
		b.Revenue = float64(cents) / 100
		s.HourlyData = append(s.HourlyData, b)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	if f.ComparePrevious {
		prev := f
		prev.Range = f.Range.Previous()
		pw, pargs := predicate(prev)

		var pOrders, pCents int64
		var pAvg *float64
		err := r.DB.QueryRow(ctx, `
			SELECT COUNT(*)::bigint,
			       COALESCE(SUM(total_cents), 0)::bigint,
			       AVG(total_cents)::float8
			FROM orders`+pw, pargs...,
		).Scan(&pOrders, &pCents, &pAvg)
		if err != nil {
			return Summary{}, fmt.Errorf("summary comparison: %w", err)
		}
		c := &Comparison{Revenue: float64(pCents) / 100, Orders: int(pOrders)}
		if pAvg != nil {
			c.AvgOrderValue = *pAvg / 100
		}
		s.Comparison = c
	}
	return s, nil
}

// HourlyBreakdown returns the (hour, day-of-week) grid plus the top five
// slots by order count.
func (r *Repo) HourlyBreakdown(ctx context.Context, f Filter) ([]HourlySlot, []PeakHour, error) {
	where, args := predicate(f)

	rows, err := r.DB.Query(ctx, `
		SELECT EXTRACT(HOUR FROM created_at)::int,
		       EXTRACT(DOW FROM created_at)::int,
		       COUNT(*)::bigint,
		       COALESCE(SUM(total_cents), 0)::bigint,
		       AVG(total_cents)::float8
		FROM orders`+where+`
		GROUP BY 1, 2
		ORDER BY 1, 2`, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("hourly breakdown: %w", err)
	}
	defer rows.Close()

	slots := []HourlySlot{}
	for rows.Next() {
		var s HourlySlot
		var n, cents int64
		var avg *float64
		if err := rows.Scan(&s.Hour, &s.DayOfWeek, &n, &cents, &avg); err != nil {
			return nil, nil, err
		}
		s.OrderCount = int(n)
		s.TotalRevenue = float64(cents) / 100
		if avg != nil {
			s.AvgOrderValue = *avg / 100
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return slots, rankPeakHours(slots, 5), nil
}

// rankPeakHours sorts slots by order count descending and keeps the top n.
func rankPeakHours(slots []HourlySlot, n int) []PeakHour {
	ranked := make([]HourlySlot, len(slots))
	copy(ranked, slots)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OrderCount > ranked[j].OrderCount
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	peaks := []PeakHour{}
	for _, s := range ranked {
		peaks = append(peaks, PeakHour{Hour: s.Hour, OrderCount: s.OrderCount, Revenue: s.TotalRevenue})
	}
	return peaks
}

// TopItems explodes the per-order items array and aggregates by item
// id+name, best sellers first.
func (r *Repo) TopItems(ctx context.Context, f Filter, limit int) ([]TopItem, error) {
	where, args := predicate(f)
	args = append(args, limit)

	rows, err := r.DB.Query(ctx, fmt.Sprintf(`
		SELECT item->>'id',
		       item->>'name',
		       SUM((item->>'quantity')::int)::bigint,
		       SUM((item->>'price')::bigint * (item->>'quantity')::int)::bigint,
		       COUNT(DISTINCT id)::bigint
		FROM orders, jsonb_array_elements(items) AS item`+where+`
		GROUP BY 1, 2
		ORDER BY 3 DESC
		LIMIT $%d`, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	defer rows.Close()

	out := []TopItem{}
	for rows.Next() {
		var t TopItem
		var qty, orders int64
		if err := rows.Scan(&t.ItemID, &t.ItemName, &qty, &t.TotalRevenue, &orders); err != nil {
			return nil, err
		}
		t.TotalQuantity = int(qty)
		t.OrderCount = int(orders)
		out = append(out, t)
	}
	return out, rows.Err()
}
