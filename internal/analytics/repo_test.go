package analytics

import (
	"strings"
	"testing"
	"time"
)

func testFilter(slug string) Filter {
	return Filter{
		StoreSlug: slug,
		Range: Range{
			Start: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 8, 28, 23, 59, 59, 0, time.UTC),
		},
	}
}

func TestPredicateExcludesCancelled(t *testing.T) {
	where, args := predicate(testFilter(""))
	if !strings.Contains(where, "status <> 'cancelled'") {
		t.Errorf("predicate must exclude cancelled orders: %q", where)
	}
	if !strings.Contains(where, "created_at >= $1") || !strings.Contains(where, "created_at <= $2") {
		t.Errorf("predicate must bound created_at: %q", where)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestPredicateStoreScope(t *testing.T) {
	where, args := predicate(testFilter("dodam"))
	if !strings.Contains(where, "store_slug = $3") {
		t.Errorf("store clause missing or misnumbered: %q", where)
	}
	if len(args) != 3 || args[2] != "dodam" {
		t.Errorf("args = %v", args)
	}
	if !strings.Contains(where, "status <> 'cancelled'") {
		t.Errorf("store scoping must keep the cancelled exclusion: %q", where)
	}
}

// The headline figures and the hourly buckets come from the same predicate,
// so totals computed from either side can never disagree.
func TestSummaryQueriesShareOnePredicate(t *testing.T) {
	where, _ := predicate(testFilter("dodam"))
	stats, hourly := summaryQueries(where)
	if !strings.Contains(stats, where) {
		t.Errorf("stats query does not carry the predicate: %q", stats)
	}
	if !strings.Contains(hourly, where) {
		t.Errorf("hourly query does not carry the predicate: %q", hourly)
	}
	if !strings.Contains(hourly, "HH24:00") {
		t.Errorf("hourly query must bucket by HH24:00: %q", hourly)
	}
	if !strings.Contains(stats, "FILTER (WHERE status = 'completed')") {
		t.Errorf("completed count missing from stats: %q", stats)
	}
}
