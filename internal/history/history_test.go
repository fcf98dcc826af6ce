package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raysh454/sitecheck/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(url, text string, risk float64, at time.Time) *model.Report {
	return &model.Report{
		SiteContent: &model.SiteContent{URL: url, TextContent: text},
		AnalysisResult: model.AnalysisResult{
			URL:               url,
			RiskScore:         risk,
			Confidence:        0.7,
			Recommendation:    "Low risk",
			AnalysisTimestamp: at,
		},
		ProcessingTime: 0.5,
	}
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, sampleReport("https://example.com", "hello", 1.5, time.Now()))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	entry, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.URL != "https://example.com" || entry.RiskScore != 1.5 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Report == nil || entry.Report.SiteContent.TextContent != "hello" {
		t.Errorf("stored report not round-tripped: %+v", entry.Report)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		_, err := store.Save(ctx, sampleReport("https://example.com", "t", float64(i), base.Add(time.Duration(i)*time.Hour)))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d", len(entries))
	}
	if entries[0].RiskScore != 2 || entries[2].RiskScore != 0 {
		t.Errorf("not newest first: %+v", entries)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored, len = %d", len(limited))
	}
}

func TestListOrdersSubsecondTimestamps(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 5, 0, time.UTC)

	// A whole-second timestamp must sort before a later sub-second one
	// even though "05Z" string-sorts after "05.5Z" without padding.
	_, _ = store.Save(ctx, sampleReport("https://a.example", "old", 1, base))
	_, _ = store.Save(ctx, sampleReport("https://a.example", "new", 2, base.Add(500*time.Millisecond)))

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].RiskScore != 2 {
		t.Errorf("not newest first: %+v", entries)
	}
	if !entries[0].CreatedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v", entries[0].CreatedAt)
	}

	entry, err := store.LastForURL(ctx, "https://a.example")
	if err != nil {
		t.Fatalf("LastForURL: %v", err)
	}
	if entry.TextContent != "new" {
		t.Errorf("TextContent = %q, want \"new\"", entry.TextContent)
	}
}

func TestLastForURL(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_, _ = store.Save(ctx, sampleReport("https://a.example", "old", 1, base))
	_, _ = store.Save(ctx, sampleReport("https://a.example", "new", 2, base.Add(time.Hour)))
	_, _ = store.Save(ctx, sampleReport("https://b.example", "other", 3, base.Add(2*time.Hour)))

	entry, err := store.LastForURL(ctx, "https://a.example")
	if err != nil {
		t.Fatalf("LastForURL: %v", err)
	}
	if entry.TextContent != "new" {
		t.Errorf("TextContent = %q, want new", entry.TextContent)
	}

	if _, err := store.LastForURL(ctx, "https://missing.example"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDiffContent(t *testing.T) {
	t.Parallel()

	chunks := DiffContent("please log in", "please verify your account")
	if !Changed(chunks) {
		t.Fatal("expected change")
	}

	same := DiffContent("identical", "identical")
	if Changed(same) {
		t.Error("identical text reported as changed")
	}
	if len(same) != 1 || same[0].Type != "equal" {
		t.Errorf("same = %+v", same)
	}
}
