package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{CreatedAt: time.Date(2025, 6, 1, 8, 30, 0, 123, time.UTC), ID: uuid.New()}
	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"!!!", "bm90LWEtY3Vyc29y"} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %v %v", c, err)
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 50: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParamsQuery(t *testing.T) {
	q, err := Params{Limit: 5}.Query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Limit != 6 || q.Cursor != nil {
		t.Fatalf("unexpected query %+v", q)
	}
	if _, err := (Params{Cursor: "%%%"}).Query(); err == nil {
		t.Fatal("expected cursor error")
	}
}

type row struct {
	id uuid.UUID
	at time.Time
}

func TestPage(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{id: uuid.New(), at: base.Add(-time.Duration(i) * time.Minute)}
	}
	key := func(r row) Cursor { return Cursor{CreatedAt: r.at, ID: r.id} }

	page, next := Page(rows, 3, key)
	if len(page) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(page))
	}
	cursor, err := ParseCursor(next)
	if err != nil {
		t.Fatalf("parse next: %v", err)
	}
	if cursor.ID != rows[2].id {
		t.Fatalf("next cursor should point at the last returned row")
	}

	page, next = Page(rows[:2], 3, key)
	if len(page) != 2 || next != "" {
		t.Fatalf("expected final page, got %d rows and cursor %q", len(page), next)
	}
}
