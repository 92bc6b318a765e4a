package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit should default, got %d", got)
	}
	if got := NormalizeLimit(-4); got != DefaultLimit {
		t.Fatalf("negative limit should default, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("limit should cap at max, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("in-range limit should pass through, got %d", got)
	}
}

func TestTrim(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	trimmed, hasMore := Trim(rows, 3)
	if !hasMore {
		t.Fatal("expected buffered row to signal next page")
	}
	if len(trimmed) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(trimmed))
	}

	trimmed, hasMore = Trim(rows[:2], 3)
	if hasMore {
		t.Fatal("short page should not signal next page")
	}
	if len(trimmed) != 2 {
		t.Fatalf("expected untouched rows, got %d", len(trimmed))
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Millisecond), ID: uuid.New()}
	encoded := EncodeCursor(in)

	out, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out == nil {
		t.Fatal("expected cursor")
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
	if cur, err := ParseCursor("   "); err != nil || cur != nil {
		t.Fatalf("blank cursor should be nil, got %v %v", cur, err)
	}
}
