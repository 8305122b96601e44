package inspect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func entries(t *testing.T, h *History) []HistoryEntry {
	t.Helper()

	out := make([]HistoryEntry, 0, h.Len())

	for i := range h.Len() {
		e, err := h.Entry(i)
		if err != nil {
			t.Fatalf("Entry(%d): %v", i, err)
		}

		out = append(out, e)
	}

	return out
}

func TestHistory_Add(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := NewHistory(path)

	for _, add := range []HistoryEntry{
		{"Button", modeQuery},
		{"tree", modeCtrl},
		{"tree", modeCtrl},    // repeat of the last entry
		{"  ", modeQuery},     // blank
		{"Button", modeQuery}, // moved to the end
		{"Button", modeCtrl},  // same line, other mode
	} {
		if err := h.Add(add.Line, add.Mode); err != nil {
			t.Fatalf("Add(%q): %v", add.Line, err)
		}
	}

	want := []HistoryEntry{
		{"tree", modeCtrl},
		{"Button", modeQuery},
		{"Button", modeCtrl},
	}

	if diff := cmp.Diff(want, entries(t, h)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if diff := cmp.Diff("C:tree\nQ:Button\nC:Button\n", string(data)); diff != "" {
		t.Errorf("file mismatch (-want +got):\n%s", diff)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(want, entries(t, reloaded)); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Load(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		h := NewHistory(filepath.Join(dir, "missing"))
		if err := h.Load(); err != nil {
			t.Errorf("Load: %v", err)
		}

		if h.Len() != 0 {
			t.Errorf("Len = %d, want 0", h.Len())
		}
	})

	t.Run("untagged", func(t *testing.T) {
		path := filepath.Join(dir, "untagged")
		if err := os.WriteFile(path, []byte("Label\n\nC:ids\nQ:#ok\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		h := NewHistory(path)
		if err := h.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}

		want := []HistoryEntry{
			{"Label", modeQuery},
			{"ids", modeCtrl},
			{"#ok", modeQuery},
		}

		if diff := cmp.Diff(want, entries(t, h)); diff != "" {
			t.Errorf("entries mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := h.Add("App", modeQuery); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}

	if _, err := h.Entry(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(1) error = %v, want %v", err, ErrOutOfBounds)
	}
}
