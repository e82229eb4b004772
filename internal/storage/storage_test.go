package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSet_OrderAndDedup(t *testing.T) {
	s := NewSet("b", "a", "b", "c")

	if s.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", s.Len())
	}
	want := []string{"b", "a", "c"}
	got := s.Items()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if s.Add("a") {
		t.Errorf("expected duplicate add to report false")
	}
	if !s.Add("d") {
		t.Errorf("expected new add to report true")
	}
	if !s.Contains("d") || s.Items()[3] != "d" {
		t.Errorf("expected d appended at the end, got %v", s.Items())
	}
}

func TestSet_ItemsIsACopy(t *testing.T) {
	s := NewSet("x")
	items := s.Items()
	items[0] = "y"

	if s.Contains("y") || s.Items()[0] != "x" {
		t.Errorf("mutating Items leaked into the set")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteFileAtomic(path, func(w io.Writer) error {
		return fmt.Errorf("boom")
	})
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "old" {
		t.Errorf("failed write must leave the original intact, got %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp file cleanup, found %d entries", len(entries))
	}

	err = WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("expected new contents, got %q", data)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	err := WriteFileAtomic(path, func(w io.Writer) error { return nil })
	if !errors.Is(err, ErrWriteFailure) {
		t.Errorf("expected ErrWriteFailure, got %v", err)
	}
}

// Ensure Backend interface exists and is implementable
type mockBackend struct{ set *Set }

func (m *mockBackend) Load(ctx context.Context) (*Set, error) { return NewSet(m.set.Items()...), nil }
func (m *mockBackend) Save(ctx context.Context, set *Set) error {
	m.set = NewSet(set.Items()...)
	return nil
}
func (m *mockBackend) Close() error { return nil }

func TestBackendInterface(t *testing.T) {
	var b Backend = &mockBackend{set: NewSet()}
	_ = b
}
