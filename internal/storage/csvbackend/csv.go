package csvbackend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FranksOps/uagen/internal/storage"
)

// ensure csvBackend implements storage.Backend
var _ storage.Backend = (*csvBackend)(nil)

// header is the single CSV column
const header = "user_agent"

type csvBackend struct {
	path string
}

// New creates a CSV-backed storage.Backend with one user-agent per row.
func New(filePath string) storage.Backend {
	return &csvBackend{path: filePath}
}

func (b *csvBackend) Load(ctx context.Context) (*storage.Set, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storage.NewSet(), nil
		}
		return nil, fmt.Errorf("open %s: %w", b.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 1

	// Read header
	first, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing header: %v", storage.ErrCorruptStore, b.path, err)
	}
	if first[0] != header {
		return nil, fmt.Errorf("%w: %s: unexpected header %q", storage.ErrCorruptStore, b.path, first[0])
	}

	set := storage.NewSet()
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", storage.ErrCorruptStore, b.path, err)
		}
		set.Add(record[0])
	}

	return set, nil
}

func (b *csvBackend) Save(ctx context.Context, set *storage.Set) error {
	return storage.WriteFileAtomic(b.path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write([]string{header}); err != nil {
			return err
		}
		for _, ua := range set.Items() {
			if err := w.Write([]string{ua}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func (b *csvBackend) Close() error {
	return nil
}
