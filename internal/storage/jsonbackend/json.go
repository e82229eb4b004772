package jsonbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FranksOps/uagen/internal/storage"
)

// ensure jsonBackend implements storage.Backend
var _ storage.Backend = (*jsonBackend)(nil)

type jsonBackend struct {
	path string
}

// New creates a storage.Backend that keeps the set as a JSON array of
// strings at filePath. The file is not touched until Save.
func New(filePath string) storage.Backend {
	return &jsonBackend{path: filePath}
}

func (b *jsonBackend) Load(ctx context.Context) (*storage.Set, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storage.NewSet(), nil
		}
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}

	uas, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrCorruptStore, b.path, err)
	}

	return storage.NewSet(uas...), nil
}

func decode(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array of strings")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	uas := make([]string, 0, len(raw))
	for i, elem := range raw {
		// Unmarshal would turn null into "" for a string target.
		if len(elem) == 0 || elem[0] != '"' {
			return nil, fmt.Errorf("element %d is not a string: %s", i, elem)
		}
		var ua string
		if err := json.Unmarshal(elem, &ua); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		uas = append(uas, ua)
	}
	return uas, nil
}

func (b *jsonBackend) Save(ctx context.Context, set *storage.Set) error {
	items := set.Items()

	return storage.WriteFileAtomic(b.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	})
}

func (b *jsonBackend) Close() error {
	return nil
}
