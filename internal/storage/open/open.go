// Package open selects and constructs a storage.Backend from a target path
// or DSN.
package open

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FranksOps/uagen/internal/storage"
	"github.com/FranksOps/uagen/internal/storage/boltbackend"
	"github.com/FranksOps/uagen/internal/storage/csvbackend"
	"github.com/FranksOps/uagen/internal/storage/jsonbackend"
	"github.com/FranksOps/uagen/internal/storage/postgres"
	"github.com/FranksOps/uagen/internal/storage/sqlite"
)

// Kind names a storage backend.
type Kind string

const (
	KindJSON     Kind = "json"
	KindCSV      Kind = "csv"
	KindSQLite   Kind = "sqlite"
	KindBolt     Kind = "bolt"
	KindPostgres Kind = "postgres"
)

// Kinds lists the accepted backend names.
var Kinds = []Kind{KindJSON, KindCSV, KindSQLite, KindBolt, KindPostgres}

// ParseKind validates a backend name. An empty name is returned as is and
// means "infer from the target".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return "", nil
	}
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// Infer picks a backend from the target's scheme or file extension,
// defaulting to JSON.
func Infer(target string) Kind {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return KindPostgres
	}

	switch filepath.Ext(lower) {
	case ".csv":
		return KindCSV
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	case ".bolt", ".bbolt":
		return KindBolt
	default:
		return KindJSON
	}
}

// New constructs the backend of the given kind for target. An empty kind
// is inferred from target.
func New(ctx context.Context, kind Kind, target string) (storage.Backend, error) {
	if kind == "" {
		kind = Infer(target)
	}

	switch kind {
	case KindJSON:
		return jsonbackend.New(target), nil
	case KindCSV:
		return csvbackend.New(target), nil
	case KindSQLite:
		return sqlite.New(target)
	case KindBolt:
		return boltbackend.New(target)
	case KindPostgres:
		return postgres.New(ctx, target)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
