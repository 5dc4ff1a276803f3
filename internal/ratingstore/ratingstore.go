// Package ratingstore reads templates, participants and rating records from
// a dataset file or a SQL database.
package ratingstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// Open returns the rating source for a data backend.
func Open(ctx context.Context, backend schema.DataBackend, source string) (contract.RatingSource, error) {
	switch backend {
	case schema.FileData, "":
		return OpenFile(source)
	case schema.SQLiteData, schema.MySQLData, schema.PostgreSQLData:
		return OpenSQL(ctx, backend, source)
	default:
		return nil, fmt.Errorf("unsupported data backend: %s. Must be file, sqlite, mysql, or postgresql", backend)
	}
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
