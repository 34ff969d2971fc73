package dbx

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

// StringArray scans a PostgreSQL text[] column into dst. NULL scans as an
// empty, non-nil slice.
func StringArray(dst *[]string) sql.Scanner {
	return &stringArray{dst: dst}
}

type stringArray struct {
	dst *[]string
}

func (a *stringArray) Scan(src any) error {
	var ids []string
	// pgtype.Map caches scan plans and is not safe for concurrent use.
	if err := pgtype.NewMap().SQLScanner(&ids).Scan(src); err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	*a.dst = ids
	return nil
}

// Nullable dereferences p for use as a query argument; nil becomes SQL NULL.
func Nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
