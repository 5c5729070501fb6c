// Package repositories holds the per-collection persistence packages. Each
// subpackage defines a Repository interface and a SQLite implementation over
// dbx.DBTX, so the same code runs against *sql.DB or inside a *sql.Tx.
package repositories

import (
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Clock returns now, or time.Now when now is nil.
func Clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// Instant formats t the way every timestamp column is stored.
func Instant(t time.Time) string {
	return timex.FormatInstant(t)
}

// ParseInstants parses stored timestamp columns into their destinations.
func ParseInstants(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		src := pairs[i].(string)
		dst := pairs[i+1].(*time.Time)
		t, err := timex.ParseInstant(src)
		if err != nil {
			return err
		}
		*dst = t
	}
	return nil
}
