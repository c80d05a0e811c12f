package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/capacity-engine/generic"
)

// dateColumn scans a DATE (PostgreSQL, time.Time) or TEXT (SQLite) column.
type dateColumn struct {
	Date  generic.Date
	Valid bool
}

func (c *dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Date, c.Valid = generic.Date{}, false
		return nil
	case time.Time:
		c.Date, c.Valid = generic.NewDate(v.Year(), v.Month(), v.Day()), true
		return nil
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a date", src)
	}
}

// parse accepts "2006-01-02" and any longer timestamp with that prefix.
func (c *dateColumn) parse(s string) error {
	if len(s) > len(generic.DateLayout) {
		s = s[:len(generic.DateLayout)]
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		return err
	}
	c.Date, c.Valid = d, true
	return nil
}

func (c dateColumn) ptr() *generic.Date {
	if !c.Valid {
		return nil
	}
	d := c.Date
	return &d
}

func dateArg(d generic.Date) string { return d.String() }

func nullDateArg(d *generic.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullFloatArg(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// placeholders returns "$from, $from+1, ..." for n arguments.
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func projectArgs(ids []generic.ProjectID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	return args
}

// constraintError maps foreign-key violations to a validation error on the
// referencing field.
func constraintError(err error, field string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return &generic.FieldError{Field: field, Message: "references an unknown record"}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return &generic.FieldError{Field: field, Message: "references an unknown record"}
	}
	return err
}
