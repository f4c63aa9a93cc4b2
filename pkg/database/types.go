package database

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is stored as INTEGER unix milliseconds and marshals to JSON as
// RFC 3339. rqlite hands numbers back as float64, so Scan accepts both.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the stored precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case int64:
		t.Time = time.UnixMilli(v).UTC()
	case float64:
		t.Time = time.UnixMilli(int64(v)).UTC()
	case []byte:
		return t.Scan(string(v))
	case string:
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(v, 64)
			if ferr != nil {
				return fmt.Errorf("timestamp: cannot parse %q", v)
			}
			ms = int64(f)
		}
		t.Time = time.UnixMilli(ms).UTC()
	case time.Time:
		t.Time = v.UTC()
	default:
		return fmt.Errorf("timestamp: unsupported type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.UnixMilli(), nil
}
