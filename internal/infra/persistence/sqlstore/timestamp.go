package sqlstore

import (
	"fmt"
	"time"
)

// timestampLayouts covers the textual forms SQLite hands back for DATETIME columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timestamp scans TIMESTAMPTZ and DATETIME columns into UTC times.
type timestamp struct {
	time.Time
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case int64:
		ts.Time = time.Unix(v, 0).UTC()
		return nil
	case nil:
		ts.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			ts.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}
