package quantnote

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DataEpoch is the earliest instant the service holds data for
// (2021-04-12T13:45:00+02:00). Explicit `to` bounds before it are rejected;
// `from` bounds before it are tolerated and clipped server-side.
var DataEpoch = time.Date(2021, time.April, 12, 11, 45, 0, 0, time.UTC)

// dateLayouts are the accepted date spellings, tried in order. Forms
// without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate converts an accepted date spelling to Unix seconds. A digit
// string is already canonical and passes through unchanged.
func parseDate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// validDateValue reports whether parseDate would accept the spelling.
func validDateValue(s string) bool {
	_, err := parseDate(s)
	return err == nil
}
