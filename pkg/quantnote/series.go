package quantnote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// timedRecord is satisfied by series records; the fetch loop uses it to
// reject records arriving without their bucket time.
type timedRecord interface {
	timestamp() time.Time
}

// SeriesParams bounds one windowed series query. An empty From starts at
// DataEpoch, an empty To ends now.
type SeriesParams struct {
	TokenRef
	From       string     `param:"from" validate:"omitempty,date"`
	To         string     `param:"to" validate:"omitempty,date"`
	Resolution Resolution `param:"resolution" default:"H1" validate:"series_resolution"`
}

// resolveTarget picks the contract address for a symbol-or-contract pair.
// An explicit contract wins; otherwise the symbol goes through the
// directory, narrowed by chain when one was given.
func (c *Client) resolveTarget(ctx context.Context, symbol, contract string, chainID int64) (string, error) {
	if strings.TrimSpace(contract) != "" {
		return strings.TrimSpace(contract), nil
	}
	return c.resolveContract(ctx, symbol, chainID)
}

// resolveRange normalizes a series range to Unix bounds. An empty from
// starts at DataEpoch; an empty or future to ends now. An explicit to
// before DataEpoch is rejected; a from before DataEpoch is tolerated, the
// service clips it.
func (c *Client) resolveRange(from, to string) (int64, int64, error) {
	epoch := DataEpoch.Unix()
	fromTS := epoch
	if strings.TrimSpace(from) != "" {
		ts, err := parseDate(from)
		if err != nil {
			return 0, 0, err
		}
		if ts < epoch {
			c.logf("quantnote: from %q predates available data, earliest is %s", from, DataEpoch.Format(time.RFC3339))
		}
		fromTS = ts
	}
	nowTS := c.now().UTC().Unix()
	toTS := nowTS
	if strings.TrimSpace(to) != "" {
		ts, err := parseDate(to)
		if err != nil {
			return 0, 0, err
		}
		if ts < epoch {
			return 0, 0, fmt.Errorf("%w: to %q predates available data, earliest is %s",
				ErrInvalidRange, to, DataEpoch.Format(time.RFC3339))
		}
		toTS = ts
		if toTS > nowTS {
			toTS = nowTS
		}
	}
	if fromTS > toTS {
		return 0, 0, fmt.Errorf("%w: from %d is after to %d", ErrInvalidRange, fromTS, toTS)
	}
	return fromTS, toTS, nil
}

// setRangeQuery writes optional from/to bounds into q as Unix seconds for
// endpoints that take the bounds verbatim. Absent bounds stay absent; an
// explicit to must not predate DataEpoch nor precede from.
func (c *Client) setRangeQuery(q url.Values, from, to string) error {
	epoch := DataEpoch.Unix()
	var fromTS, toTS int64
	var hasFrom, hasTo bool
	if strings.TrimSpace(from) != "" {
		ts, err := parseDate(from)
		if err != nil {
			return err
		}
		if ts < epoch {
			c.logf("quantnote: from %q predates available data, earliest is %s", from, DataEpoch.Format(time.RFC3339))
		}
		fromTS, hasFrom = ts, true
	}
	if strings.TrimSpace(to) != "" {
		ts, err := parseDate(to)
		if err != nil {
			return err
		}
		if ts < epoch {
			return fmt.Errorf("%w: to %q predates available data, earliest is %s",
				ErrInvalidRange, to, DataEpoch.Format(time.RFC3339))
		}
		toTS, hasTo = ts, true
	}
	if hasFrom && hasTo && fromTS > toTS {
		return fmt.Errorf("%w: from %d is after to %d", ErrInvalidRange, fromTS, toTS)
	}
	if hasFrom {
		q.Set("from", strconv.FormatInt(fromTS, 10))
	}
	if hasTo {
		q.Set("to", strconv.FormatInt(toTS, 10))
	}
	return nil
}

// fetchSeries runs one windowed series query: it splits [from, to] into
// windows the service accepts at the given resolution, fetches them
// strictly in chronological order, and concatenates the pages. Any failed
// window fails the whole fetch; no partial result is returned. The heavier
// endpoints (active address and wallet move histories) use the tighter span
// policy keyed off their path.
func fetchSeries[T timedRecord](ctx context.Context, c *Client, path string, base url.Values, from, to string, resolution Resolution) ([]T, error) {
	res := resolution.normalize()
	fromTS, toTS, err := c.resolveRange(from, to)
	if err != nil {
		return nil, err
	}
	strict := strings.Contains(path, "active_addresses") || strings.Contains(path, "moves")
	windows, err := planWindows(fromTS, toTS, seriesStep(res, strict))
	if err != nil {
		return nil, err
	}
	if !c.split && len(windows) > 1 {
		return nil, fmt.Errorf("%w: range needs %d calls at resolution %s and request splitting is disabled",
			ErrInvalidRange, len(windows), res)
	}
	if len(windows) > 1 {
		c.logf("quantnote: splitting %s into %d calls at resolution %s", path, len(windows), res)
	}

	q := url.Values{}
	for key, vals := range base {
		q[key] = append([]string(nil), vals...)
	}
	q.Set("resolution", string(res))

	var out []T
	for _, w := range windows {
		q.Set("from", strconv.FormatInt(w.from, 10))
		q.Set("to", strconv.FormatInt(w.to, 10))
		var page []T
		if err := c.get(ctx, path, q, &page); err != nil {
			return nil, err
		}
		for _, rec := range page {
			if rec.timestamp().IsZero() {
				return nil, fmt.Errorf("%w: %s record without time", ErrMalformedResponse, path)
			}
		}
		out = append(out, page...)
	}
	return out, nil
}
