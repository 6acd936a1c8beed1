package quantnote

import "strings"

// Resolution is the bucket granularity of a time series.
type Resolution string

// Supported resolutions. W1 and MN1 are accepted for interval-style
// parameters (price and volume change) but carry no span policy, so they
// cannot drive a windowed series fetch.
const (
	ResolutionM1  Resolution = "M1"
	ResolutionM5  Resolution = "M5"
	ResolutionM10 Resolution = "M10"
	ResolutionM15 Resolution = "M15"
	ResolutionM30 Resolution = "M30"
	ResolutionH1  Resolution = "H1"
	ResolutionH4  Resolution = "H4"
	ResolutionH12 Resolution = "H12"
	ResolutionD1  Resolution = "D1"
	ResolutionW1  Resolution = "W1"
	ResolutionMN1 Resolution = "MN1"
)

// maxCandlesPerCall caps how many buckets the service returns per request.
const maxCandlesPerCall = 5000

const daySeconds = 24 * 60 * 60

// candleSeconds is the bucket length of each plannable resolution.
var candleSeconds = map[Resolution]int64{
	ResolutionM1:  60,
	ResolutionM5:  5 * 60,
	ResolutionM10: 10 * 60,
	ResolutionM15: 15 * 60,
	ResolutionM30: 30 * 60,
	ResolutionH1:  60 * 60,
	ResolutionH4:  4 * 60 * 60,
	ResolutionH12: 12 * 60 * 60,
	ResolutionD1:  daySeconds,
}

// spanSeconds caps the range one request may cover per resolution.
var spanSeconds = map[Resolution]int64{
	ResolutionM1:  7 * daySeconds,
	ResolutionM5:  7 * daySeconds,
	ResolutionM10: 7 * daySeconds,
	ResolutionM15: 10 * daySeconds,
	ResolutionM30: 10 * daySeconds,
	ResolutionH1:  14 * daySeconds,
	ResolutionH4:  20 * daySeconds,
	ResolutionH12: 20 * daySeconds,
	ResolutionD1:  30 * daySeconds,
}

// strictSpanSeconds applies to the heavier series endpoints (active address
// and wallet move histories).
var strictSpanSeconds = map[Resolution]int64{
	ResolutionM1:  daySeconds,
	ResolutionM5:  daySeconds,
	ResolutionM10: daySeconds,
	ResolutionM15: 2 * daySeconds,
	ResolutionM30: 2 * daySeconds,
	ResolutionH1:  2 * daySeconds,
	ResolutionH4:  7 * daySeconds,
	ResolutionH12: 7 * daySeconds,
	ResolutionD1:  30 * daySeconds,
}

// normalize upper-cases the spelling, the form the wire expects.
func (r Resolution) normalize() Resolution {
	return Resolution(strings.ToUpper(strings.TrimSpace(string(r))))
}

// valid reports enum membership for interval-style parameters.
func (r Resolution) valid() bool {
	switch r.normalize() {
	case ResolutionM1, ResolutionM5, ResolutionM10, ResolutionM15, ResolutionM30,
		ResolutionH1, ResolutionH4, ResolutionH12, ResolutionD1, ResolutionW1, ResolutionMN1:
		return true
	}
	return false
}

// plannable reports whether the resolution can drive a windowed fetch.
func (r Resolution) plannable() bool {
	_, ok := candleSeconds[r.normalize()]
	return ok
}

// seriesStep is the effective window length for one request: the span
// policy capped by the per-call bucket limit.
func seriesStep(r Resolution, strict bool) int64 {
	r = r.normalize()
	step := spanSeconds[r]
	if strict {
		step = strictSpanSeconds[r]
	}
	if limit := candleSeconds[r] * maxCandlesPerCall; limit < step {
		step = limit
	}
	return step
}
