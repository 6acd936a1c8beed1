package quantnote

import "fmt"

// window is one bounded slice of a series range. The service reads from/to
// as a closed interval, so consecutive windows share their boundary instant:
// the next window starts exactly where the previous one ends.
type window struct {
	from int64
	to   int64
}

// planWindows partitions [from, to] into chronologically ordered windows of
// at most step seconds. The windows cover the range exactly: the first
// starts at from, the last ends at to, and each interior boundary is shared
// by its neighbours. from == to yields a single minimal window.
func planWindows(from, to, step int64) ([]window, error) {
	if from > to {
		return nil, fmt.Errorf("%w: from %d is after to %d", ErrInvalidRange, from, to)
	}
	if step <= 0 {
		return nil, fmt.Errorf("quantnote: window step must be positive, got %d", step)
	}
	if from == to {
		return []window{{from: from, to: to}}, nil
	}
	windows := make([]window, 0, (to-from+step-1)/step)
	for start := from; start < to; start += step {
		end := start + step
		if end > to {
			end = to
		}
		windows = append(windows, window{from: start, to: end})
	}
	return windows, nil
}
