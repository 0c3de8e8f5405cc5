package listing

import "time"

// TimestampLayout is the public ISO-8601 form of every timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp renders t in UTC, or nil when t is absent.
func Timestamp(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}

// TimestampOf is Timestamp for non-pointer values; the zero time is absent.
func TimestampOf(t time.Time) *string {
	return Timestamp(&t)
}

// Source yields a candidate value for a derived field, ok=false when unavailable.
type Source[T any] func() (T, bool)

// Resolve walks sources in order and returns the first available value, or
// fallback when none is.
func Resolve[T any](fallback T, sources ...Source[T]) T {
	for _, source := range sources {
		if v, ok := source(); ok {
			return v
		}
	}
	return fallback
}
