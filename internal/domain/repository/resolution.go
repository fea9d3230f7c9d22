package repository

// Resolution represents the bar resolution of an ingested series.
type Resolution string

const (
	Res1h  Resolution = "1h"
	Res1d  Resolution = "1d"
	Res1wk Resolution = "1wk"
)

// IsValidResolution returns true if r is a supported resolution.
func IsValidResolution(r Resolution) bool {
	switch r {
	case Res1h, Res1d, Res1wk:
		return true
	default:
		return false
	}
}

// DefaultResolution returns the default resolution.
func DefaultResolution() Resolution { return Res1d }

// NormalizeResolution converts a raw string to a valid resolution (or default).
func NormalizeResolution(s string) Resolution {
	if s == "" {
		return DefaultResolution()
	}
	r := Resolution(s)
	if IsValidResolution(r) {
		return r
	}
	return DefaultResolution()
}
