package geode

import "math"

// Scene time is measured in seconds relative to an application-chosen epoch.
// Unbounded interval endpoints use infinity sentinels.
var (
	// MinTime is the unbounded-past sentinel.
	MinTime = math.Inf(-1)
	// MaxTime is the unbounded-future sentinel.
	MaxTime = math.Inf(1)
)

// TimeInterval is a closed interval of scene time. The zero value is the
// empty interval at t=0; use UnboundedInterval for "always available".
type TimeInterval struct {
	Start, Stop float64
}

// UnboundedInterval returns the interval spanning all of time.
func UnboundedInterval() TimeInterval {
	return TimeInterval{Start: MinTime, Stop: MaxTime}
}

// Contains reports whether t lies within the interval. Endpoints are
// inclusive.
func (iv TimeInterval) Contains(t float64) bool {
	return t >= iv.Start && t <= iv.Stop
}

// IsEmpty reports whether the interval contains no time at all.
func (iv TimeInterval) IsEmpty() bool {
	return iv.Start > iv.Stop
}

// Intersect returns the overlap of iv and other. The result may be empty.
func (iv TimeInterval) Intersect(other TimeInterval) TimeInterval {
	return TimeInterval{
		Start: math.Max(iv.Start, other.Start),
		Stop:  math.Min(iv.Stop, other.Stop),
	}
}
