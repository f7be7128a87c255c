package pipeline

import "time"

// NativeRequirements exposes nativeRequirements for tests.
var NativeRequirements = nativeRequirements

// SetClock replaces the receipt clock.
func SetClock(d *Driver, now func() time.Time) {
	d.now = now
}
