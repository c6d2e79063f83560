package piratebay

import (
	"fmt"
	"time"
)

// DefaultTimeLayout is the layout FormatTime falls back to.
const DefaultTimeLayout = "2006-01-02 15:04:05 MST"

var sizeUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatSize renders a non-negative byte count with binary prefixes and two
// decimals: the value is divided by 1024 until it drops below 1024 or the
// largest unit is reached.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}

// FormatTime renders an instant with the given layout, or DefaultTimeLayout
// when layout is empty. Decoded timestamps are already UTC.
func FormatTime(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.Format(layout)
}
