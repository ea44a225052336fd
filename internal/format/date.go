package format

import (
	"fmt"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
)

// DateStyle selects a layout for Date.
type DateStyle string

// Supported date styles. Any other value renders as ISO-8601.
const (
	DateShort DateStyle = "short"
	DateLong  DateStyle = "long"
	DateTime  DateStyle = "time"
	DateFull  DateStyle = "full"
	DateISO   DateStyle = "iso"
)

// Layouts matching the dashboard's en-US rendering.
const (
	LayoutShort = "1/2/2006"
	LayoutLong  = "Monday, January 2, 2006"
	LayoutTime  = "3:04:05 PM"
	LayoutFull  = "1/2/2006, 3:04:05 PM"
)

// Date renders t in the given style.
func Date(t time.Time, style DateStyle) string {
	switch style {
	case DateShort:
		return t.Format(LayoutShort)
	case DateLong:
		return t.Format(LayoutLong)
	case DateTime:
		return t.Format(LayoutTime)
	case DateFull:
		return t.Format(LayoutFull)
	default:
		return model.FormatTimestamp(t)
	}
}

// TimeAgo describes how long before now t happened. Anything a week or
// older falls back to the short date.
func TimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%d min ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%d days ago", seconds/86400)
	default:
		return t.Format(LayoutShort)
	}
}

// ParseTimestamp parses a stored timestamp. It accepts TimestampLayout and
// any RFC 3339 value.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(model.TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
