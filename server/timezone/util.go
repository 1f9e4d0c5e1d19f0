// Package timezone resolves the zone a normalized date is rendered in.
// Zones are fixed numeric offsets; named zones are not looked up.
package timezone

import (
	"strings"
	"time"

	"github.com/hrygo/timedim/plugin/temporal/format"
)

// ParseTimezone resolves a zone argument. The empty string and "local" select
// the process zone; "UTC" and "Z" select UTC; anything else must be a signed
// numeric offset such as "+02:00" or "-0530".
func ParseTimezone(tz string) (*time.Location, error) {
	switch tz = strings.TrimSpace(tz); {
	case tz == "" || strings.EqualFold(tz, "local"):
		return time.Local, nil
	case strings.EqualFold(tz, "UTC") || tz == "Z":
		return time.UTC, nil
	}
	return format.ParseOffset(tz)
}
