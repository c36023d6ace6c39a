package usecases

import "time"

// Shop schedule: Monday through Saturday, 08:00 to 17:59:59 local time.
const (
	openingHour = 8
	closingHour = 18
)

// IsOpen reports whether the shop is attending at instant t. The instant is
// converted into the shop's configured location; the host's local timezone
// is never consulted.
func IsOpen(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	if local.Weekday() == time.Sunday {
		return false
	}
	h := local.Hour()
	return h >= openingHour && h < closingHour
}
