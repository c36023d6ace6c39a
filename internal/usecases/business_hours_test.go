package usecases

import (
	"testing"
	"time"
)

var shopZone = time.FixedZone("UTC-3", -3*3600)

func TestIsOpenWeekdays(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"tuesday mid-morning", time.Date(2024, 1, 9, 10, 0, 0, 0, shopZone), true},
		{"saturday afternoon", time.Date(2024, 1, 13, 15, 30, 0, 0, shopZone), true},
		{"opening instant", time.Date(2024, 1, 9, 8, 0, 0, 0, shopZone), true},
		{"last open second", time.Date(2024, 1, 9, 17, 59, 59, 0, shopZone), true},
		{"closing instant", time.Date(2024, 1, 9, 18, 0, 0, 0, shopZone), false},
		{"before opening", time.Date(2024, 1, 9, 7, 59, 59, 0, shopZone), false},
		{"monday midnight", time.Date(2024, 1, 8, 0, 0, 0, 0, shopZone), false},
		{"sunday morning", time.Date(2024, 1, 7, 10, 0, 0, 0, shopZone), false},
		{"sunday evening", time.Date(2024, 1, 7, 20, 0, 0, 0, shopZone), false},
	}

	for _, tt := range tests {
		if got := IsOpen(tt.t, shopZone); got != tt.want {
			t.Errorf("%s: IsOpen(%v) = %v, want %v", tt.name, tt.t, got, tt.want)
		}
	}
}

func TestIsOpenIgnoresInstantZone(t *testing.T) {
	// Tuesday 13:00 UTC is Tuesday 10:00 in the shop's UTC-3 zone.
	instant := time.Date(2024, 1, 9, 13, 0, 0, 0, time.UTC)
	if !IsOpen(instant, shopZone) {
		t.Error("instant expressed in UTC should still be open in shop zone")
	}

	// The same instant is 22:00 in UTC+9, so a shop configured there is closed.
	tokyo := time.FixedZone("UTC+9", 9*3600)
	if IsOpen(instant, tokyo) {
		t.Error("instant should be closed for a UTC+9 shop")
	}
}

func TestIsOpenEverySundayHour(t *testing.T) {
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, shopZone)
	for h := 0; h < 24; h++ {
		if IsOpen(sunday.Add(time.Duration(h)*time.Hour), shopZone) {
			t.Errorf("Sunday %02d:00 should be closed", h)
		}
	}
}
