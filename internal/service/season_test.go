package service_test

import (
	"testing"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/service"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeasonStart_AfterAnchorSameYear(t *testing.T) {
	now := time.Date(2025, time.October, 15, 18, 30, 0, 0, time.UTC)

	got := service.SeasonStart(9, 1, now)
	if want := date(2025, time.September, 1); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSeasonStart_BeforeAnchorUsesPreviousYear(t *testing.T) {
	now := time.Date(2025, time.August, 31, 23, 59, 59, 0, time.UTC)

	got := service.SeasonStart(9, 1, now)
	if want := date(2024, time.September, 1); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSeasonStart_AnchorInstantBeginsNewSeason(t *testing.T) {
	// The boundary is inclusive: midnight on the anchor day is already the
	// new season.
	now := date(2025, time.September, 1)

	got := service.SeasonStart(9, 1, now)
	if want := date(2025, time.September, 1); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSeasonStart_DayClampedToMonthLength(t *testing.T) {
	// April 31 does not exist; the anchor lands on April 30 instead of
	// spilling into May.
	now := date(2025, time.May, 10)

	got := service.SeasonStart(4, 31, now)
	if want := date(2025, time.April, 30); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSeasonStart_LeapDayAnchor(t *testing.T) {
	// Feb 29 clamps to Feb 28 in non-leap years and stays Feb 29 in leap
	// years.
	got := service.SeasonStart(2, 29, date(2025, time.March, 5))
	if want := date(2025, time.February, 28); !got.Equal(want) {
		t.Fatalf("non-leap year: expected %v, got %v", want, got)
	}

	got = service.SeasonStart(2, 29, date(2024, time.March, 5))
	if want := date(2024, time.February, 29); !got.Equal(want) {
		t.Fatalf("leap year: expected %v, got %v", want, got)
	}
}

func TestSeasonStart_OutOfRangeConfigClamped(t *testing.T) {
	// Month 13 / day 99 clamp to December 31. Seen from January 5th that
	// anchor is still ahead, so the season began the previous year.
	now := date(2026, time.January, 5)

	got := service.SeasonStart(13, 99, now)
	if want := date(2025, time.December, 31); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSeasonStart_NeverAfterNow(t *testing.T) {
	nows := []time.Time{
		date(2025, time.January, 1),
		date(2025, time.September, 1),
		time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	anchors := []struct{ month, day int }{
		{9, 1},
		{1, 1},
		{2, 29},
		{12, 31},
	}

	for _, now := range nows {
		for _, a := range anchors {
			got := service.SeasonStart(a.month, a.day, now)
			if got.After(now) {
				t.Fatalf("anchor %d/%d at now=%v: season start %v is in the future", a.month, a.day, now, got)
			}
			if now.Sub(got) > 367*24*time.Hour {
				t.Fatalf("anchor %d/%d at now=%v: season start %v is more than a year back", a.month, a.day, now, got)
			}
		}
	}
}
