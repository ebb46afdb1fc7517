package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

// CheckDailyStreak advances the visit streak. A visit on the day after
// lastVisit extends it, a longer gap resets it to 1 and a repeat visit on the
// same day leaves it unchanged. It reports whether the record changed.
func CheckDailyStreak(r *domain.Record, now time.Time, loc *time.Location) bool {
	today := now.In(loc).Format(domain.DateLayout)
	if r.LastVisit == today {
		return false
	}

	yesterday := now.In(loc).AddDate(0, 0, -1).Format(domain.DateLayout)
	if r.LastVisit == yesterday {
		r.Streak++
	} else {
		r.Streak = domain.InitialStreak
	}
	r.LastVisit = today
	return true
}

// ExpireStreak resets a streak whose last visit is older than yesterday. It
// does not count as a visit. It reports whether the record changed.
func ExpireStreak(r *domain.Record, now time.Time, loc *time.Location) bool {
	local := now.In(loc)
	if r.Streak <= domain.InitialStreak {
		return false
	}
	if r.LastVisit == local.Format(domain.DateLayout) || r.LastVisit == local.AddDate(0, 0, -1).Format(domain.DateLayout) {
		return false
	}
	r.Streak = domain.InitialStreak
	return true
}
