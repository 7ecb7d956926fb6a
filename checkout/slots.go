package checkout

import "time"

const (
	slotLeadTime = 30 * time.Minute
	slotStep     = 15 * time.Minute
	maxSlots     = 20
	closingHour  = 22
)

// PickupSlots lists the pickup times offered at checkout: starting 30 minutes
// after now, rounded up to the next quarter hour, every 15 minutes, at most
// 20 slots, none at or after 22:00 in now's location. Slots never fall on a
// later day than now: from 23:30 on the list is empty instead of offering
// times after midnight.
func PickupSlots(now time.Time) []time.Time {
	slots := make([]time.Time, 0, maxSlots)
	for t := firstSlot(now); len(slots) < maxSlots; t = t.Add(slotStep) {
		if t.Hour() >= closingHour || !sameDay(t, now) {
			break
		}
		slots = append(slots, t)
	}
	return slots
}

// firstSlot rounds now+lead up to a quarter hour on now's wall clock, which
// also holds in zones whose UTC offset is not a multiple of 15 minutes.
func firstSlot(now time.Time) time.Time {
	earliest := now.Add(slotLeadTime)
	y, m, d := earliest.Date()

	minutes := earliest.Hour()*60 + earliest.Minute()
	if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
		minutes++
	}
	step := int(slotStep / time.Minute)
	minutes = (minutes + step - 1) / step * step

	return time.Date(y, m, d, 0, minutes, 0, 0, earliest.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
