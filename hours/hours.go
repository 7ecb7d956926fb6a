// Package hours parses the free-text opening hours restaurants publish,
// e.g. "Mon-Fri 11:00-14:00, 18:00-22:00; Sat 12-23; Sun closed".
package hours

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// Window is an opening interval in minutes after local midnight. Close may
// exceed a day when the window runs past midnight.
type Window struct {
	Open  int
	Close int
}

func (w Window) String() string {
	return clock(w.Open) + "-" + clock(w.Close)
}

func clock(m int) string {
	if m > minutesPerDay {
		m -= minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Schedule maps weekdays to their opening windows. A weekday that is absent
// is closed.
type Schedule struct {
	days map[time.Weekday][]Window
}

// ParseError lists the fragments that could not be understood.
type ParseError struct {
	Fragments []string
}

func (e *ParseError) Error() string {
	return "invalid opening hours: " + strings.Join(e.Fragments, "; ")
}

var ErrEmpty = errors.New("opening hours not configured")

// Parse reads the groups of s separated by ";" or newlines. Valid groups are
// kept even when others fail; the failures come back as a *ParseError.
func Parse(s string) (Schedule, error) {
	sched := Schedule{days: map[time.Weekday][]Window{}}
	if strings.TrimSpace(s) == "" {
		return sched, ErrEmpty
	}

	var bad []string
	groups := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' })
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		days, windows, err := parseGroup(g)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%q (%v)", g, err))
			continue
		}
		for _, d := range days {
			// later groups override earlier ones for the same day
			sched.days[d] = windows
		}
	}

	if len(bad) > 0 {
		return sched, &ParseError{Fragments: bad}
	}
	return sched, nil
}

// Normalize rewrites s in canonical form, grouping consecutive days with
// identical windows: "Mon-Fri 11:00-14:00, 18:00-22:00; Sat 12:00-23:00".
func Normalize(s string) (string, error) {
	sched, err := Parse(s)
	if err != nil {
		return "", err
	}
	return sched.String(), nil
}

// Configured reports whether any day has opening windows.
func (s Schedule) Configured() bool {
	return len(s.days) > 0
}

// Windows returns the windows of day d, nil when closed.
func (s Schedule) Windows(d time.Weekday) []Window {
	return s.days[d]
}

// IsOpenAt reports whether t falls inside a window, judged on t's own wall
// clock. Windows that run past midnight count for the following morning.
func (s Schedule) IsOpenAt(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	for _, w := range s.days[t.Weekday()] {
		if m >= w.Open && m < w.Close {
			return true
		}
	}
	prev := (t.Weekday() + 6) % 7
	for _, w := range s.days[prev] {
		if w.Close > minutesPerDay && m+minutesPerDay < w.Close {
			return true
		}
	}
	return false
}

func (s Schedule) String() string {
	var parts []string
	week := mondayFirst()
	for i := 0; i < len(week); {
		ws, ok := s.days[week[i]]
		if !ok {
			i++
			continue
		}
		j := i
		for j+1 < len(week) && sameWindows(s.days[week[j+1]], ws) {
			j++
		}
		label := dayNames[week[i]]
		if j > i {
			label += "-" + dayNames[week[j]]
		}
		if len(ws) == 0 {
			parts = append(parts, label+" closed")
		} else {
			strs := make([]string, len(ws))
			for k, w := range ws {
				strs[k] = w.String()
			}
			parts = append(parts, label+" "+strings.Join(strs, ", "))
		}
		i = j + 1
	}
	return strings.Join(parts, "; ")
}

func sameWindows(a, b []Window) bool {
	if a == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var dayNames = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

func mondayFirst() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

// parseGroup splits "Mon-Fri, Sun 11-14, 18-22" at the first digit into a
// day part and a time part.
func parseGroup(g string) ([]time.Weekday, []Window, error) {
	lower := strings.ToLower(g)
	cut := strings.IndexAny(lower, "0123456789")
	closed := strings.Contains(lower, "closed")
	if closed {
		cut = strings.Index(lower, "closed")
	}
	if cut <= 0 {
		return nil, nil, errors.New("missing days")
	}

	days, err := parseDays(lower[:cut])
	if err != nil {
		return nil, nil, err
	}
	if closed {
		if strings.TrimSpace(lower[cut+len("closed"):]) != "" {
			return nil, nil, errors.New("unexpected text after closed")
		}
		return days, []Window{}, nil
	}

	var windows []Window
	for _, r := range strings.Split(lower[cut:], ",") {
		w, err := parseRange(strings.TrimSpace(r))
		if err != nil {
			return nil, nil, err
		}
		windows = append(windows, w)
	}
	return days, windows, nil
}

func parseDays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ":"))
	if s == "daily" || s == "everyday" || s == "every day" {
		return mondayFirst(), nil
	}

	seen := map[time.Weekday]bool{}
	var out []time.Weekday
	add := func(d time.Weekday) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}

	items := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '&' || r == '/' || r == ' ' })
	if len(items) == 0 {
		return nil, errors.New("missing days")
	}
	for _, item := range items {
		from, to, isRange := strings.Cut(item, "-")
		start, ok := weekday(from)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", from)
		}
		if !isRange {
			add(start)
			continue
		}
		end, ok := weekday(to)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", to)
		}
		// ranges wrap around the week, so "Fri-Mon" is Fri Sat Sun Mon
		for d := start; ; d = (d + 1) % 7 {
			add(d)
			if d == end {
				break
			}
		}
	}
	return out, nil
}

func weekday(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return 0, false
	}
	for d, name := range dayNames {
		full := strings.ToLower(d.String())
		if strings.HasPrefix(full, s) && strings.HasPrefix(s, strings.ToLower(name)) {
			return d, true
		}
	}
	return 0, false
}

// parseRange reads "11-14", "11:30-14:00" or "18:00-02:00". A close at or
// before the open runs into the next day.
func parseRange(s string) (Window, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return Window{}, fmt.Errorf("bad time range %q", s)
	}
	open, err := parseClock(from)
	if err != nil {
		return Window{}, err
	}
	closeAt, err := parseClock(to)
	if err != nil {
		return Window{}, err
	}
	if open == minutesPerDay {
		return Window{}, fmt.Errorf("bad opening time %q", from)
	}
	if closeAt <= open {
		closeAt += minutesPerDay
	}
	return Window{Open: open, Close: closeAt}, nil
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, hasMinutes := strings.Cut(s, ":")
	if !hasMinutes {
		hh, mm, hasMinutes = strings.Cut(s, ".")
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("bad time %q", s)
	}
	m := 0
	if hasMinutes {
		if len(mm) != 2 {
			return 0, fmt.Errorf("bad time %q", s)
		}
		m, err = strconv.Atoi(mm)
		if err != nil || m < 0 || m > 59 {
			return 0, fmt.Errorf("bad time %q", s)
		}
	}
	if h == 24 && m != 0 {
		return 0, fmt.Errorf("bad time %q", s)
	}
	return h*60 + m, nil
}
