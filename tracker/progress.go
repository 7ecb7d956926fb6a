package tracker

import (
	"fmt"
	"strings"

	"click-collect/models"
)

// Steps is the happy path shown by the progress indicator. Cancelled is not a
// step; it is rendered on its own.
var Steps = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusReady,
	models.StatusCollected,
}

var labels = map[models.OrderStatus]string{
	models.StatusPending:   "Order received",
	models.StatusConfirmed: "Confirmed",
	models.StatusReady:     "Ready for pickup",
	models.StatusCollected: "Collected",
	models.StatusCancelled: "Cancelled",
}

// Progress describes where a status sits on the indicator.
type Progress struct {
	Status    models.OrderStatus
	Step      int // 1-based position in Steps, 0 when not on the path
	Total     int
	Cancelled bool
	Known     bool
}

// ProgressOf never fails: statuses outside the enumerated set come back with
// Known false and are only displayed.
func ProgressOf(status models.OrderStatus) Progress {
	p := Progress{Status: status, Total: len(Steps), Known: status.Known()}
	if status == models.StatusCancelled {
		p.Cancelled = true
		return p
	}
	for i, s := range Steps {
		if s == status {
			p.Step = i + 1
			break
		}
	}
	return p
}

// ShowBar reports whether the step indicator should be drawn.
func (p Progress) ShowBar() bool {
	return p.Step > 0
}

// Label is the customer-facing name of a status.
func Label(status models.OrderStatus) string {
	if l, ok := labels[status]; ok {
		return l
	}
	if status == "" {
		return "Unknown status"
	}
	return string(status)
}

// Render draws the indicator as a single line of text, e.g.
// "[x] Order received -- [x] Confirmed -- [ ] Ready for pickup -- [ ] Collected".
func (p Progress) Render() string {
	switch {
	case p.Cancelled:
		return "This order was cancelled"
	case !p.ShowBar():
		return fmt.Sprintf("Status: %s", Label(p.Status))
	}

	parts := make([]string, len(Steps))
	for i, s := range Steps {
		mark := " "
		if i < p.Step {
			mark = "x"
		}
		parts[i] = fmt.Sprintf("[%s] %s", mark, Label(s))
	}
	return strings.Join(parts, " -- ")
}
