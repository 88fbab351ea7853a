package booking

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SelectionState is the state of the selection state machine.
type SelectionState string

const (
	SelectionEmpty         SelectionState = "EMPTY"
	SelectionSingle        SelectionState = "SINGLE"
	SelectionContiguousRun SelectionState = "CONTIGUOUS_RUN"
)

// Transition describes what a toggle did to a selection.
type Transition string

const (
	// TransitionStarted means an empty selection received its first slot.
	TransitionStarted Transition = "STARTED"
	// TransitionExtended means a slot was added at either end of the run.
	TransitionExtended Transition = "EXTENDED"
	// TransitionSwitched means a selection on another court was replaced.
	TransitionSwitched Transition = "SWITCHED"
	// TransitionCleared means the anchor slot was removed, emptying the selection.
	TransitionCleared Transition = "CLEARED"
	// TransitionShrunk means the last slot was removed.
	TransitionShrunk Transition = "SHRUNK"
	// TransitionTruncated means an interior slot was removed together with everything after it.
	TransitionTruncated Transition = "TRUNCATED"
	// TransitionRejected means the toggle was ignored and the selection is unchanged.
	TransitionRejected Transition = "REJECTED"
)

// Changed reports whether the transition modified the selection.
func (t Transition) Changed() bool {
	return t != TransitionRejected
}

// Selection is the set of chosen slots, always on a single court and always
// forming one contiguous run. Slots are kept in chronological order.
// The zero value is an empty selection.
type Selection struct {
	CourtID string     `json:"court_id,omitempty" msgpack:"court_id"`
	Slots   []TimeSlot `json:"slots" msgpack:"slots"`
}

// IsEmpty reports whether no slot is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Slots) == 0
}

// Len is the number of selected slots.
func (s Selection) Len() int {
	return len(s.Slots)
}

// State maps the selection onto the toggle state machine.
func (s Selection) State() SelectionState {
	switch len(s.Slots) {
	case 0:
		return SelectionEmpty
	case 1:
		return SelectionSingle
	default:
		return SelectionContiguousRun
	}
}

// SlotIDs returns the selected slot ids in chronological order.
func (s Selection) SlotIDs() []string {
	ids := make([]string, len(s.Slots))
	for i, slot := range s.Slots {
		ids[i] = slot.ID
	}
	return ids
}

// Contains reports whether the slot id is selected.
func (s Selection) Contains(slotID string) bool {
	return s.indexOf(slotID) >= 0
}

// First is the chronologically first selected slot.
func (s Selection) First() (TimeSlot, bool) {
	if s.IsEmpty() {
		return TimeSlot{}, false
	}
	return s.Slots[0], true
}

// Last is the chronologically last selected slot.
func (s Selection) Last() (TimeSlot, bool) {
	if s.IsEmpty() {
		return TimeSlot{}, false
	}
	return s.Slots[len(s.Slots)-1], true
}

// Price is the price of one booking session of the selected slots.
func (s Selection) Price() decimal.Decimal {
	total := decimal.Zero
	for _, slot := range s.Slots {
		total = total.Add(slot.Price)
	}
	return total
}

func (s Selection) indexOf(slotID string) int {
	for i, slot := range s.Slots {
		if slot.ID == slotID {
			return i
		}
	}
	return -1
}

// extendable reports whether slot starts exactly at one of the two ends of the run.
func (s Selection) extendable(court Court, slot TimeSlot) bool {
	first, ok := s.First()
	if !ok {
		return false
	}
	last, _ := s.Last()
	next := last.End
	prev := first.Start.Add(-court.ReservationDuration)
	return slot.Start == next || slot.Start == prev
}

// Toggle applies a tap on slot of court to the selection and returns the new
// selection. The input selection is never modified. Taps that would break the
// selection invariants are no-ops reported as TransitionRejected.
func Toggle(sel Selection, court Court, slot TimeSlot) (Selection, Transition) {
	if slot.CourtID != "" && slot.CourtID != court.ID {
		return sel, TransitionRejected
	}

	if !sel.IsEmpty() && sel.CourtID != court.ID {
		if !slot.Available() {
			return sel, TransitionRejected
		}
		return newSelection(court.ID, slot), TransitionSwitched
	}

	if i := sel.indexOf(slot.ID); i >= 0 {
		switch {
		case i == 0:
			return Selection{}, TransitionCleared
		case i == sel.Len()-1:
			return sel.keep(i), TransitionShrunk
		default:
			return sel.keep(i), TransitionTruncated
		}
	}

	if !slot.Available() {
		return sel, TransitionRejected
	}

	if sel.IsEmpty() {
		return newSelection(court.ID, slot), TransitionStarted
	}

	if !sel.extendable(court, slot) {
		return sel, TransitionRejected
	}

	slots := make([]TimeSlot, 0, sel.Len()+1)
	slots = append(slots, sel.Slots...)
	slots = append(slots, slot)
	sortSlots(slots)
	return Selection{CourtID: sel.CourtID, Slots: slots}, TransitionExtended
}

// keep returns a copy holding only the first n slots.
func (s Selection) keep(n int) Selection {
	if n == 0 {
		return Selection{}
	}
	slots := make([]TimeSlot, n)
	copy(slots, s.Slots[:n])
	return Selection{CourtID: s.CourtID, Slots: slots}
}

func newSelection(courtID string, slot TimeSlot) Selection {
	return Selection{CourtID: courtID, Slots: []TimeSlot{slot}}
}

func sortSlots(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
}
