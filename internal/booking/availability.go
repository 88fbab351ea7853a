package booking

import (
	"fmt"
)

// Bucket is the list of slots falling in one time-of-day period.
type Bucket struct {
	Period Period     `json:"period"`
	Slots  []TimeSlot `json:"slots"`
}

// ClassifiedSlot pairs a slot with its render state.
type ClassifiedSlot struct {
	TimeSlot
	State SlotState `json:"state"`
}

// ClassifiedBucket is a Bucket whose slots carry their render state.
type ClassifiedBucket struct {
	Period Period           `json:"period"`
	Slots  []ClassifiedSlot `json:"slots"`
}

// DayIndex organises the slots fetched for one court on one date.
type DayIndex struct {
	court Court
	slots []TimeSlot
	byID  map[string]int
}

// NewDayIndex validates the fetched slots against the court and indexes them
// in chronological order.
func NewDayIndex(court Court, slots []TimeSlot) (*DayIndex, error) {
	if err := court.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]TimeSlot, len(slots))
	copy(sorted, slots)
	sortSlots(sorted)

	idx := &DayIndex{
		court: court,
		slots: sorted,
		byID:  make(map[string]int, len(sorted)),
	}
	for i, slot := range sorted {
		if slot.ID == "" {
			return nil, fmt.Errorf("%w: slot at %s has no id", ErrInvalidSlot, slot.Start)
		}
		if slot.CourtID != court.ID {
			return nil, fmt.Errorf("%w: slot %s belongs to court %s, not %s", ErrInvalidSlot, slot.ID, slot.CourtID, court.ID)
		}
		if slot.Start >= slot.End {
			return nil, fmt.Errorf("%w: slot %s starts at %s but ends at %s", ErrInvalidSlot, slot.ID, slot.Start, slot.End)
		}
		if slot.Duration() != court.ReservationDuration {
			return nil, fmt.Errorf("%w: slot %s lasts %s, court %s books %s", ErrInvalidSlot, slot.ID, slot.Duration(), court.ID, court.ReservationDuration)
		}
		if _, dup := idx.byID[slot.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate slot id %s", ErrInvalidSlot, slot.ID)
		}
		if i > 0 && sorted[i-1].End > slot.Start {
			return nil, fmt.Errorf("%w: slot %s overlaps slot %s", ErrInvalidSlot, slot.ID, sorted[i-1].ID)
		}
		idx.byID[slot.ID] = i
	}
	return idx, nil
}

// Court returns the indexed court.
func (d *DayIndex) Court() Court {
	return d.court
}

// Slots returns the slots in chronological order.
func (d *DayIndex) Slots() []TimeSlot {
	out := make([]TimeSlot, len(d.slots))
	copy(out, d.slots)
	return out
}

// Slot looks up a slot by id.
func (d *DayIndex) Slot(id string) (TimeSlot, bool) {
	i, ok := d.byID[id]
	if !ok {
		return TimeSlot{}, false
	}
	return d.slots[i], true
}

// Buckets groups the slots into morning, afternoon and evening. Empty periods
// are omitted.
func (d *DayIndex) Buckets() []Bucket {
	var buckets []Bucket
	for _, slot := range d.slots {
		p := slot.Start.Period()
		if len(buckets) == 0 || buckets[len(buckets)-1].Period != p {
			buckets = append(buckets, Bucket{Period: p})
		}
		buckets[len(buckets)-1].Slots = append(buckets[len(buckets)-1].Slots, slot)
	}
	return buckets
}

// Classified returns every slot of the day with its state against sel.
func (d *DayIndex) Classified(sel Selection) []ClassifiedSlot {
	out := make([]ClassifiedSlot, len(d.slots))
	for i, slot := range d.slots {
		out[i] = ClassifiedSlot{TimeSlot: slot, State: Classify(slot, sel, d.court)}
	}
	return out
}

// ClassifiedBuckets is Buckets with every slot classified against sel.
func (d *DayIndex) ClassifiedBuckets(sel Selection) []ClassifiedBucket {
	buckets := d.Buckets()
	out := make([]ClassifiedBucket, len(buckets))
	for i, b := range buckets {
		out[i].Period = b.Period
		out[i].Slots = make([]ClassifiedSlot, len(b.Slots))
		for j, slot := range b.Slots {
			out[i].Slots[j] = ClassifiedSlot{TimeSlot: slot, State: Classify(slot, sel, d.court)}
		}
	}
	return out
}

// Classify returns the render state of slot on court given the current selection.
func Classify(slot TimeSlot, sel Selection, court Court) SlotState {
	if !slot.Available() {
		return StateDisabled
	}
	if sel.Contains(slot.ID) && sel.CourtID == court.ID {
		return StateSelected
	}
	if sel.IsEmpty() {
		return StateNormal
	}
	if sel.CourtID != court.ID {
		return StateDisabled
	}
	if sel.extendable(court, slot) {
		return StateNormal
	}
	return StateDisabled
}
