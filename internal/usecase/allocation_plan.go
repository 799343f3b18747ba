package usecase

import (
	"fmt"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/domain"
	"station-dispatch/internal/dto/request"

	"github.com/google/uuid"
)

// seatPlan assigns part of one request to one locked queue row.
type seatPlan struct {
	entry *entity.QueueEntry
	seats int
}

// planSeats decides which vehicles absorb a request. Entries must already
// be in ascending position order. One vehicle that can hold the whole
// request wins over any combination of smaller ones; only when none can,
// the request spreads across vehicles in position order.
func planSeats(entries []*entity.QueueEntry, requested int) ([]seatPlan, error) {
	available := 0
	for _, e := range entries {
		available += e.AvailableSeats
	}
	if available < requested {
		return nil, domain.InsufficientCapacityError{Requested: requested, Available: available}
	}

	for _, e := range entries {
		if e.AvailableSeats >= requested {
			return []seatPlan{{entry: e, seats: requested}}, nil
		}
	}

	var plans []seatPlan
	remaining := requested
	for _, e := range entries {
		if remaining == 0 {
			break
		}
		if e.AvailableSeats == 0 {
			continue
		}
		take := e.AvailableSeats
		if take > remaining {
			take = remaining
		}
		plans = append(plans, seatPlan{entry: e, seats: take})
		remaining -= take
	}
	return plans, nil
}

func bookingAmount(basePrice, serviceFeePerSeat float64, seats int) float64 {
	return basePrice*float64(seats) + serviceFeePerSeat*float64(seats)
}

// validateReorder checks that the submitted items are a dense 1..N
// permutation covering exactly the live entries of the queue. Returns the
// entry-to-position assignment when valid.
func validateReorder(entries []*entity.QueueEntry, items []request.ReorderItem) (map[uuid.UUID]int, error) {
	if len(items) != len(entries) {
		return nil, domain.InvalidStateError{
			Msg: fmt.Sprintf("reorder must cover all %d queue entries, got %d", len(entries), len(items)),
		}
	}

	live := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		live[e.ID] = true
	}

	assigned := make(map[uuid.UUID]int, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.QueueEntryID)
		if err != nil {
			return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid queue entry id %q", item.QueueEntryID)}
		}
		if !live[id] {
			return nil, domain.InvalidStateError{Msg: fmt.Sprintf("queue entry %s is not in this queue", id)}
		}
		if _, dup := assigned[id]; dup {
			return nil, domain.InvalidStateError{Msg: fmt.Sprintf("queue entry %s listed twice", id)}
		}
		if item.Position < 1 || item.Position > len(entries) {
			return nil, domain.InvalidStateError{Msg: fmt.Sprintf("position %d out of range 1..%d", item.Position, len(entries))}
		}
		if seen[item.Position] {
			return nil, domain.InvalidStateError{Msg: fmt.Sprintf("position %d assigned twice", item.Position)}
		}
		assigned[id] = item.Position
		seen[item.Position] = true
	}
	return assigned, nil
}
