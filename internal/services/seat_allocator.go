package services

import (
	"fmt"
	"sync"
)

// Scope identifies one trip slot: seat occupancy on the same bus is tracked
// independently per (bus, date, time).
type Scope struct {
	BusID    string
	TripDate string
	TripTime string
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s/%s", s.BusID, s.TripDate, s.TripTime)
}

// scopeState is the occupied-seat set for one scope, guarded by its own lock
// so reservations on different trips never contend.
type scopeState struct {
	mu       sync.Mutex
	occupied map[string]struct{}
	warmed   bool
}

// SeatAllocator owns seat assignment for trip slots. Reserve is the only
// blocking operation: the check-then-occupy runs under the scope's lock, so
// two concurrent reservations can never take the same seat or push occupancy
// past capacity.
type SeatAllocator struct {
	mu          sync.Mutex
	scopes      map[Scope]*scopeState
	seatsPerRow int
}

// NewSeatAllocator creates a seat allocator. seatsPerRow controls the
// canonical seat layout (default 4: A1..A4, B1..B4, ...).
func NewSeatAllocator(seatsPerRow int) *SeatAllocator {
	if seatsPerRow <= 0 {
		seatsPerRow = 4
	}
	return &SeatAllocator{
		scopes:      make(map[Scope]*scopeState),
		seatsPerRow: seatsPerRow,
	}
}

// rowLabel converts a row number to its alphabetic label (1->A, 2->B, ...,
// 27->AA)
func rowLabel(rowNumber int) string {
	if rowNumber <= 0 {
		return "A"
	}
	if rowNumber <= 26 {
		return string(rune('A' + rowNumber - 1))
	}
	first := (rowNumber - 1) / 26
	second := (rowNumber - 1) % 26
	return string(rune('A'+first-1)) + string(rune('A'+second))
}

// SeatLabels generates the canonical seat-label sequence for a bus of the
// given capacity: row letter plus position, filling each row left to right.
// Deterministic for identical input.
func (a *SeatAllocator) SeatLabels(capacity int) []string {
	if capacity <= 0 {
		return nil
	}

	labels := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		row := i/a.seatsPerRow + 1
		pos := i%a.seatsPerRow + 1
		labels = append(labels, fmt.Sprintf("%s%d", rowLabel(row), pos))
	}

	return labels
}

// AvailableSeats returns the canonical labels for the given capacity that
// are not in the occupied set, in layout order. Pure function.
func (a *SeatAllocator) AvailableSeats(capacity int, occupied map[string]struct{}) []string {
	labels := a.SeatLabels(capacity)

	available := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, taken := occupied[label]; !taken {
			available = append(available, label)
		}
	}

	return available
}

// getScope returns the state for a scope, creating it if needed
func (a *SeatAllocator) getScope(scope Scope) *scopeState {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.scopes[scope]
	if !ok {
		state = &scopeState{occupied: make(map[string]struct{})}
		a.scopes[scope] = state
	}
	return state
}

// Warm seeds a scope's occupied set from persisted bookings. The loader runs
// at most once per scope, under the scope's lock, so concurrent first
// reservations on the same trip see a consistent set.
func (a *SeatAllocator) Warm(scope Scope, load func() ([]string, error)) error {
	state := a.getScope(scope)

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.warmed {
		return nil
	}

	seats, err := load()
	if err != nil {
		return fmt.Errorf("failed to warm seat scope %s: %w", scope, err)
	}

	for _, seat := range seats {
		state.occupied[seat] = struct{}{}
	}
	state.warmed = true

	return nil
}

// Reserve atomically marks a seat occupied. It re-checks the current
// occupied set under the scope's exclusive lock before occupying, and fails
// with a SeatConflictError when the seat is outside the layout, already
// taken, or the bus is full.
func (a *SeatAllocator) Reserve(scope Scope, seatNumber string, capacity int) error {
	if !a.validSeat(seatNumber, capacity) {
		return &SeatConflictError{Scope: scope, SeatNumber: seatNumber, Reason: "seat is not in the bus layout"}
	}

	state := a.getScope(scope)

	state.mu.Lock()
	defer state.mu.Unlock()

	if len(state.occupied) >= capacity {
		return &SeatConflictError{Scope: scope, SeatNumber: seatNumber, Reason: "bus is at capacity"}
	}
	if _, taken := state.occupied[seatNumber]; taken {
		return &SeatConflictError{Scope: scope, SeatNumber: seatNumber, Reason: "seat is already taken"}
	}

	state.occupied[seatNumber] = struct{}{}
	return nil
}

// ReserveFirst picks and occupies the first available seat in layout order,
// in a single critical section. Returns the reserved label.
func (a *SeatAllocator) ReserveFirst(scope Scope, capacity int) (string, error) {
	state := a.getScope(scope)

	state.mu.Lock()
	defer state.mu.Unlock()

	if len(state.occupied) >= capacity {
		return "", &SeatConflictError{Scope: scope, Reason: "bus is at capacity"}
	}

	for _, label := range a.SeatLabels(capacity) {
		if _, taken := state.occupied[label]; !taken {
			state.occupied[label] = struct{}{}
			return label, nil
		}
	}

	return "", &SeatConflictError{Scope: scope, Reason: "bus is at capacity"}
}

// Occupy marks a seat occupied without validation. Used to restore a
// reservation when a release had to be undone; normal reservations go
// through Reserve.
func (a *SeatAllocator) Occupy(scope Scope, seatNumber string) {
	state := a.getScope(scope)

	state.mu.Lock()
	defer state.mu.Unlock()

	state.occupied[seatNumber] = struct{}{}
}

// Release removes a seat from the occupied set. Idempotent: releasing a
// free seat is a no-op.
func (a *SeatAllocator) Release(scope Scope, seatNumber string) {
	state := a.getScope(scope)

	state.mu.Lock()
	defer state.mu.Unlock()

	delete(state.occupied, seatNumber)
}

// Occupied returns a snapshot copy of a scope's occupied set
func (a *SeatAllocator) Occupied(scope Scope) map[string]struct{} {
	state := a.getScope(scope)

	state.mu.Lock()
	defer state.mu.Unlock()

	snapshot := make(map[string]struct{}, len(state.occupied))
	for seat := range state.occupied {
		snapshot[seat] = struct{}{}
	}
	return snapshot
}

// validSeat checks a label against the canonical sequence for the capacity
func (a *SeatAllocator) validSeat(seatNumber string, capacity int) bool {
	for _, label := range a.SeatLabels(capacity) {
		if label == seatNumber {
			return true
		}
	}
	return false
}
