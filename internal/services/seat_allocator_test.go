package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatLabels_Deterministic(t *testing.T) {
	allocator := NewSeatAllocator(4)

	first := allocator.SeatLabels(10)
	second := allocator.SeatLabels(10)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "B1", "B2", "B3", "B4", "C1", "C2"}, first)
}

func TestSeatLabels_ExactCountAndDistinct(t *testing.T) {
	allocator := NewSeatAllocator(4)

	for _, capacity := range []int{1, 4, 5, 26 * 4, 30*4 + 3} {
		labels := allocator.SeatLabels(capacity)
		require.Len(t, labels, capacity)

		seen := make(map[string]struct{}, capacity)
		for _, label := range labels {
			_, dup := seen[label]
			require.False(t, dup, "duplicate label %s for capacity %d", label, capacity)
			seen[label] = struct{}{}
		}
	}
}

func TestSeatLabels_ZeroCapacity(t *testing.T) {
	allocator := NewSeatAllocator(4)
	assert.Empty(t, allocator.SeatLabels(0))
}

func TestAvailableSeats(t *testing.T) {
	allocator := NewSeatAllocator(4)

	occupied := map[string]struct{}{"A2": {}, "B1": {}}
	available := allocator.AvailableSeats(6, occupied)

	assert.Equal(t, []string{"A1", "A3", "A4", "B2"}, available)
}

func TestAvailableSeats_EmptyOccupied(t *testing.T) {
	allocator := NewSeatAllocator(4)
	assert.Len(t, allocator.AvailableSeats(7, nil), 7)
}

func TestReserve_Conflict(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	require.NoError(t, allocator.Reserve(scope, "A1", 4))

	err := allocator.Reserve(scope, "A1", 4)
	require.Error(t, err)

	conflict, ok := err.(*SeatConflictError)
	require.True(t, ok)
	assert.Equal(t, "A1", conflict.SeatNumber)
}

func TestReserve_InvalidSeat(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	err := allocator.Reserve(scope, "Z9", 4)
	require.Error(t, err)
	assert.IsType(t, &SeatConflictError{}, err)
}

func TestReserve_IndependentScopes(t *testing.T) {
	allocator := NewSeatAllocator(4)

	morning := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}
	evening := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "17:00"}

	require.NoError(t, allocator.Reserve(morning, "A1", 4))
	require.NoError(t, allocator.Reserve(evening, "A1", 4))
}

func TestReserve_ConcurrentSameSeat(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	const n = 50
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- allocator.Reserve(scope, "A1", 40)
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.IsType(t, &SeatConflictError{}, err)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestReserveFirst_ConcurrentNeverExceedsCapacity(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	const n = 30
	const capacity = 12

	var wg sync.WaitGroup
	seats := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seat, err := allocator.ReserveFirst(scope, capacity)
			if err == nil {
				seats <- seat
			}
		}()
	}
	wg.Wait()
	close(seats)

	assigned := make(map[string]struct{})
	for seat := range seats {
		_, dup := assigned[seat]
		require.False(t, dup, "seat %s assigned twice", seat)
		assigned[seat] = struct{}{}
	}

	assert.Len(t, assigned, capacity)
}

func TestRelease_Idempotent(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	require.NoError(t, allocator.Reserve(scope, "A1", 4))

	allocator.Release(scope, "A1")
	allocator.Release(scope, "A1") // already free, no-op
	allocator.Release(scope, "B2") // never reserved, no-op

	// Seat is bookable again after release.
	require.NoError(t, allocator.Reserve(scope, "A1", 4))
}

func TestWarm_LoadsOnce(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"A1", "A2"}, nil
	}

	require.NoError(t, allocator.Warm(scope, load))
	require.NoError(t, allocator.Warm(scope, load))

	assert.Equal(t, 1, calls)
	assert.Error(t, allocator.Reserve(scope, "A1", 4))
	assert.NoError(t, allocator.Reserve(scope, "A3", 4))
}

func TestWarm_PropagatesLoaderError(t *testing.T) {
	allocator := NewSeatAllocator(4)
	scope := Scope{BusID: "bus-1", TripDate: "2026-09-01", TripTime: "08:00"}

	err := allocator.Warm(scope, func() ([]string, error) {
		return nil, fmt.Errorf("db down")
	})
	require.Error(t, err)

	// A failed warm must not mark the scope as seeded.
	require.NoError(t, allocator.Warm(scope, func() ([]string, error) {
		return []string{"B1"}, nil
	}))
	assert.Error(t, allocator.Reserve(scope, "B1", 8))
}

func TestRowLabel_WideBuses(t *testing.T) {
	assert.Equal(t, "A", rowLabel(1))
	assert.Equal(t, "Z", rowLabel(26))
	assert.Equal(t, "AA", rowLabel(27))
	assert.Equal(t, "AB", rowLabel(28))
}
