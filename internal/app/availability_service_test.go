package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AHmedaf123/SiteNest-sub002/internal/clock"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

func TestAvailabilityServiceCheckAvailability(t *testing.T) {
	ctx := context.Background()
	checkIn, checkOut := stay(14, 17)

	t.Run("free when nothing overlaps", func(t *testing.T) {
		store := newMemStore(testApartment("apt-1", "101", 2))
		svc := NewAvailabilityService(store, store, clock.NewFixed(testNow))

		free, err := svc.CheckAvailability(ctx, "apt-1", checkIn, checkOut)
		require.NoError(t, err)
		require.True(t, free)
	})

	t.Run("blocked by a confirmed interval", func(t *testing.T) {
		store := newMemStore(testApartment("apt-1", "101", 2))
		require.NoError(t, store.Insert(ctx, domain.Interval{
			ID:          "iv-1",
			ApartmentID: "apt-1",
			Kind:        domain.IntervalConfirmed,
			StartsAt:    checkIn.AddDate(0, 0, 2),
			EndsAt:      checkOut.AddDate(0, 0, 2),
		}))
		svc := NewAvailabilityService(store, store, clock.NewFixed(testNow))

		free, err := svc.CheckAvailability(ctx, "apt-1", checkIn, checkOut)
		require.NoError(t, err)
		require.False(t, free)
	})

	t.Run("back-to-back stays do not collide", func(t *testing.T) {
		store := newMemStore(testApartment("apt-1", "101", 2))
		require.NoError(t, store.Insert(ctx, domain.Interval{
			ID:          "iv-1",
			ApartmentID: "apt-1",
			Kind:        domain.IntervalConfirmed,
			StartsAt:    checkOut,
			EndsAt:      checkOut.AddDate(0, 0, 3),
		}))
		svc := NewAvailabilityService(store, store, clock.NewFixed(testNow))

		free, err := svc.CheckAvailability(ctx, "apt-1", checkIn, checkOut)
		require.NoError(t, err)
		require.True(t, free)
	})

	t.Run("blocked by a live hold", func(t *testing.T) {
		store := newMemStore(testApartment("apt-1", "101", 2))
		holds := NewHoldService(store, store, store, clock.NewFixed(testNow), nil)
		_, err := holds.CreateHold(ctx, CreateHoldInput{ApartmentID: "apt-1", CheckIn: checkIn, CheckOut: checkOut})
		require.NoError(t, err)
		svc := NewAvailabilityService(store, store, clock.NewFixed(testNow))

		free, err := svc.CheckAvailability(ctx, "apt-1", checkIn, checkOut)
		require.NoError(t, err)
		require.False(t, free)
	})

	t.Run("lapsed hold stops blocking before the sweep", func(t *testing.T) {
		store := newMemStore(testApartment("apt-1", "101", 2))
		clk := clock.NewStepping(testNow)
		holds := NewHoldService(store, store, store, clk, nil)
		_, err := holds.CreateHold(ctx, CreateHoldInput{ApartmentID: "apt-1", CheckIn: checkIn, CheckOut: checkOut})
		require.NoError(t, err)
		svc := NewAvailabilityService(store, store, clk)

		clk.Advance(46 * time.Minute)
		free, err := svc.CheckAvailability(ctx, "apt-1", checkIn, checkOut)
		require.NoError(t, err)
		require.True(t, free)
	})

	t.Run("unknown apartment", func(t *testing.T) {
		store := newMemStore()
		svc := NewAvailabilityService(store, store, clock.NewFixed(testNow))

		_, err := svc.CheckAvailability(ctx, "missing", checkIn, checkOut)
		require.ErrorIs(t, err, domain.ErrApartmentNotFound)
	})
}

func TestAvailabilityServiceFindAvailable(t *testing.T) {
	ctx := context.Background()
	checkIn, checkOut := stay(14, 17)

	store := newMemStore(
		testApartment("apt-1", "101", 1),
		testApartment("apt-2", "102", 2),
		testApartment("apt-3", "103", 3),
	)
	require.NoError(t, store.Insert(ctx, domain.Interval{
		ID:          "iv-1",
		ApartmentID: "apt-2",
		Kind:        domain.IntervalConfirmed,
		StartsAt:    checkIn,
		EndsAt:      checkOut,
	}))
	svc := NewAvailabilityService(store, store, clock.NewFixed(testNow))

	t.Run("skips occupied apartments, keeps listing order", func(t *testing.T) {
		got, err := svc.FindAvailable(ctx, checkIn, checkOut, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "101", got[0].RoomNumber)
		require.Equal(t, "103", got[1].RoomNumber)
	})

	t.Run("filters by guest capacity", func(t *testing.T) {
		got, err := svc.FindAvailable(ctx, checkIn, checkOut, 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "103", got[0].RoomNumber)
	})

	t.Run("alternatives exclude the requested apartment and cap the count", func(t *testing.T) {
		got, err := svc.FindAlternatives(ctx, "apt-1", checkIn, checkOut, 0, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "103", got[0].RoomNumber)
	})
}
