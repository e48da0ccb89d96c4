package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooltrip_tracker/internal/models"
)

func TestCreateTrip(t *testing.T) {
	start := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)

	t.Run("materializes one tracked stop per route student", func(t *testing.T) {
		// Route has stops at sequence 1, 2, 3; stop interval is 2 minutes.
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		assert.Equal(t, models.TripScheduled, trip.Status)
		require.Len(t, trip.Students, 3)

		expected := []time.Time{start, start.Add(2 * time.Minute), start.Add(4 * time.Minute)}
		for i, ts := range trip.Students {
			assert.Equal(t, models.StopScheduled, ts.Status)
			assert.WithinDuration(t, expected[i], ts.ScheduledTime, time.Second)
			assert.Nil(t, ts.ActualTime)
		}

		// 1:1 with the route's stops
		var stopCount int64
		f.db.Model(&models.TripStudent{}).Where("trip_id = ?", trip.ID).Count(&stopCount)
		assert.EqualValues(t, 3, stopCount)
	})

	t.Run("driver is optional at creation", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, nil, start)
		assert.Nil(t, trip.DriverID)
	})

	t.Run("rejects invalid trip type", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.tripService().CreateTrip(CreateTripInput{
			SchoolID:       f.school.ID,
			RouteID:        f.route.ID,
			BusID:          f.bus.ID,
			TripType:       "JOYRIDE",
			ScheduledStart: start,
			ActorID:        f.adminID,
		})
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
	})

	t.Run("rejects cross-school bus, route and driver", func(t *testing.T) {
		f := newFixture(t)

		otherBus := models.Bus{RegistrationNumber: "KA02XY0001", SchoolID: f.otherSchool.ID}
		require.NoError(t, f.db.Create(&otherBus).Error)
		otherRoute := models.Route{Name: "Lakeside Loop", SchoolID: f.otherSchool.ID}
		require.NoError(t, f.db.Create(&otherRoute).Error)
		outsiderUser := models.User{Name: "Outsider", Email: "outsider@example.com", Role: models.RoleDriver}
		require.NoError(t, f.db.Create(&outsiderUser).Error)
		outsider := models.Driver{UserID: outsiderUser.ID, SchoolID: f.otherSchool.ID}
		require.NoError(t, f.db.Create(&outsider).Error)

		base := CreateTripInput{
			SchoolID:       f.school.ID,
			RouteID:        f.route.ID,
			BusID:          f.bus.ID,
			TripType:       models.TripPickup,
			ScheduledStart: start,
			ActorID:        f.adminID,
		}

		var validation *ValidationError

		in := base
		in.BusID = otherBus.ID
		_, err := f.tripService().CreateTrip(in)
		require.True(t, errors.As(err, &validation))

		in = base
		in.RouteID = otherRoute.ID
		_, err = f.tripService().CreateTrip(in)
		require.True(t, errors.As(err, &validation))

		in = base
		in.DriverID = &outsider.ID
		_, err = f.tripService().CreateTrip(in)
		require.True(t, errors.As(err, &validation))

		// Nothing was half-created along the way.
		var tripCount int64
		f.db.Model(&models.Trip{}).Count(&tripCount)
		assert.Zero(t, tripCount)
		var stopCount int64
		f.db.Model(&models.TripStudent{}).Count(&stopCount)
		assert.Zero(t, stopCount)
	})
}

func TestTransitionTo(t *testing.T) {
	start := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)

	t.Run("full lifecycle with caller-supplied times", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		began := start.Add(3 * time.Minute)
		trip, err := f.tripService().TransitionTo(trip.ID, models.TripInProgress, f.adminID, &began)
		require.NoError(t, err)
		assert.Equal(t, models.TripInProgress, trip.Status)
		require.NotNil(t, trip.ActualStartTime)
		assert.WithinDuration(t, began, *trip.ActualStartTime, time.Second)

		ended := start.Add(48 * time.Minute)
		trip, err = f.tripService().TransitionTo(trip.ID, models.TripCompleted, f.adminID, &ended)
		require.NoError(t, err)
		assert.Equal(t, models.TripCompleted, trip.Status)
		require.NotNil(t, trip.ActualEndTime)
		assert.WithinDuration(t, ended, *trip.ActualEndTime, time.Second)
	})

	t.Run("no driver means no departure", func(t *testing.T) {
		// Trip dispatched before a driver is assigned.
		f := newFixture(t)
		trip := f.mustCreateTrip(t, nil, start)

		_, err := f.tripService().TransitionTo(trip.ID, models.TripInProgress, f.adminID, nil)
		require.ErrorIs(t, err, ErrDriverRequired)
		var precondition *PreconditionError
		assert.True(t, errors.As(err, &precondition))

		var current models.Trip
		require.NoError(t, f.db.First(&current, trip.ID).Error)
		assert.Equal(t, models.TripScheduled, current.Status)
	})

	t.Run("terminal states admit no transitions", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		_, err := f.tripService().TransitionTo(trip.ID, models.TripCancelled, f.adminID, nil)
		require.NoError(t, err)

		var validation *ValidationError
		for _, next := range []string{models.TripScheduled, models.TripInProgress, models.TripCompleted, models.TripCancelled} {
			_, err = f.tripService().TransitionTo(trip.ID, next, f.adminID, nil)
			require.True(t, errors.As(err, &validation), "CANCELLED -> %s must be rejected", next)
		}
	})

	t.Run("skipping IN_PROGRESS is rejected", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		var validation *ValidationError
		_, err := f.tripService().TransitionTo(trip.ID, models.TripCompleted, f.adminID, nil)
		require.True(t, errors.As(err, &validation))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		var validation *ValidationError
		_, err := f.tripService().TransitionTo(trip.ID, "PAUSED", f.adminID, nil)
		require.True(t, errors.As(err, &validation))
	})

	t.Run("completion leaves unreported stops SCHEDULED", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		_, err := f.tripService().TransitionTo(trip.ID, models.TripInProgress, f.adminID, &start)
		require.NoError(t, err)
		_, err = f.tripService().TransitionTo(trip.ID, models.TripCompleted, f.adminID, nil)
		require.NoError(t, err)

		var stops []models.TripStudent
		require.NoError(t, f.db.Where("trip_id = ?", trip.ID).Find(&stops).Error)
		for _, s := range stops {
			assert.Equal(t, models.StopScheduled, s.Status)
		}
	})
}

func TestAssignDriver(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	t.Run("assigns a same-school driver while SCHEDULED", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, nil, start)

		trip, err := f.tripService().AssignDriver(trip.ID, f.driver.ID, f.adminID)
		require.NoError(t, err)
		require.NotNil(t, trip.DriverID)
		assert.Equal(t, f.driver.ID, *trip.DriverID)

		// Now the driver gate opens.
		_, err = f.tripService().TransitionTo(trip.ID, models.TripInProgress, f.adminID, &start)
		require.NoError(t, err)
	})

	t.Run("rejects cross-school driver", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, nil, start)

		outsiderUser := models.User{Name: "Outsider", Email: "outsider2@example.com", Role: models.RoleDriver}
		require.NoError(t, f.db.Create(&outsiderUser).Error)
		outsider := models.Driver{UserID: outsiderUser.ID, SchoolID: f.otherSchool.ID}
		require.NoError(t, f.db.Create(&outsider).Error)

		var validation *ValidationError
		_, err := f.tripService().AssignDriver(trip.ID, outsider.ID, f.adminID)
		require.True(t, errors.As(err, &validation))
	})

	t.Run("rejects reassignment after departure", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)
		_, err := f.tripService().TransitionTo(trip.ID, models.TripInProgress, f.adminID, &start)
		require.NoError(t, err)

		var precondition *PreconditionError
		_, err = f.tripService().AssignDriver(trip.ID, f.driver.ID, f.adminID)
		require.True(t, errors.As(err, &precondition))
	})
}

func TestDeleteTrip(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)
	trip := f.mustCreateTrip(t, &f.driver.ID, start)

	telemetry := NewTelemetryService(f.db)
	_, err := telemetry.RecordLocation(trip.ID, 12.97, 77.59, nil, start)
	require.NoError(t, err)
	_, err = telemetry.RecordEvent(trip.ID, models.EventStart, "left depot", nil, nil, start)
	require.NoError(t, err)

	require.NoError(t, f.tripService().DeleteTrip(trip.ID))

	// Everything the trip owned is gone; shared entities survive.
	var count int64
	f.db.Model(&models.TripStudent{}).Where("trip_id = ?", trip.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.TripLocation{}).Where("trip_id = ?", trip.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.TripEvent{}).Where("trip_id = ?", trip.ID).Count(&count)
	assert.Zero(t, count)

	f.db.Model(&models.Student{}).Count(&count)
	assert.EqualValues(t, 3, count)
	f.db.Model(&models.RouteStudent{}).Count(&count)
	assert.EqualValues(t, 3, count)
}
