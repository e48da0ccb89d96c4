package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooltrip_tracker/internal/models"
)

func TestMarkStopStatus(t *testing.T) {
	start := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)

	t.Run("records status, reporter and time in one write", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)
		stop := trip.Students[0]

		pickedAt := start.Add(90 * time.Second)
		updated, err := f.tripService().MarkStopStatus(stop.ID, models.StopPickedUp, f.driver.UserID, &pickedAt)
		require.NoError(t, err)
		assert.Equal(t, models.StopPickedUp, updated.Status)
		require.NotNil(t, updated.ReportedByID)
		assert.Equal(t, f.driver.UserID, *updated.ReportedByID)
		require.NotNil(t, updated.ActualTime)
		assert.WithinDuration(t, pickedAt, *updated.ActualTime, time.Second)

		var persisted models.TripStudent
		require.NoError(t, f.db.First(&persisted, stop.ID).Error)
		assert.Equal(t, models.StopPickedUp, persisted.Status)
		require.NotNil(t, persisted.ActualTime)
		assert.WithinDuration(t, pickedAt, *persisted.ActualTime, time.Second)
	})

	t.Run("transition matrix", func(t *testing.T) {
		cases := []struct {
			from, to string
			ok       bool
		}{
			{models.StopScheduled, models.StopPickedUp, true},
			{models.StopScheduled, models.StopDroppedOff, true},
			{models.StopScheduled, models.StopAbsent, true},
			{models.StopScheduled, models.StopCancelled, true},
			{models.StopPickedUp, models.StopDroppedOff, true},
			{models.StopPickedUp, models.StopAbsent, false},
			{models.StopPickedUp, models.StopScheduled, false},
			{models.StopDroppedOff, models.StopPickedUp, false},
			{models.StopDroppedOff, models.StopScheduled, false},
			{models.StopAbsent, models.StopPickedUp, false},
			{models.StopCancelled, models.StopPickedUp, false},
		}
		for _, tc := range cases {
			t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
				f := newFixture(t)
				trip := f.mustCreateTrip(t, &f.driver.ID, start)
				stop := trip.Students[0]
				if tc.from != models.StopScheduled {
					require.NoError(t, f.db.Model(&models.TripStudent{}).
						Where("id = ?", stop.ID).
						Update("status", tc.from).Error)
				}

				_, err := f.tripService().MarkStopStatus(stop.ID, tc.to, f.driver.UserID, nil)
				if tc.ok {
					require.NoError(t, err)
					return
				}
				var validation *ValidationError
				require.True(t, errors.As(err, &validation))
			})
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		var validation *ValidationError
		_, err := f.tripService().MarkStopStatus(trip.Students[0].ID, "LOST", f.driver.UserID, nil)
		require.True(t, errors.As(err, &validation))
	})

	t.Run("rejects a stop whose route drifted from the trip", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		// Simulate a route edit that moved this stop to another route after
		// the trip materialized it.
		otherRoute := models.Route{Name: "Lakeside Loop", SchoolID: f.school.ID}
		require.NoError(t, f.db.Create(&otherRoute).Error)
		require.NoError(t, f.db.Model(&models.RouteStudent{}).
			Where("id = ?", trip.Students[0].RouteStudentID).
			Update("route_id", otherRoute.ID).Error)

		_, err := f.tripService().MarkStopStatus(trip.Students[0].ID, models.StopPickedUp, f.driver.UserID, nil)
		require.ErrorIs(t, err, ErrRouteMismatch)
		var precondition *PreconditionError
		assert.True(t, errors.As(err, &precondition))
	})

	t.Run("sibling stops are independent", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		// Report stop 2 before stop 1; neither neighbour changes.
		_, err := f.tripService().MarkStopStatus(trip.Students[1].ID, models.StopPickedUp, f.driver.UserID, nil)
		require.NoError(t, err)

		var siblings []models.TripStudent
		require.NoError(t, f.db.Where("trip_id = ? AND id <> ?", trip.ID, trip.Students[1].ID).Find(&siblings).Error)
		require.Len(t, siblings, 2)
		for _, s := range siblings {
			assert.Equal(t, models.StopScheduled, s.Status)
			assert.Nil(t, s.ReportedByID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		var nf *NotFoundError
		_, err := f.tripService().MarkStopStatus(9999, models.StopPickedUp, f.adminID, nil)
		require.True(t, errors.As(err, &nf))
	})
}
