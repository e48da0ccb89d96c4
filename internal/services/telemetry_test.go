package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooltrip_tracker/internal/models"
)

func TestRecordLocation(t *testing.T) {
	start := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)

	t.Run("appends a ping", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		speed := 32.5
		loc, err := NewTelemetryService(f.db).RecordLocation(trip.ID, 12.9716, 77.5946, &speed, start.Add(time.Minute))
		require.NoError(t, err)
		assert.NotZero(t, loc.ID)
		assert.Equal(t, trip.ID, loc.TripID)

		var count int64
		f.db.Model(&models.TripLocation{}).Where("trip_id = ?", trip.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("out-of-range coordinates persist nothing", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)
		svc := NewTelemetryService(f.db)

		var validation *ValidationError
		for _, c := range []struct{ lat, lng float64 }{
			{95, 77.59},
			{-91, 77.59},
			{12.97, 181},
			{12.97, -180.5},
		} {
			_, err := svc.RecordLocation(trip.ID, c.lat, c.lng, nil, start)
			require.True(t, errors.As(err, &validation), "lat=%v lng=%v", c.lat, c.lng)
		}

		var count int64
		f.db.Model(&models.TripLocation{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("boundary coordinates are accepted", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)
		svc := NewTelemetryService(f.db)

		for _, c := range []struct{ lat, lng float64 }{
			{90, 180},
			{-90, -180},
			{0, 0},
		} {
			_, err := svc.RecordLocation(trip.ID, c.lat, c.lng, nil, start)
			require.NoError(t, err, "lat=%v lng=%v", c.lat, c.lng)
		}
	})

	t.Run("unknown trip", func(t *testing.T) {
		f := newFixture(t)
		var nf *NotFoundError
		_, err := NewTelemetryService(f.db).RecordLocation(9999, 12.97, 77.59, nil, start)
		require.True(t, errors.As(err, &nf))
	})
}

func TestRecordEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)

	t.Run("event without coordinates", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		ev, err := NewTelemetryService(f.db).RecordEvent(trip.ID, models.EventDelay, "traffic at the ring road", nil, nil, start.Add(5*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, models.EventDelay, ev.EventType)
		assert.Nil(t, ev.Latitude)
	})

	t.Run("event with coordinates", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		lat, lng := 12.9716, 77.5946
		ev, err := NewTelemetryService(f.db).RecordEvent(trip.ID, models.EventBreakdown, "flat tyre", &lat, &lng, start)
		require.NoError(t, err)
		require.NotNil(t, ev.Latitude)
		assert.InDelta(t, lat, *ev.Latitude, 1e-9)
	})

	t.Run("coordinates come in pairs", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)
		svc := NewTelemetryService(f.db)
		lat, lng := 12.97, 77.59

		var validation *ValidationError
		_, err := svc.RecordEvent(trip.ID, models.EventOther, "half a position", &lat, nil, start)
		require.True(t, errors.As(err, &validation))
		_, err = svc.RecordEvent(trip.ID, models.EventOther, "half a position", nil, &lng, start)
		require.True(t, errors.As(err, &validation))

		bad := 95.0
		_, err = svc.RecordEvent(trip.ID, models.EventOther, "off the map", &bad, &lng, start)
		require.True(t, errors.As(err, &validation))

		var count int64
		f.db.Model(&models.TripEvent{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("rejects unknown event type", func(t *testing.T) {
		f := newFixture(t)
		trip := f.mustCreateTrip(t, &f.driver.ID, start)

		var validation *ValidationError
		_, err := NewTelemetryService(f.db).RecordEvent(trip.ID, "TEA_BREAK", "", nil, nil, start)
		require.True(t, errors.As(err, &validation))
	})
}
