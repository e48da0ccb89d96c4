package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"schooltrip_tracker/internal/models"
)

// setupDB opens a fresh in-memory database per test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.SchoolAdmin{},
		&models.Parent{},
		&models.Driver{},
		&models.Student{},
		&models.Bus{},
		&models.Route{},
		&models.RouteStudent{},
		&models.Trip{},
		&models.TripStudent{},
		&models.TripLocation{},
		&models.TripEvent{},
	))
	return db
}

// fixture is a school with one bus, one driver, one route and three students
// at sequence 1, 2, 3.
type fixture struct {
	db          *gorm.DB
	school      models.School
	otherSchool models.School
	bus         models.Bus
	driver      models.Driver
	route       models.Route
	students    []models.Student
	stops       []models.RouteStudent
	adminID     uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	f := &fixture{db: db}

	admin := models.User{Name: "Head Office", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	f.adminID = admin.ID

	f.school = models.School{Name: "Greenfield Public School"}
	require.NoError(t, db.Create(&f.school).Error)
	f.otherSchool = models.School{Name: "Lakeside Academy"}
	require.NoError(t, db.Create(&f.otherSchool).Error)

	f.bus = models.Bus{
		RegistrationNumber: "KA01AB1234",
		SchoolID:           f.school.ID,
		Capacity:           40,
		Status:             models.BusActive,
	}
	require.NoError(t, db.Create(&f.bus).Error)

	driverUser := models.User{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "+919900112233", Role: models.RoleDriver}
	require.NoError(t, db.Create(&driverUser).Error)
	f.driver = models.Driver{UserID: driverUser.ID, SchoolID: f.school.ID, LicenseNumber: "KA052019123456"}
	require.NoError(t, db.Create(&f.driver).Error)

	f.route = models.Route{Name: "Route Indiranagar 1", SchoolID: f.school.ID}
	require.NoError(t, db.Create(&f.route).Error)

	for i := 1; i <= 3; i++ {
		student := models.Student{
			SchoolID:      f.school.ID,
			RollNumber:    fmt.Sprintf("R-%02d", i),
			StudentID:     fmt.Sprintf("STU-%04d", i),
			Name:          fmt.Sprintf("Student %d", i),
			Grade:         "5",
			Section:       "A",
			GuardianName:  fmt.Sprintf("Guardian %d", i),
			GuardianPhone: fmt.Sprintf("+91111111111%d", i),
		}
		require.NoError(t, db.Create(&student).Error)
		f.students = append(f.students, student)

		stop := models.RouteStudent{
			RouteID:        f.route.ID,
			StudentID:      student.ID,
			PickupAddress:  fmt.Sprintf("%d, 100 Feet Road", i),
			DropAddress:    "Greenfield Public School",
			SequenceNumber: i,
		}
		require.NoError(t, db.Create(&stop).Error)
		f.stops = append(f.stops, stop)
	}
	return f
}

// newParent registers a parent account with the given phone.
func (f *fixture) newParent(t *testing.T, name, phone, emergency string) models.Parent {
	t.Helper()
	user := models.User{Name: name, Email: fmt.Sprintf("%s@example.com", phone), Phone: phone, Role: models.RoleParent}
	require.NoError(t, f.db.Create(&user).Error)
	parent := models.Parent{UserID: user.ID, EmergencyContact: emergency}
	require.NoError(t, f.db.Create(&parent).Error)
	parent.User = user
	return parent
}

func (f *fixture) tripService() *TripService {
	return NewTripService(f.db, 2*time.Minute)
}

// mustCreateTrip dispatches the fixture route with the fixture bus/driver.
func (f *fixture) mustCreateTrip(t *testing.T, driverID *uint, start time.Time) *models.Trip {
	t.Helper()
	trip, err := f.tripService().CreateTrip(CreateTripInput{
		SchoolID:       f.school.ID,
		RouteID:        f.route.ID,
		BusID:          f.bus.ID,
		DriverID:       driverID,
		TripType:       models.TripPickup,
		ScheduledStart: start,
		ActorID:        f.adminID,
	})
	require.NoError(t, err)
	return trip
}
