package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mitlibraries/carbon/database"
)

// LoadFixture inserts rows into table. Each map is one row keyed by column.
func LoadFixture(db *gorm.DB, table string, rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := db.Table(table).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert fixture row into %s: %w", table, err)
		}
	}
	return nil
}

// MustLoadFixture loads rows and fails the test on error.
func MustLoadFixture(t testing.TB, db *gorm.DB, table string, rows []map[string]interface{}) {
	t.Helper()
	if err := LoadFixture(db, table, rows); err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
}

// MustCreate inserts model values (database.Person, database.Article, ...)
// and fails the test on error.
func MustCreate(t testing.TB, db *gorm.DB, values ...interface{}) {
	t.Helper()
	for _, v := range values {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("failed to create %T: %v", v, err)
		}
	}
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Table(table).Count(&count).Error
	return count, err
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t testing.TB, db *gorm.DB, table string, expected int64) {
	t.Helper()
	count, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("table %s row count = %d, want %d", table, count, expected)
	}
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Date returns a pointer to midnight UTC on the given day.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// Faculty returns a person who passes every people-feed filter, along with
// their org unit and ORCID rows. Tests override fields to violate one filter
// at a time.
func Faculty(mitID string) (database.Person, database.OrgUnit, database.Orcid) {
	unit := "ORG-" + mitID
	p := database.Person{
		MITID:                mitID,
		KrbNameUppercase:     Str("USER" + mitID),
		FirstName:            Str("Ada"),
		MiddleName:           Str("M"),
		LastName:             Str("Lovelace"),
		EmailAddress:         Str("user" + mitID + "@example.edu"),
		OriginalHireDate:     Date(2001, time.September, 1),
		AppointmentEndDate:   Date(2999, time.December, 31),
		PersonnelSubareaCode: Str("CFAT"),
		JobTitle:             Str("PROFESSOR"),
		HROrgUnitID:          Str(unit),
	}
	o := database.OrgUnit{
		HROrgUnitID:           unit,
		OrgHierSchoolAreaName: Str("Engineering Area"),
		DLCName:               Str("Mechanical Engineering"),
		HROrgLevel5Name:       Str("Fluids Group"),
	}
	orcid := database.Orcid{MITID: mitID, Orcid: Str("http://orcid.org/0000-0000-0000-" + mitID[len(mitID)-4:])}
	return p, o, orcid
}
