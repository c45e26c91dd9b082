// The Warehouse component stands in for the data warehouse: an in-memory
// SQLite database with HR_PERSON_EMPLOYEE_LIMITED, HR_ORG_UNIT,
// ORCID_TO_MITID and AA_ARTICLE created from the database models.
//
//	wh := testutil.NewWarehouse()
//	carbontest.T(t).Setup(wh)
//
//	p, unit, orcid := testutil.Faculty("123456789")
//	testutil.MustCreate(t, wh.Gorm(), &p, &unit, &orcid)
//
// Reset between table cases keeps the schema and drops the rows.
package testutil
