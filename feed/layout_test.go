package feed

import (
	"testing"
	"time"

	apperrors "github.com/mitlibraries/carbon/errors"
)

func personRecord() Record {
	return Record{
		"MIT_ID":                    "123456789",
		"KRB_NAME_UPPERCASE":        "FOOBAR",
		"FIRST_NAME":                "Foo",
		"MIDDLE_NAME":               "Q",
		"LAST_NAME":                 "Bar",
		"EMAIL_ADDRESS":             "foobar@example.com",
		"DATE_TO_FACULTY":           nil,
		"ORIGINAL_HIRE_DATE":        time.Date(2001, time.September, 1, 0, 0, 0, 0, time.UTC),
		"DLC_NAME":                  "Space Program",
		"PERSONNEL_SUBAREA_CODE":    "CFAT",
		"APPOINTMENT_END_DATE":      time.Date(2999, time.December, 31, 0, 0, 0, 0, time.UTC),
		"ORCID":                     nil,
		"ORG_HIER_SCHOOL_AREA_NAME": "Engineering Area",
		"HR_ORG_LEVEL5_NAME":        "Rockets",
	}
}

func TestPersonElementFieldOrder(t *testing.T) {
	e, err := PersonElement(personRecord())
	if err != nil {
		t.Fatalf("PersonElement failed: %v", err)
	}
	want := []struct{ name, text string }{
		{"[Proprietary_ID]", "123456789"},
		{"[Username]", "FOOBAR"},
		{"[Initials]", "F Q"},
		{"[LastName]", "Bar"},
		{"[FirstName]", "Foo"},
		{"[Email]", "foobar@example.com"},
		{"[AuthenticatingAuthority]", "MIT"},
		{"[IsAcademic]", "1"},
		{"[IsCurrent]", "1"},
		{"[LoginAllowed]", "1"},
		{"[PrimaryGroupDescriptor]", "Space Program Faculty"},
		{"[ArriveDate]", "2001-09-01"},
		{"[LeaveDate]", "2999-12-31"},
		{"[Generic01]", ""},
		{"[Generic02]", "CFAT"},
		{"[Generic03]", "Engineering Area"},
		{"[Generic04]", "Space Program"},
		{"[Generic05]", "Rockets"},
	}
	if len(e.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(e.Fields))
	}
	for i, w := range want {
		f := e.Fields[i]
		if f.Tag != "field" || len(f.Attr) != 1 || f.Attr[0].Value != w.name {
			t.Errorf("field %d: expected name %q, got %+v", i, w.name, f)
			continue
		}
		if f.Text != w.text {
			t.Errorf("%s: expected %q, got %q", w.name, w.text, f.Text)
		}
	}
}

func TestPersonElementOptionalLevel5(t *testing.T) {
	r := personRecord()
	delete(r, "HR_ORG_LEVEL5_NAME")
	e, err := PersonElement(r)
	if err != nil {
		t.Fatalf("expected missing HR_ORG_LEVEL5_NAME to be allowed, got %v", err)
	}
	if v, ok := e.Value("[Generic05]"); !ok || v != "" {
		t.Errorf("expected empty [Generic05], got %q (present=%v)", v, ok)
	}
}

func TestPersonElementShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Record)
		field  string
	}{
		{"missing key", func(r Record) { delete(r, "EMAIL_ADDRESS") }, "EMAIL_ADDRESS"},
		{"null leave date", func(r Record) { r["APPOINTMENT_END_DATE"] = nil }, "APPOINTMENT_END_DATE"},
		{"no hire dates", func(r Record) { r["ORIGINAL_HIRE_DATE"] = nil }, "ORIGINAL_HIRE_DATE"},
		{"bad date", func(r Record) { r["DATE_TO_FACULTY"] = "someday" }, "DATE_TO_FACULTY"},
		{"unsupported value", func(r Record) { r["LAST_NAME"] = []string{"x"} }, "LAST_NAME"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := personRecord()
			tc.mutate(r)
			_, err := PersonElement(r)
			if !apperrors.HasCode(err, apperrors.ErrCodeRecordShape) {
				t.Fatalf("expected RECORD_SHAPE, got %v", err)
			}
			appErr, _ := apperrors.AsAppError(err)
			if appErr.Details["field"] != tc.field {
				t.Errorf("expected field %s, got %v", tc.field, appErr.Details["field"])
			}
		})
	}
}

func articleRecord() Record {
	r := Record{}
	for _, col := range ArticleColumns {
		r[col] = col + "-value"
	}
	r["AA_MATCH_SCORE"] = 3.5
	return r
}

func TestArticleElement(t *testing.T) {
	r := articleRecord()
	r["ISSN_PRINT"] = nil
	e, err := ArticleElement(r)
	if err != nil {
		t.Fatalf("ArticleElement failed: %v", err)
	}
	if len(e.Fields) != 16 {
		t.Fatalf("expected 16 fields, got %d", len(e.Fields))
	}
	for i, col := range ArticleColumns {
		if e.Fields[i].Tag != col {
			t.Errorf("field %d: expected %s, got %s", i, col, e.Fields[i].Tag)
		}
	}
	if v, _ := e.Value("AA_MATCH_SCORE"); v != "3.5" {
		t.Errorf("expected score 3.5, got %q", v)
	}
	if v, _ := e.Value("ISSN_PRINT"); v != "" {
		t.Errorf("expected null ISSN_PRINT to be empty, got %q", v)
	}
}

func TestArticleElementMissingColumn(t *testing.T) {
	r := articleRecord()
	delete(r, "PUBLISHER")
	_, err := ArticleElement(r)
	if !apperrors.HasCode(err, apperrors.ErrCodeRecordShape) {
		t.Errorf("expected RECORD_SHAPE, got %v", err)
	}
}

func TestLayoutFor(t *testing.T) {
	people, err := LayoutFor(People)
	if err != nil || people.Root.Space != PeopleNamespace || people.Root.Local != "records" {
		t.Errorf("unexpected people layout %+v (%v)", people.Root, err)
	}
	articles, err := LayoutFor(Articles)
	if err != nil || articles.Root.Space != "" || articles.Root.Local != "ARTICLES" {
		t.Errorf("unexpected articles layout %+v (%v)", articles.Root, err)
	}
	if _, err := LayoutFor("grants"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
