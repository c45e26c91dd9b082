package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	apperrors "github.com/mitlibraries/carbon/errors"
)

// PeopleNamespace is the default namespace of the people feed root.
const PeopleNamespace = "http://www.symplectic.co.uk/hrimporter"

// Layout maps records of one kind to elements under a fixed root.
type Layout struct {
	Root  xml.Name
	Build func(Record) (Element, error)
}

// LayoutFor returns the layout of kind.
func LayoutFor(kind Kind) (Layout, error) {
	switch kind {
	case People:
		return Layout{Root: xml.Name{Space: PeopleNamespace, Local: "records"}, Build: PersonElement}, nil
	case Articles:
		return Layout{Root: xml.Name{Local: "ARTICLES"}, Build: ArticleElement}, nil
	}
	return Layout{}, fmt.Errorf("no layout for feed type %q", kind)
}

// builder reads fields off a record and remembers the first shape error.
type builder struct {
	rec  Record
	elem string
	err  error
}

func (b *builder) fail(field string, cause error) {
	if b.err == nil {
		e := apperrors.RecordShape(b.elem, field)
		if cause != nil {
			e = e.WithCause(cause)
		}
		b.err = e
	}
}

// text returns a required key as text. The key must be present; null is
// rendered as "".
func (b *builder) text(key string) string {
	v, ok := b.rec[key]
	if !ok {
		b.fail(key, nil)
		return ""
	}
	s, err := formatScalar(v)
	if err != nil {
		b.fail(key, err)
	}
	return s
}

// optionalText is text for a key that may be absent.
func (b *builder) optionalText(key string) string {
	if !b.rec.Has(key) {
		return ""
	}
	return b.text(key)
}

func (b *builder) date(key string) *time.Time {
	v, ok := b.rec[key]
	if !ok {
		b.fail(key, nil)
		return nil
	}
	d, err := parseDate(v)
	if err != nil {
		b.fail(key, err)
	}
	return d
}

func (b *builder) score(key string) string {
	v, ok := b.rec[key]
	if !ok {
		b.fail(key, nil)
		return ""
	}
	s, err := matchScore(v)
	if err != nil {
		b.fail(key, err)
	}
	return s
}

func nameField(name, text string) Field {
	return Field{Tag: "field", Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: name}}, Text: text}
}

// PersonElement builds a people feed record. APPOINTMENT_END_DATE and at
// least one of the hire dates must be set; HR_ORG_LEVEL5_NAME may be absent.
func PersonElement(r Record) (Element, error) {
	b := &builder{rec: r, elem: "record"}

	subarea := b.text("PERSONNEL_SUBAREA_CODE")
	dlc := b.text("DLC_NAME")
	hired := b.date("ORIGINAL_HIRE_DATE")
	toFaculty := b.date("DATE_TO_FACULTY")
	leave := b.date("APPOINTMENT_END_DATE")
	if b.err == nil && leave == nil {
		b.fail("APPOINTMENT_END_DATE", fmt.Errorf("null"))
	}
	if b.err == nil && hired == nil && toFaculty == nil {
		b.fail("ORIGINAL_HIRE_DATE", fmt.Errorf("null, and DATE_TO_FACULTY is null"))
	}
	first := b.text("FIRST_NAME")

	fields := []Field{
		nameField("[Proprietary_ID]", b.text("MIT_ID")),
		nameField("[Username]", b.text("KRB_NAME_UPPERCASE")),
		nameField("[Initials]", Initials(first, b.text("MIDDLE_NAME"))),
		nameField("[LastName]", b.text("LAST_NAME")),
		nameField("[FirstName]", first),
		nameField("[Email]", b.text("EMAIL_ADDRESS")),
		nameField("[AuthenticatingAuthority]", "MIT"),
		nameField("[IsAcademic]", "1"),
		nameField("[IsCurrent]", "1"),
		nameField("[LoginAllowed]", "1"),
		nameField("[PrimaryGroupDescriptor]", GroupName(dlc, subarea)),
		nameField("[ArriveDate]", HireDateString(hired, toFaculty)),
		nameField("[LeaveDate]", formatDate(leave)),
		nameField("[Generic01]", b.text("ORCID")),
		nameField("[Generic02]", subarea),
		nameField("[Generic03]", b.text("ORG_HIER_SCHOOL_AREA_NAME")),
		nameField("[Generic04]", dlc),
		nameField("[Generic05]", b.optionalText("HR_ORG_LEVEL5_NAME")),
	}
	if b.err != nil {
		return Element{}, b.err
	}
	return Element{Tag: "record", Fields: fields}, nil
}

// ArticleElement builds an articles feed record with one subelement per
// AA_ARTICLE column.
func ArticleElement(r Record) (Element, error) {
	b := &builder{rec: r, elem: "ARTICLE"}
	fields := make([]Field, 0, len(ArticleColumns))
	for _, col := range ArticleColumns {
		var text string
		if col == "AA_MATCH_SCORE" {
			text = b.score(col)
		} else {
			text = b.text(col)
		}
		fields = append(fields, Field{Tag: col, Text: text})
	}
	if b.err != nil {
		return Element{}, b.err
	}
	return Element{Tag: "ARTICLE", Fields: fields}, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
