package feed

import (
	"fmt"
	"time"

	"github.com/mitlibraries/carbon/database"
	"github.com/mitlibraries/carbon/database/query"
)

// UnknownUsername is the warehouse placeholder for a missing Kerberos name.
const UnknownUsername = "UNKNOWN"

// AppointmentCutoff excludes people whose appointment ended before it.
var AppointmentCutoff = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)

// PersonAreas are the school/area names included in the people feed,
// compared case-insensitively.
var PersonAreas = []string{
	"ARCHITECTURE & PLANNING AREA",
	"ENGINEERING AREA",
	"HUMANITIES, ARTS, & SOCIAL SCIENCES AREA",
	"SCIENCE AREA",
	"SLOAN SCHOOL OF MANAGEMENT AREA",
	"VP RESEARCH",
	"CHANCELLOR'S AREA",
	"OFFICE OF PROVOST AREA",
	"PROVOST AREA",
}

// PersonSubareaCodes are the personnel sub-area codes included in the
// people feed.
var PersonSubareaCodes = []string{
	"CFAN",
	"CFAT",
	"CFEL",
	"CSRS",
	"CSRR",
	"COAC",
	"COAR",
	"L303",
}

// PersonTitles are the job titles included in the people feed, compared
// case-insensitively.
var PersonTitles = []string{
	"ADJUNCT ASSOCIATE PROFESSOR",
	"ADJUNCT PROFESSOR",
	"AFFILIATED ARTIST",
	"ASSISTANT PROFESSOR",
	"ASSOCIATE PROFESSOR",
	"ASSOCIATE PROFESSOR (NOTT)",
	"ASSOCIATE PROFESSOR (WOT)",
	"ASSOCIATE PROFESSOR OF THE PRACTICE",
	"INSTITUTE OFFICIAL - EMERITUS",
	"INSTITUTE PROFESSOR (WOT)",
	"INSTITUTE PROFESSOR EMERITUS",
	"INSTRUCTOR",
	"LECTURER",
	"LECTURER II",
	"POSTDOCTORAL ASSOCIATE",
	"POSTDOCTORAL FELLOW",
	"PRINCIPAL RESEARCH ASSOCIATE",
	"PRINCIPAL RESEARCH ENGINEER",
	"PRINCIPAL RESEARCH SCIENTIST",
	"PROFESSOR",
	"PROFESSOR (NOTT)",
	"PROFESSOR (WOT)",
	"PROFESSOR EMERITUS",
	"PROFESSOR OF THE PRACTICE",
	"RESEARCH ASSOCIATE",
	"RESEARCH ENGINEER",
	"RESEARCH FELLOW",
	"RESEARCH SCIENTIST",
	"RESEARCH SPECIALIST",
	"SENIOR LECTURER",
	"SENIOR POSTDOCTORAL ASSOCIATE",
	"SENIOR POSTDOCTORAL FELLOW",
	"SENIOR RESEARCH ASSOCIATE",
	"SENIOR RESEARCH ENGINEER",
	"SENIOR RESEARCH SCIENTIST",
	"SENIOR RESEARCH SCIENTIST (MAP)",
	"SPONSORED RESEARCH TECHNICAL STAFF",
	"SPONSORED RESEARCH TECHNICAL SUPERVISOR",
	"STAFF AFFILIATE",
	"TECHNICAL ASSISTANT",
	"TECHNICAL ASSOCIATE",
	"VISITING ASSISTANT PROFESSOR",
	"VISITING ASSOCIATE PROFESSOR",
	"VISITING ENGINEER",
	"VISITING LECTURER",
	"VISITING PROFESSOR",
	"VISITING RESEARCH ASSOCIATE",
	"VISITING SCHOLAR",
	"VISITING SCIENTIST",
	"VISITING SENIOR LECTURER",
	"PART-TIME FLEXIBLE/LL",
}

// ArticleColumns are the AA_ARTICLE columns, in feed order.
var ArticleColumns = []string{
	"AA_MATCH_SCORE",
	"ARTICLE_ID",
	"ARTICLE_TITLE",
	"ARTICLE_YEAR",
	"AUTHORS",
	"DOI",
	"ISSN_ELECTRONIC",
	"ISSN_PRINT",
	"IS_CONFERENCE_PROCEEDING",
	"JOURNAL_FIRST_PAGE",
	"JOURNAL_LAST_PAGE",
	"JOURNAL_ISSUE",
	"JOURNAL_VOLUME",
	"JOURNAL_NAME",
	"MIT_ID",
	"PUBLISHER",
}

var (
	personTable = database.Person{}.TableName()
	orgTable    = database.OrgUnit{}.TableName()
	orcidTable  = database.Orcid{}.TableName()
)

func person(col string) string { return personTable + "." + col }
func org(col string) string    { return orgTable + "." + col }

// PeopleQuery selects every person eligible for the people feed, with
// their org unit and, when linked, their ORCID.
func PeopleQuery() query.Select {
	conds := query.NotNull(
		person("EMAIL_ADDRESS"),
		person("LAST_NAME"),
		person("KRB_NAME_UPPERCASE"),
	)
	conds = append(conds, query.Neq(person("KRB_NAME_UPPERCASE"), UnknownUsername))
	conds = append(conds, query.NotNull(person("MIT_ID"), person("ORIGINAL_HIRE_DATE"))...)
	conds = append(conds,
		query.Gte(person("APPOINTMENT_END_DATE"), AppointmentCutoff),
		query.InFold(org("ORG_HIER_SCHOOL_AREA_NAME"), PersonAreas...),
		query.In(person("PERSONNEL_SUBAREA_CODE"), PersonSubareaCodes...),
		query.InFold(person("JOB_TITLE"), PersonTitles...),
	)

	return query.Select{
		From: personTable,
		Columns: []string{
			person("MIT_ID"),
			person("KRB_NAME_UPPERCASE"),
			person("FIRST_NAME"),
			person("MIDDLE_NAME"),
			person("LAST_NAME"),
			person("EMAIL_ADDRESS"),
			person("DATE_TO_FACULTY"),
			person("ORIGINAL_HIRE_DATE"),
			org("DLC_NAME"),
			person("PERSONNEL_SUBAREA_CODE"),
			person("APPOINTMENT_END_DATE"),
			orcidTable + ".ORCID",
			org("ORG_HIER_SCHOOL_AREA_NAME"),
			org("HR_ORG_LEVEL5_NAME"),
		},
		Joins: []query.Join{
			{Kind: query.LeftJoin, Table: orcidTable, Left: person("MIT_ID"), Right: orcidTable + ".MIT_ID"},
			{Kind: query.InnerJoin, Table: orgTable, Left: person("HR_ORG_UNIT_ID"), Right: org("HR_ORG_UNIT_ID")},
		},
		Conditions: conds,
	}
}

// ArticlesQuery selects every article with an ID, title, DOI and author.
func ArticlesQuery() query.Select {
	table := database.Article{}.TableName()
	return query.Select{
		From:       table,
		Columns:    ArticleColumns,
		Conditions: query.NotNull("ARTICLE_ID", "ARTICLE_TITLE", "DOI", "MIT_ID"),
	}
}

// QueryFor returns the warehouse query of kind.
func QueryFor(kind Kind) (query.Select, error) {
	switch kind {
	case People:
		return PeopleQuery(), nil
	case Articles:
		return ArticlesQuery(), nil
	}
	return query.Select{}, fmt.Errorf("no query for feed type %q", kind)
}
