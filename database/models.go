package database

import "time"

// Warehouse tables read by the feeds. The schema is owned by the data
// warehouse; these models exist so fixtures and local warehouses can be
// created with the same column names and types.

// Person is a row of HR_PERSON_EMPLOYEE_LIMITED.
type Person struct {
	MITID                string     `gorm:"column:MIT_ID;type:varchar(10)"`
	KrbNameUppercase     *string    `gorm:"column:KRB_NAME_UPPERCASE;type:varchar(64)"`
	FirstName            *string    `gorm:"column:FIRST_NAME;type:varchar(255)"`
	LastName             *string    `gorm:"column:LAST_NAME;type:varchar(255)"`
	MiddleName           *string    `gorm:"column:MIDDLE_NAME;type:varchar(255)"`
	EmailAddress         *string    `gorm:"column:EMAIL_ADDRESS;type:varchar(255)"`
	DateToFaculty        *time.Time `gorm:"column:DATE_TO_FACULTY;type:date"`
	OriginalHireDate     *time.Time `gorm:"column:ORIGINAL_HIRE_DATE;type:date"`
	AppointmentEndDate   *time.Time `gorm:"column:APPOINTMENT_END_DATE;type:date"`
	PersonnelSubareaCode *string    `gorm:"column:PERSONNEL_SUBAREA_CODE;type:varchar(8)"`
	JobTitle             *string    `gorm:"column:JOB_TITLE;type:varchar(255)"`
	HROrgUnitID          *string    `gorm:"column:HR_ORG_UNIT_ID;type:varchar(16)"`
}

func (Person) TableName() string { return "HR_PERSON_EMPLOYEE_LIMITED" }

// OrgUnit is a row of HR_ORG_UNIT.
type OrgUnit struct {
	HROrgUnitID           string  `gorm:"column:HR_ORG_UNIT_ID;type:varchar(16)"`
	OrgHierSchoolAreaName *string `gorm:"column:ORG_HIER_SCHOOL_AREA_NAME;type:varchar(255)"`
	DLCName               *string `gorm:"column:DLC_NAME;type:varchar(255)"`
	HROrgLevel5Name       *string `gorm:"column:HR_ORG_LEVEL5_NAME;type:varchar(255)"`
}

func (OrgUnit) TableName() string { return "HR_ORG_UNIT" }

// Orcid is a row of ORCID_TO_MITID.
type Orcid struct {
	MITID string  `gorm:"column:MIT_ID;type:varchar(10)"`
	Orcid *string `gorm:"column:ORCID;type:varchar(64)"`
}

func (Orcid) TableName() string { return "ORCID_TO_MITID" }

// Article is a row of AA_ARTICLE.
type Article struct {
	AAMatchScore           *float64 `gorm:"column:AA_MATCH_SCORE;type:numeric(3,1)"`
	ArticleID              *string  `gorm:"column:ARTICLE_ID;type:varchar(32)"`
	ArticleTitle           *string  `gorm:"column:ARTICLE_TITLE;type:varchar(1024)"`
	ArticleYear            *string  `gorm:"column:ARTICLE_YEAR;type:varchar(8)"`
	Authors                *string  `gorm:"column:AUTHORS;type:text"`
	DOI                    *string  `gorm:"column:DOI;type:varchar(255)"`
	ISSNElectronic         *string  `gorm:"column:ISSN_ELECTRONIC;type:varchar(16)"`
	ISSNPrint              *string  `gorm:"column:ISSN_PRINT;type:varchar(16)"`
	IsConferenceProceeding *string  `gorm:"column:IS_CONFERENCE_PROCEEDING;type:varchar(8)"`
	JournalFirstPage       *string  `gorm:"column:JOURNAL_FIRST_PAGE;type:varchar(16)"`
	JournalLastPage        *string  `gorm:"column:JOURNAL_LAST_PAGE;type:varchar(16)"`
	JournalIssue           *string  `gorm:"column:JOURNAL_ISSUE;type:varchar(64)"`
	JournalName            *string  `gorm:"column:JOURNAL_NAME;type:varchar(1024)"`
	JournalVolume          *string  `gorm:"column:JOURNAL_VOLUME;type:varchar(64)"`
	MITID                  *string  `gorm:"column:MIT_ID;type:varchar(10)"`
	Publisher              *string  `gorm:"column:PUBLISHER;type:varchar(1024)"`
}

func (Article) TableName() string { return "AA_ARTICLE" }

// WarehouseModels lists every model, in creation order.
func WarehouseModels() []interface{} {
	return []interface{}{&Person{}, &OrgUnit{}, &Orcid{}, &Article{}}
}
