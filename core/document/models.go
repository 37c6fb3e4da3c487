package document

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Field keys of the School Documents editor. Each key identifies one
// attachment slot and doubles as the multipart field name carrying the
// file content on submission.
const (
	FieldCurriculum    = "curriculumPDF"
	FieldDayFees       = "feesDayPdf"
	FieldBoardingFees  = "feesBoardingPdf"
	FieldAdmissionFees = "admissionFeePdf"
	FieldForm1Results  = "form1ResultsPdf"
	FieldForm2Results  = "form2ResultsPdf"
	FieldForm3Results  = "form3ResultsPdf"
	FieldForm4Results  = "form4ResultsPdf"
	FieldForm5Results  = "form5ResultsPdf"
	FieldForm6Results  = "form6ResultsPdf"
)

// FieldKeys lists every attachment slot in display order.
var FieldKeys = []string{
	FieldCurriculum,
	FieldDayFees,
	FieldBoardingFees,
	FieldAdmissionFees,
	FieldForm1Results,
	FieldForm2Results,
	FieldForm3Results,
	FieldForm4Results,
	FieldForm5Results,
	FieldForm6Results,
}

// DistributionFields maps each fee-bearing slot to the multipart field
// carrying its serialized fee breakdown.
var DistributionFields = map[string]string{
	FieldDayFees:       "feesDayDistributionJson",
	FieldBoardingFees:  "feesBoardingDistributionJson",
	FieldAdmissionFees: "admissionFeeDistribution",
}

// per-slot companion field suffixes
const (
	deleteSuffix      = "_delete"
	yearSuffix        = "_year"
	termSuffix        = "_term"
	descriptionSuffix = "_description"
)

// schoolIDField correlates a submission with an existing record.
const schoolIDField = "schoolId"

// Metadata travels with an attachment independently of its file content.
type Metadata struct {
	Year        null.String `json:"year,omitempty"`
	Term        null.String `json:"term,omitempty"`
	Description null.String `json:"description,omitempty"`
}

func (m Metadata) IsEmpty() bool {
	return !m.Year.Valid && !m.Term.Valid && !m.Description.Valid
}

// Merge applies the set fields of `partial` and reports whether anything changed.
func (m *Metadata) Merge(partial Metadata) bool {
	var changed bool
	if partial.Year.Valid && partial.Year != m.Year {
		m.Year = partial.Year
		changed = true
	}
	if partial.Term.Valid && partial.Term != m.Term {
		m.Term = partial.Term
		changed = true
	}
	if partial.Description.Valid && partial.Description != m.Description {
		m.Description = partial.Description
		changed = true
	}
	return changed
}

// StoredFile describes a previously persisted attachment.
type StoredFile struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	URL       string `json:"url"`
	Metadata
	Content []byte `json:"-"` // held by the repository, never rendered
}

// PendingFile is a file staged in the editor but not yet submitted.
// Content is only read after the file read completed; the ledger is
// never touched for a half-read file.
type PendingFile struct {
	Name      string
	SizeBytes int64
	Content   []byte
}

// SchoolDocuments is the persisted record the editor operates on.
type SchoolDocuments struct {
	ID            string                   `json:"id"`
	SchoolName    string                   `json:"school_name"`
	Files         map[string]StoredFile    `json:"files"`
	Distributions map[string][]FeeCategory `json:"distributions"`
	CreatedAt     time.Time                `json:"created_at"` // UTC
	UpdatedAt     time.Time                `json:"updated_at"` // UTC
}

// NewSchoolDocuments contains information needed to create a new record.
type NewSchoolDocuments struct {
	SchoolName string `json:"school_name" validate:"required"`
}
