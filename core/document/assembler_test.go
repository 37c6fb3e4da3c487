package document

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/Emmanuel10701/maryimmaculate/core"
)

func testDoc() SchoolDocuments {
	return SchoolDocuments{
		ID:         "school-1",
		SchoolName: "Mary Immaculate Girls",
		Files: map[string]StoredFile{
			FieldCurriculum: {
				Name:      "curr.pdf",
				SizeBytes: 200_000,
				Metadata: Metadata{
					Year: null.StringFrom("2024"),
					Term: null.StringFrom("Term 2"),
				},
			},
			FieldForm3Results: {
				Name:      "form3.pdf",
				SizeBytes: 150_000,
			},
		},
		Distributions: map[string][]FeeCategory{
			"feesDayDistributionJson": {
				{ID: "a", Name: "Tuition", Amount: 2_350_000, Order: 0},
			},
		},
	}
}

func TestAssemble_minimalDiff(t *testing.T) {
	sess := NewEditSession(testDoc())

	// metadata-only edit on the curriculum slot
	slot, _ := sess.Slot(FieldCurriculum)
	if err := slot.UpdateMetadata(Metadata{Description: null.StringFrom("Updated")}); err != nil {
		t.Fatalf("UpdateMetadata() error = %v", err)
	}

	payload, err := sess.Assemble()
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if payload.SchoolID != "school-1" {
		t.Errorf("SchoolID = %s", payload.SchoolID)
	}
	if len(payload.Files) != 0 {
		t.Errorf("Files = %+v, want none", payload.Files)
	}
	if len(payload.Deletes) != 0 {
		t.Errorf("Deletes = %+v, want none", payload.Deletes)
	}
	if got := payload.Values[FieldCurriculum+"_description"]; got != "Updated" {
		t.Errorf("%s_description = %q, want Updated", FieldCurriculum, got)
	}
	// changed metadata emits all non-empty values for the slot
	if got := payload.Values[FieldCurriculum+"_year"]; got != "2024" {
		t.Errorf("%s_year = %q, want 2024", FieldCurriculum, got)
	}
	// an untouched existing slot emits nothing
	for name := range payload.Values {
		if strings.HasPrefix(name, FieldForm3Results) {
			t.Errorf("unexpected field %s for untouched slot", name)
		}
	}
	// the hydrated fee set is re-serialized
	var cats []FeeCategory
	if err := json.Unmarshal([]byte(payload.Values["feesDayDistributionJson"]), &cats); err != nil {
		t.Fatalf("distribution JSON: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Tuition" {
		t.Errorf("distribution = %+v", cats)
	}
}

func TestAssemble_deletionEmitsSingleIntent(t *testing.T) {
	sess := NewEditSession(testDoc())

	slot, _ := sess.Slot(FieldForm3Results)
	if err := slot.MarkForDeletion(); err != nil {
		t.Fatalf("MarkForDeletion() error = %v", err)
	}

	payload, err := sess.Assemble()
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(payload.Deletes) != 1 || payload.Deletes[0] != FieldForm3Results {
		t.Errorf("Deletes = %+v", payload.Deletes)
	}
	for _, f := range payload.Files {
		if f.FieldKey == FieldForm3Results {
			t.Error("deleted slot also emitted a file part")
		}
	}
	for name := range payload.Values {
		if strings.HasPrefix(name, FieldForm3Results) {
			t.Errorf("deleted slot emitted value field %s", name)
		}
	}
}

func TestAssemble_deletionThenReplacement(t *testing.T) {
	sess := NewEditSession(testDoc())

	slot, _ := sess.Slot(FieldForm3Results)
	if err := slot.MarkForDeletion(); err != nil {
		t.Fatalf("MarkForDeletion() error = %v", err)
	}
	if err := slot.SelectFile(pdf("form3-new.pdf", 100_000), nil); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}

	payload, err := sess.Assemble()
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(payload.Deletes) != 0 {
		t.Errorf("Deletes = %+v, want none", payload.Deletes)
	}
	var found bool
	for _, f := range payload.Files {
		if f.FieldKey == FieldForm3Results {
			found = true
		}
	}
	if !found {
		t.Error("replacement file part missing")
	}
}

func TestAssemble_validationBlocksSubmission(t *testing.T) {
	doc := testDoc()
	doc.Distributions["feesDayDistributionJson"] = []FeeCategory{
		{ID: "a", Name: "", Amount: 500},
	}
	sess := NewEditSession(doc)

	payload, err := sess.Assemble()
	if payload != nil {
		t.Errorf("Assemble() payload = %+v, want nil", payload)
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Assemble() error = %T (%v), want *core.ValidationError", err, err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "feesDayDistributionJson[0].name" {
		t.Errorf("Fields = %+v", vErr.Fields)
	}
}

func TestSubmissionPayload_EncodeMultipart(t *testing.T) {
	sess := NewEditSession(testDoc())

	curr, _ := sess.Slot(FieldCurriculum)
	if err := curr.SelectFile(pdf("curr-v2.pdf", 120_000), nil); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	form3, _ := sess.Slot(FieldForm3Results)
	if err := form3.MarkForDeletion(); err != nil {
		t.Fatalf("MarkForDeletion() error = %v", err)
	}

	payload, err := sess.Assemble()
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var body bytes.Buffer
	contentType, err := payload.EncodeMultipart(&body)
	if err != nil {
		t.Fatalf("EncodeMultipart() error = %v", err)
	}

	boundary := strings.TrimPrefix(contentType, "multipart/form-data; boundary=")
	form, err := multipart.NewReader(&body, boundary).ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("ReadForm() error = %v", err)
	}

	if got := form.Value[schoolIDField]; len(got) != 1 || got[0] != "school-1" {
		t.Errorf("schoolId = %v", got)
	}
	if got := form.Value[FieldForm3Results+"_delete"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("%s_delete = %v", FieldForm3Results, got)
	}
	if got := form.File[FieldCurriculum]; len(got) != 1 || got[0].Filename != "curr-v2.pdf" {
		t.Errorf("file part = %v", got)
	}
	// replacement carries the prior metadata forward onto the wire
	if got := form.Value[FieldCurriculum+"_year"]; len(got) != 1 || got[0] != "2024" {
		t.Errorf("%s_year = %v", FieldCurriculum, got)
	}
}

func TestEditSession_hydration(t *testing.T) {
	sess := NewEditSession(testDoc())

	if got := sess.Ledger().Total(); got != 350_000 {
		t.Errorf("ledger total = %d, want 350000 (sum of stored files)", got)
	}

	slot, ok := sess.Slot(FieldCurriculum)
	if !ok || slot.Status() != StatusExistingUnchanged {
		t.Errorf("curriculum slot = %+v", slot)
	}
	empty, ok := sess.Slot(FieldForm1Results)
	if !ok || empty.Status() != StatusEmpty {
		t.Errorf("form1 slot status = %v, want empty", empty.Status())
	}

	day, ok := sess.FeeSet(FieldDayFees)
	if !ok || day.Len() != 1 {
		t.Errorf("day fee set = %+v", day)
	}
	if err := day.LoadPreset(DayFeePreset); err != ErrPresetBlocked {
		t.Errorf("LoadPreset() on hydrated set error = %v, want %v", err, ErrPresetBlocked)
	}

	boarding, ok := sess.FeeSet(FieldBoardingFees)
	if !ok || boarding.Len() != 0 {
		t.Errorf("boarding fee set = %+v", boarding)
	}
	if err := boarding.LoadPreset(BoardingFeePreset); err != nil {
		t.Errorf("LoadPreset() on empty set error = %v", err)
	}
}
