package document

import (
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"

	"github.com/Emmanuel10701/maryimmaculate/core"
)

// FilePart is one binary part of an assembled submission.
type FilePart struct {
	FieldKey string
	Name     string
	Content  []byte
}

// SubmissionPayload is the minimal diff produced at save time. Fields
// absent from the payload are left untouched by the server.
type SubmissionPayload struct {
	SchoolID string
	Files    []FilePart
	Deletes  []string          // field keys flagged {fieldKey}_delete
	Values   map[string]string // metadata fields and distribution JSON
}

// IsEmpty reports whether the payload carries no change at all.
func (p *SubmissionPayload) IsEmpty() bool {
	return len(p.Files) == 0 && len(p.Deletes) == 0 && len(p.Values) == 0
}

// EncodeMultipart writes the payload as a multipart form and returns
// the content type for the request header.
func (p *SubmissionPayload) EncodeMultipart(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)
	if p.SchoolID != "" {
		if err := mw.WriteField(schoolIDField, p.SchoolID); err != nil {
			return "", errors.Wrap(err, "writing school id field")
		}
	}
	for _, f := range p.Files {
		fw, err := mw.CreateFormFile(f.FieldKey, f.Name)
		if err != nil {
			return "", errors.Wrapf(err, "creating file part %s", f.FieldKey)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return "", errors.Wrapf(err, "writing file part %s", f.FieldKey)
		}
	}
	for _, fieldKey := range p.Deletes {
		if err := mw.WriteField(fieldKey+deleteSuffix, "true"); err != nil {
			return "", errors.Wrapf(err, "writing delete marker %s", fieldKey)
		}
	}
	for name, value := range p.Values {
		if err := mw.WriteField(name, value); err != nil {
			return "", errors.Wrapf(err, "writing field %s", name)
		}
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart writer")
	}
	return mw.FormDataContentType(), nil
}

// Assemble walks all slots and fee sets and serializes the minimal diff:
// per slot at most one of a deletion marker, a file + metadata entry, or
// a metadata-only update; per non-empty fee set the ordered category
// JSON. Every non-empty fee set is validated first and violations are
// aggregated into a single ValidationError; nothing is emitted then
// (a save never transmits a partially valid document set).
func Assemble(schoolID string, slots []*AttachmentSlot, feeSets map[string]*FeeBreakdownSet) (*SubmissionPayload, error) {
	var fldErrs []core.FieldError
	for _, slotKey := range FieldKeys {
		set := feeSets[slotKey]
		if set == nil || set.Len() == 0 {
			continue
		}
		fldErrs = append(fldErrs, set.Validate()...)
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errors.New("fee breakdown is incomplete"), fldErrs...)
	}

	p := &SubmissionPayload{
		SchoolID: schoolID,
		Values:   make(map[string]string),
	}

	for _, slot := range slots {
		switch slot.Status() {
		case StatusMarkedForDeletion:
			p.Deletes = append(p.Deletes, slot.FieldKey())
		case StatusNewUpload, StatusReplacement:
			pending := slot.Pending()
			p.Files = append(p.Files, FilePart{
				FieldKey: slot.FieldKey(),
				Name:     pending.Name,
				Content:  pending.Content,
			})
			writeMetadata(p, slot)
		case StatusExistingUnchanged:
			if slot.MetadataChanged() {
				writeMetadata(p, slot)
			}
		}
	}

	for _, slotKey := range FieldKeys {
		set := feeSets[slotKey]
		if set == nil || set.Len() == 0 {
			continue
		}
		distField, ok := DistributionFields[slotKey]
		if !ok {
			distField = set.FieldKey()
		}
		data, err := json.Marshal(set.Categories())
		if err != nil {
			return nil, errors.Wrapf(err, "serializing %s", distField)
		}
		p.Values[distField] = string(data)
	}

	return p, nil
}

// writeMetadata emits {fieldKey}_year/_term/_description for every
// non-empty metadata value of the slot.
func writeMetadata(p *SubmissionPayload, slot *AttachmentSlot) {
	meta := slot.Metadata()
	key := slot.FieldKey()
	if meta.Year.Valid && meta.Year.String != "" {
		p.Values[key+yearSuffix] = meta.Year.String
	}
	if meta.Term.Valid && meta.Term.String != "" {
		p.Values[key+termSuffix] = meta.Term.String
	}
	if meta.Description.Valid && meta.Description.String != "" {
		p.Values[key+descriptionSuffix] = meta.Description.String
	}
}
