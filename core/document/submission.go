package document

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Emmanuel10701/maryimmaculate/core"
)

// ParsedSubmission is the server-side view of one multipart save
// request, decoded from the same field conventions the assembler emits.
type ParsedSubmission struct {
	SchoolID      string
	Files         map[string]PendingFile
	Deletes       map[string]bool
	Metadata      map[string]Metadata
	Distributions map[string][]FeeCategory // keyed by distribution field
}

// ParseSubmission decodes a multipart form into a ParsedSubmission.
// Unknown fields are ignored; a malformed distribution JSON fails the
// whole request with a ValidationError.
func ParseSubmission(form *multipart.Form) (*ParsedSubmission, error) {
	value := func(name string) string {
		if vals := form.Value[name]; len(vals) > 0 {
			return core.CleanString(vals[0])
		}
		return ""
	}

	sub := &ParsedSubmission{
		SchoolID:      value(schoolIDField),
		Files:         make(map[string]PendingFile),
		Deletes:       make(map[string]bool),
		Metadata:      make(map[string]Metadata),
		Distributions: make(map[string][]FeeCategory),
	}

	for _, fieldKey := range FieldKeys {
		if headers := form.File[fieldKey]; len(headers) > 0 {
			pending, err := readFilePart(headers[0])
			if err != nil {
				return nil, errors.Wrapf(err, "reading file part %s", fieldKey)
			}
			sub.Files[fieldKey] = pending
		}

		if strings.EqualFold(value(fieldKey+deleteSuffix), "true") {
			sub.Deletes[fieldKey] = true
		}

		var meta Metadata
		if year := value(fieldKey + yearSuffix); year != "" {
			meta.Year = null.StringFrom(year)
		}
		if term := value(fieldKey + termSuffix); term != "" {
			meta.Term = null.StringFrom(term)
		}
		if desc := value(fieldKey + descriptionSuffix); desc != "" {
			meta.Description = null.StringFrom(desc)
		}
		if !meta.IsEmpty() {
			sub.Metadata[fieldKey] = meta
		}
	}

	for _, distField := range DistributionFields {
		raw := value(distField)
		if raw == "" {
			continue
		}
		var cats []FeeCategory
		if err := json.Unmarshal([]byte(raw), &cats); err != nil {
			return nil, core.NewValidationError(
				errors.Wrapf(err, "decoding %s", distField),
				core.FieldError{Field: distField, Error: "invalid fee breakdown JSON"},
			)
		}
		sub.Distributions[distField] = cats
	}

	return sub, nil
}

func readFilePart(header *multipart.FileHeader) (PendingFile, error) {
	f, err := header.Open()
	if err != nil {
		return PendingFile{}, err
	}
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return PendingFile{}, err
	}
	return PendingFile{
		Name:      header.Filename,
		SizeBytes: int64(len(content)),
		Content:   content,
	}, nil
}
