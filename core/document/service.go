package document

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/Emmanuel10701/maryimmaculate/core"
)

var ErrNotFound = errors.New("school documents not found")

type (
	Repository interface {
		CreateSchoolDocuments(doc SchoolDocuments) (SchoolDocuments, error)
		GetSchoolDocuments(id string) (SchoolDocuments, error)
		QueryAllSchoolDocuments() ([]SchoolDocuments, error)
		SaveSchoolDocuments(doc SchoolDocuments) (SchoolDocuments, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nd NewSchoolDocuments) (SchoolDocuments, error) {
	now := time.Now().UTC()
	doc := SchoolDocuments{
		ID:            uuid.New().String(),
		SchoolName:    core.CleanString(nd.SchoolName),
		Files:         make(map[string]StoredFile),
		Distributions: make(map[string][]FeeCategory),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateSchoolDocuments(doc)
}

func (svc *Service) Get(id string) (SchoolDocuments, error) {
	return svc.repo.GetSchoolDocuments(id)
}

func (svc *Service) QueryAll() ([]SchoolDocuments, error) {
	return svc.repo.QueryAllSchoolDocuments()
}

// Apply enforces the submission contract against the stored record:
// persist new/replacement files with their metadata, delete flagged
// files, replace distribution JSON verbatim, leave absent fields
// untouched. The parsed submission is replayed through a freshly
// hydrated edit session so the server re-runs the same extension,
// per-file and budget checks the editor ran.
func (svc *Service) Apply(id string, sub *ParsedSubmission) (SchoolDocuments, error) {
	doc, err := svc.repo.GetSchoolDocuments(id)
	if err != nil {
		return SchoolDocuments{}, err
	}

	sess := NewEditSession(doc)

	for _, fieldKey := range FieldKeys {
		slot, _ := sess.Slot(fieldKey)

		if file, ok := sub.Files[fieldKey]; ok {
			var override *Metadata
			if meta, ok := sub.Metadata[fieldKey]; ok {
				override = &meta
			}
			if err := slot.SelectFile(file, override); err != nil {
				return SchoolDocuments{}, pkgerrors.Wrapf(err, "selecting file for %s", fieldKey)
			}
			continue
		}

		if sub.Deletes[fieldKey] {
			if err := slot.MarkForDeletion(); err != nil {
				return SchoolDocuments{}, core.NewValidationError(
					err, core.FieldError{Field: fieldKey + deleteSuffix, Error: err.Error()},
				)
			}
			continue
		}

		if meta, ok := sub.Metadata[fieldKey]; ok {
			if err := slot.UpdateMetadata(meta); err != nil {
				return SchoolDocuments{}, core.NewValidationError(
					err, core.FieldError{Field: fieldKey, Error: err.Error()},
				)
			}
		}
	}

	// distributions are validated before anything is persisted so a
	// save stays all-or-nothing
	var fldErrs []core.FieldError
	for _, distField := range DistributionFields {
		cats, ok := sub.Distributions[distField]
		if !ok {
			continue
		}
		set := HydratedFeeBreakdownSet(distField, cats)
		fldErrs = append(fldErrs, set.Validate()...)
	}
	if len(fldErrs) > 0 {
		return SchoolDocuments{}, core.NewValidationError(errors.New("fee breakdown is incomplete"), fldErrs...)
	}

	now := time.Now().UTC()
	for _, slot := range sess.Slots() {
		fieldKey := slot.FieldKey()
		switch slot.Status() {
		case StatusMarkedForDeletion:
			delete(doc.Files, fieldKey)
		case StatusNewUpload, StatusReplacement:
			pending := slot.Pending()
			doc.Files[fieldKey] = StoredFile{
				Name:      pending.Name,
				SizeBytes: pending.SizeBytes,
				URL:       fmt.Sprintf("/media/schools/%s/%s/%s", doc.ID, fieldKey, pending.Name),
				Metadata:  slot.Metadata(),
				Content:   pending.Content,
			}
		case StatusExistingUnchanged:
			if slot.MetadataChanged() {
				stored := doc.Files[fieldKey]
				stored.Metadata = slot.Metadata()
				doc.Files[fieldKey] = stored
			}
		}
	}

	for _, distField := range DistributionFields {
		if cats, ok := sub.Distributions[distField]; ok {
			doc.Distributions[distField] = HydratedFeeBreakdownSet(distField, cats).Categories()
		}
	}

	doc.UpdatedAt = now
	return svc.repo.SaveSchoolDocuments(doc)
}
