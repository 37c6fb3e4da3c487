package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Status of an AttachmentSlot within the current editing session.
type Status string

const (
	StatusEmpty             Status = "empty"
	StatusExistingUnchanged Status = "existing"
	StatusMarkedForDeletion Status = "marked_for_deletion"
	StatusNewUpload         Status = "new_upload"
	StatusReplacement       Status = "replacement"
)

// File rejection reasons.
const (
	RejectInvalidExtension = "invalid_extension"
	RejectTooLarge         = "too_large"
)

// FileRejectedError is a local, per-file validation failure. It never
// propagates past the slot; the slot and ledger keep their prior state.
type FileRejectedError struct {
	Reason   string
	FileName string
	Detail   string
}

func (e *FileRejectedError) Error() string {
	return fmt.Sprintf("file %q rejected: %s", e.FileName, e.Detail)
}

var (
	ErrSlotEmpty      = errors.New("slot has no file")
	ErrNoExistingFile = errors.New("slot has no persisted file to delete")
	ErrNotReplacement = errors.New("slot has no pending replacement")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// AttachmentSlot tracks one document field of the editor through a save
// cycle: untouched-existing, newly uploaded, replacing, or marked for
// deletion. All mutations go through the slot's own operations and every
// failure leaves the slot and the ledger untouched.
type AttachmentSlot struct {
	fieldKey     string
	status       Status
	existing     *StoredFile
	pending      *PendingFile
	meta         Metadata
	metaChanged  bool
	maxFileBytes int64
	ledger       *BudgetLedger
}

// NewSlot creates an empty slot with no persisted file behind it.
func NewSlot(fieldKey string, ledger *BudgetLedger, maxFileBytes int64) *AttachmentSlot {
	return &AttachmentSlot{
		fieldKey:     fieldKey,
		status:       StatusEmpty,
		maxFileBytes: maxFileBytes,
		ledger:       ledger,
	}
}

// NewSlotFromStored creates a slot backed by a persisted file and seeds
// the ledger with its size.
func NewSlotFromStored(fieldKey string, stored StoredFile, ledger *BudgetLedger, maxFileBytes int64) *AttachmentSlot {
	ledger.Load(fieldKey, stored.SizeBytes)
	return &AttachmentSlot{
		fieldKey:     fieldKey,
		status:       StatusExistingUnchanged,
		existing:     &stored,
		meta:         stored.Metadata,
		maxFileBytes: maxFileBytes,
		ledger:       ledger,
	}
}

func (s *AttachmentSlot) FieldKey() string { return s.fieldKey }
func (s *AttachmentSlot) Status() Status   { return s.status }

// Existing returns the persisted file descriptor, or nil. It stays set
// whatever the current status is.
func (s *AttachmentSlot) Existing() *StoredFile { return s.existing }

// Pending returns the staged file, or nil.
func (s *AttachmentSlot) Pending() *PendingFile { return s.pending }

func (s *AttachmentSlot) Metadata() Metadata    { return s.meta }
func (s *AttachmentSlot) MetadataChanged() bool { return s.metaChanged }

// SelectFile stages `file` for upload. The extension allow-list and the
// per-file ceiling are checked first, then the ledger admits the bytes.
// Metadata is the override if given, else carried forward from the
// persisted file, else empty. A slot previously marked for deletion
// transitions straight to Replacement: deletion and replacement are
// mutually exclusive choices for a save cycle.
func (s *AttachmentSlot) SelectFile(file PendingFile, override *Metadata) error {
	if err := s.checkFile(file); err != nil {
		return err
	}

	if s.existing != nil {
		// covers ExistingUnchanged, MarkedForDeletion and a re-pick on
		// Replacement; the deletion case has no ledger entry and
		// TryReplace treats it as size 0
		if err := s.ledger.TryReplace(s.fieldKey, file.SizeBytes); err != nil {
			return err
		}
		s.status = StatusReplacement
	} else {
		if s.status == StatusNewUpload {
			// re-pick: swap the staged file
			if err := s.ledger.TryReplace(s.fieldKey, file.SizeBytes); err != nil {
				return err
			}
		} else {
			if err := s.ledger.TryAdd(s.fieldKey, file.SizeBytes); err != nil {
				return err
			}
		}
		s.status = StatusNewUpload
	}

	s.pending = &file
	if override != nil {
		s.meta = *override
		s.metaChanged = true
	}
	return nil
}

// MarkForDeletion flags the persisted file for removal on save, clearing
// any staged replacement and releasing its ledger entry.
func (s *AttachmentSlot) MarkForDeletion() error {
	if s.existing == nil || s.status == StatusNewUpload {
		return ErrNoExistingFile
	}
	s.status = StatusMarkedForDeletion
	s.pending = nil
	s.ledger.Remove(s.fieldKey)
	return nil
}

// CancelPendingReplacement reverts a Replacement back to
// ExistingUnchanged, restoring the ledger entry to the persisted file's
// size. If the slack has since been consumed and the original no longer
// fits, the cancel is refused and the replacement kept.
func (s *AttachmentSlot) CancelPendingReplacement() error {
	if s.status != StatusReplacement {
		return ErrNotReplacement
	}
	if err := s.ledger.TryReplace(s.fieldKey, s.existing.SizeBytes); err != nil {
		return err
	}
	s.status = StatusExistingUnchanged
	s.pending = nil
	return nil
}

// UpdateMetadata merges the set fields of `partial` without touching the
// file status. Not allowed on an empty slot.
func (s *AttachmentSlot) UpdateMetadata(partial Metadata) error {
	if s.status == StatusEmpty {
		return ErrSlotEmpty
	}
	if s.meta.Merge(partial) {
		s.metaChanged = true
	}
	return nil
}

func (s *AttachmentSlot) checkFile(file PendingFile) error {
	ext := strings.ToLower(filepath.Ext(file.Name))
	if !allowedExtensions[ext] {
		return &FileRejectedError{
			Reason:   RejectInvalidExtension,
			FileName: file.Name,
			Detail:   "only pdf, doc and docx files are allowed",
		}
	}
	if file.SizeBytes > s.maxFileBytes {
		return &FileRejectedError{
			Reason:   RejectTooLarge,
			FileName: file.Name,
			Detail:   fmt.Sprintf("file is %d bytes; the limit per file is %d bytes", file.SizeBytes, s.maxFileBytes),
		}
	}
	return nil
}
