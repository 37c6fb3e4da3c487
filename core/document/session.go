package document

import (
	"github.com/Emmanuel10701/maryimmaculate/core"
)

// EditSession owns the editing state for one school's documents: a
// shared budget ledger, one attachment slot per document field and one
// fee-breakdown set per fee-bearing slot, all hydrated from the
// persisted record. Discarding the session discards all staged state;
// nothing is persisted until an assembled submission is applied.
//
// A session is meant to be driven from a single goroutine; the ledger
// carries its own lock (see BudgetLedger).
type EditSession struct {
	schoolID string
	ledger   *BudgetLedger
	slots    map[string]*AttachmentSlot
	feeSets  map[string]*FeeBreakdownSet
}

// NewEditSession hydrates a session from a persisted record. Capacity
// and the per-file ceiling come from the app config.
func NewEditSession(doc SchoolDocuments) *EditSession {
	capacity := core.Conf.GetInt64("docBudgetBytes")
	maxFileBytes := core.Conf.GetInt64("docMaxFileBytes")

	sess := &EditSession{
		schoolID: doc.ID,
		ledger:   NewBudgetLedger(capacity),
		slots:    make(map[string]*AttachmentSlot, len(FieldKeys)),
		feeSets:  make(map[string]*FeeBreakdownSet, len(DistributionFields)),
	}

	for _, fieldKey := range FieldKeys {
		if stored, ok := doc.Files[fieldKey]; ok {
			sess.slots[fieldKey] = NewSlotFromStored(fieldKey, stored, sess.ledger, maxFileBytes)
		} else {
			sess.slots[fieldKey] = NewSlot(fieldKey, sess.ledger, maxFileBytes)
		}
	}

	for slotKey, distField := range DistributionFields {
		if cats := doc.Distributions[distField]; len(cats) > 0 {
			sess.feeSets[slotKey] = HydratedFeeBreakdownSet(distField, cats)
		} else {
			sess.feeSets[slotKey] = NewFeeBreakdownSet(distField)
		}
	}

	return sess
}

func (sess *EditSession) SchoolID() string      { return sess.schoolID }
func (sess *EditSession) Ledger() *BudgetLedger { return sess.ledger }

// Slot returns the attachment slot for a document field.
func (sess *EditSession) Slot(fieldKey string) (*AttachmentSlot, bool) {
	slot, ok := sess.slots[fieldKey]
	return slot, ok
}

// FeeSet returns the fee-breakdown set attached to a fee-bearing slot.
func (sess *EditSession) FeeSet(slotKey string) (*FeeBreakdownSet, bool) {
	set, ok := sess.feeSets[slotKey]
	return set, ok
}

// Slots returns all slots in display order.
func (sess *EditSession) Slots() []*AttachmentSlot {
	slots := make([]*AttachmentSlot, 0, len(FieldKeys))
	for _, fieldKey := range FieldKeys {
		slots = append(slots, sess.slots[fieldKey])
	}
	return slots
}

// Assemble produces the minimal submission diff for the whole session.
func (sess *EditSession) Assemble() (*SubmissionPayload, error) {
	return Assemble(sess.schoolID, sess.Slots(), sess.feeSets)
}
