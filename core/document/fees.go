package document

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/Emmanuel10701/maryimmaculate/core"
)

var (
	// ErrPresetBlocked signals that a preset load was refused because the
	// set already holds real data. Advisory: the caller should prompt the
	// user to edit in place instead.
	ErrPresetBlocked = errors.New("fee categories already exist; edit them instead of loading a preset")

	ErrCategoryNotFound = errors.New("fee category not found")
)

// FeeCategory is one named line item of a fee breakdown. Amount is in
// minor currency units. Order is dense and zero-based; it defines the
// display order. The JSON keys are part of the submission wire format.
type FeeCategory struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Amount       int64  `json:"amount" validate:"gt=0"`
	Description  string `json:"description"`
	Optional     bool   `json:"optional"`
	BoardingOnly bool   `json:"boardingOnly"`
	Order        int    `json:"order"`
}

// UpdateFeeCategory carries a partial in-place edit of one category.
type UpdateFeeCategory struct {
	Name         null.String `json:"name"`
	Amount       null.Int64  `json:"amount"`
	Description  null.String `json:"description"`
	Optional     null.Bool   `json:"optional"`
	BoardingOnly null.Bool   `json:"boardingOnly"`
}

// FeeBreakdownSet is the ordered fee-category list attached to one
// fee-bearing slot. It is owned exclusively by that slot's editing
// session; fee breakdowns are metadata, they never touch the ledger.
type FeeBreakdownSet struct {
	fieldKey   string // distribution field name, e.g. feesDayDistributionJson
	categories []FeeCategory
}

// NewFeeBreakdownSet creates an empty set for the given distribution field.
func NewFeeBreakdownSet(fieldKey string) *FeeBreakdownSet {
	return &FeeBreakdownSet{fieldKey: fieldKey}
}

// HydratedFeeBreakdownSet initializes a set from persisted categories,
// renumbering them densely. A hydrated set refuses preset loads.
func HydratedFeeBreakdownSet(fieldKey string, persisted []FeeCategory) *FeeBreakdownSet {
	fs := &FeeBreakdownSet{fieldKey: fieldKey}
	fs.categories = append(fs.categories, persisted...)
	fs.renumber()
	return fs
}

func (fs *FeeBreakdownSet) FieldKey() string { return fs.fieldKey }
func (fs *FeeBreakdownSet) Len() int         { return len(fs.categories) }

// Categories returns a copy of the ordered category list.
func (fs *FeeBreakdownSet) Categories() []FeeCategory {
	out := make([]FeeCategory, len(fs.categories))
	copy(out, fs.categories)
	return out
}

// AddCategory appends a new category and returns its id. A template may
// prefill name, amount and flags; id and order are always assigned here.
func (fs *FeeBreakdownSet) AddCategory(template *FeeCategory) string {
	cat := FeeCategory{}
	if template != nil {
		cat = *template
	}
	cat.ID = uuid.New().String()
	cat.Order = len(fs.categories)
	fs.categories = append(fs.categories, cat)
	return cat.ID
}

// LoadPreset populates an empty set from a preset. It is refused with
// ErrPresetBlocked once any category exists, whether user-added or
// hydrated from persisted data; real data is never silently overwritten.
func (fs *FeeBreakdownSet) LoadPreset(preset []FeeCategory) error {
	if len(fs.categories) > 0 {
		return ErrPresetBlocked
	}
	for i := range preset {
		fs.AddCategory(&preset[i])
	}
	return nil
}

// UpdateCategory applies the set fields of `upd` to the category in place.
func (fs *FeeBreakdownSet) UpdateCategory(id string, upd UpdateFeeCategory) error {
	idx := fs.index(id)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	cat := &fs.categories[idx]
	if upd.Name.Valid {
		cat.Name = core.CleanString(upd.Name.String)
	}
	if upd.Amount.Valid {
		cat.Amount = upd.Amount.Int64
	}
	if upd.Description.Valid {
		cat.Description = core.CleanString(upd.Description.String)
	}
	if upd.Optional.Valid {
		cat.Optional = upd.Optional.Bool
	}
	if upd.BoardingOnly.Valid {
		cat.BoardingOnly = upd.BoardingOnly.Bool
	}
	return nil
}

// RemoveCategory removes the category and renumbers the rest. Removing
// the last remaining category is permitted; emptiness is a save-time
// concern checked by the assembler, not a removal-time one.
func (fs *FeeBreakdownSet) RemoveCategory(id string) error {
	idx := fs.index(id)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	fs.categories = append(fs.categories[:idx], fs.categories[idx+1:]...)
	fs.renumber()
	return nil
}

// Reorder moves the category to newIndex (clamped to the list bounds)
// and renumbers all categories densely from 0.
func (fs *FeeBreakdownSet) Reorder(id string, newIndex int) error {
	idx := fs.index(id)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(fs.categories)-1 {
		newIndex = len(fs.categories) - 1
	}

	cat := fs.categories[idx]
	rest := append(fs.categories[:idx], fs.categories[idx+1:]...)
	fs.categories = append(rest[:newIndex], append([]FeeCategory{cat}, rest[newIndex:]...)...)
	fs.renumber()
	return nil
}

// Total sums all amounts.
func (fs *FeeBreakdownSet) Total() int64 {
	var sum int64
	for _, cat := range fs.categories {
		sum += cat.Amount
	}
	return sum
}

// RequiredTotal sums the non-optional amounts.
func (fs *FeeBreakdownSet) RequiredTotal() int64 {
	var sum int64
	for _, cat := range fs.categories {
		if !cat.Optional {
			sum += cat.Amount
		}
	}
	return sum
}

// OptionalTotal sums the optional amounts.
func (fs *FeeBreakdownSet) OptionalTotal() int64 {
	var sum int64
	for _, cat := range fs.categories {
		if cat.Optional {
			sum += cat.Amount
		}
	}
	return sum
}

// Validate checks every category for save-readiness (non-empty name,
// positive amount). Violations are collected, not short-circuited, so
// the user sees them all at once.
func (fs *FeeBreakdownSet) Validate() []core.FieldError {
	var fldErrs []core.FieldError
	for i, cat := range fs.categories {
		if err := core.Validate.Struct(cat); err != nil {
			if vErrs, ok := err.(validator.ValidationErrors); ok {
				for _, vErr := range vErrs {
					fldErrs = append(fldErrs, core.FieldError{
						Field: fmt.Sprintf("%s[%d].%s", fs.fieldKey, i, vErr.Field()),
						Error: vErr.Translate(core.Translator),
					})
				}
			} else {
				fldErrs = append(fldErrs, core.FieldError{
					Field: fmt.Sprintf("%s[%d]", fs.fieldKey, i),
					Error: err.Error(),
				})
			}
		}
	}
	return fldErrs
}

func (fs *FeeBreakdownSet) index(id string) int {
	for i, cat := range fs.categories {
		if cat.ID == id {
			return i
		}
	}
	return -1
}

func (fs *FeeBreakdownSet) renumber() {
	for i := range fs.categories {
		fs.categories[i].Order = i
	}
}
