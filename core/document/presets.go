package document

// Built-in fee-breakdown presets, offered only while a set is still
// empty (see FeeBreakdownSet.LoadPreset). Amounts are KES cents.
var (
	DayFeePreset = []FeeCategory{
		{Name: "Tuition", Amount: 2_350_000, Description: "Per term tuition"},
		{Name: "Activity Fee", Amount: 150_000},
		{Name: "Examination Fee", Amount: 100_000},
		{Name: "Lunch Programme", Amount: 450_000, Optional: true},
		{Name: "Transport", Amount: 600_000, Optional: true},
	}

	BoardingFeePreset = []FeeCategory{
		{Name: "Tuition", Amount: 2_350_000, Description: "Per term tuition"},
		{Name: "Boarding & Meals", Amount: 1_800_000, BoardingOnly: true},
		{Name: "Laundry", Amount: 120_000, BoardingOnly: true, Optional: true},
		{Name: "Activity Fee", Amount: 150_000},
		{Name: "Examination Fee", Amount: 100_000},
	}

	AdmissionFeePreset = []FeeCategory{
		{Name: "Admission Fee", Amount: 500_000, Description: "One-off, payable on admission"},
		{Name: "Caution Money", Amount: 200_000, Description: "Refundable"},
		{Name: "Uniform", Amount: 650_000, Optional: true},
	}
)

// PresetFor returns the built-in preset for a fee-bearing slot, or nil.
func PresetFor(fieldKey string) []FeeCategory {
	switch fieldKey {
	case FieldDayFees:
		return DayFeePreset
	case FieldBoardingFees:
		return BoardingFeePreset
	case FieldAdmissionFees:
		return AdmissionFeePreset
	}
	return nil
}
