package document

import (
	"github.com/Emmanuel10701/maryimmaculate/core"
)

var (
	gtTag      = "gt"
	amountText = "amount must be greater than zero"
)

func init() {
	// FeeCategory.Amount is the only gt-tagged field in this codebase
	core.RegisterCustomTranslation(gtTag, amountText, true)
}
