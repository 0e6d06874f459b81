package enums

// AppraisalType distinguishes the two valuation passes a consignment gets.
type AppraisalType string

const (
	AppraisalTypePreliminary AppraisalType = "PRELIMINARY"
	AppraisalTypeFinal       AppraisalType = "FINAL"
)

func (t AppraisalType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known AppraisalType.
func (t AppraisalType) IsValid() bool {
	return t == AppraisalTypePreliminary || t == AppraisalTypeFinal
}
