package domain

// Assessment is everything the pipeline produced for one submission.
type Assessment struct {
	Profile   TaxpayerProfile   `json:"profile"`
	NewRegime RegimeComputation `json:"new_regime"`
	OldRegime RegimeComputation `json:"old_regime"`
	Summary   TaxSummary        `json:"summary"`
	Report    ComplianceReport  `json:"report"`

	// Filing is nil when the audit blocks filing or when the payload could
	// not be produced; FilingError then says why.
	Filing      *FilingPayload `json:"filing,omitempty"`
	FilingError string         `json:"filing_error,omitempty"`
	Saved       bool           `json:"saved"`
	Blocked     bool           `json:"blocked"`
}
