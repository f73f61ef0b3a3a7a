package domain

// ComplianceStatus is the auditor's verdict.
type ComplianceStatus string

const (
	StatusPass ComplianceStatus = "PASS"
	StatusFail ComplianceStatus = "FAIL"
	StatusRisk ComplianceStatus = "RISK"
)

// ComplianceReport is produced once per submission and never persisted.
type ComplianceReport struct {
	Status          ComplianceStatus `json:"status"`
	RiskScore       int              `json:"risk_score"`
	Flags           []string         `json:"flags"`
	Recommendations []string         `json:"recommendations"`
	Message         string           `json:"message"`
}

// Permits reports whether a record may be saved and a filing payload
// generated. Only scores at or above threshold block.
func (r ComplianceReport) Permits(threshold int) bool {
	return r.RiskScore < threshold
}
