package backend

import "strings"

// Section is one check's slice of the posture report. Description and Error
// are prose from the backend and may cite RFCs or drafts; the web layer runs
// them through the citation linker before display.
type Section struct {
	Valid       bool     `json:"valid"`
	Record      string   `json:"record,omitempty"`
	Description string   `json:"description,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Report is the backend's posture assessment for one domain.
type Report struct {
	Domain string `json:"domain"`

	SOA    Section `json:"soa"`
	NS     Section `json:"ns"`
	MX     Section `json:"mx"`
	SPF    Section `json:"spf"`
	DKIM   Section `json:"dkim"`
	DMARC  Section `json:"dmarc"`
	DNSSEC Section `json:"dnssec"`
	MTASTS Section `json:"mta_sts"`
	TLSRPT Section `json:"smtp_tls_reporting"`
	BIMI   Section `json:"bimi"`

	// SMTPTLS is only present when the deployment enables live SMTP TLS checks.
	SMTPTLS *Section `json:"smtp_tls,omitempty"`
}

// DomainNotFound reports whether the backend said the domain does not exist.
// The backend signals this through the SOA section's error text rather than
// an HTTP status.
func (r *Report) DomainNotFound() bool {
	return strings.Contains(strings.ToLower(r.SOA.Error), "does not exist")
}
