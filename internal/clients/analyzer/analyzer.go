package analyzer

import "context"

// Status values returned by claim analyzers.
const (
	StatusAccept = "accept"
	StatusReject = "reject"
)

// Rejection reason taxonomy. Any other rejection collapses to a generic
// material mismatch at the interpretation layer.
const (
	ReasonCountDiscrepancy = "count_discrepancy"
	ReasonLowConfidence    = "low_confidence"
	ReasonMaterialMismatch = "material_mismatch"
	ReasonNoItemsDetected  = "no_items_detected"
	ReasonImageNotClear    = "image_not_clear"
)

type ClaimRequest struct {
	ImageURL      string  `json:"image_url"`
	MaterialName  string  `json:"material_name"`
	ClaimedCount  int     `json:"claimed_count"`
	MinConfidence float64 `json:"min_confidence"`
}

type ClaimResult struct {
	Status           string  `json:"status"`
	ItemName         string  `json:"item_name"`
	StatusReason     string  `json:"status_reason,omitempty"`
	FailureMessage   string  `json:"failure_message,omitempty"`
	ReverifyRequired bool    `json:"reverify_required,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
}

// Analyzer verifies a recycling photo against a claimed material and count.
// It is the submission pipeline's only external suspension point; a call is
// never retried in-process, so a transport failure is terminal for the
// attempt.
type Analyzer interface {
	AnalyzeClaim(ctx context.Context, req ClaimRequest) (*ClaimResult, error)
}
