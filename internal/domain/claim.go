package domain

import "time"

// ClaimStatus is the adjudication state of a claim.
type ClaimStatus string

const (
	ClaimPending     ClaimStatus = "pending"
	ClaimUnderReview ClaimStatus = "under-review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimRejected    ClaimStatus = "rejected"
)

// ValidClaimStatus reports whether s is a known claim status.
func ValidClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimPending, ClaimUnderReview, ClaimApproved, ClaimRejected:
		return true
	}
	return false
}

// LandType distinguishes individual from community claims.
type LandType string

const (
	LandIndividual LandType = "individual"
	LandCommunity  LandType = "community"
)

// ValidLandType reports whether t is a known land type.
func ValidLandType(t LandType) bool {
	return t == LandIndividual || t == LandCommunity
}

// Claim is a submitted land-rights assertion. Location, district and state
// are denormalized strings so free-text imports survive; they are not foreign
// keys into the reference data.
type Claim struct {
	ID              string
	ClaimRef        string
	ClaimantName    string
	Location        string
	District        string
	State           string
	AreaHectares    float64
	LandType        LandType
	Status          ClaimStatus
	DateSubmitted   time.Time
	DateProcessed   *time.Time
	AssignedOfficer *string
	FamilyMembers   *int
	Coordinates     map[string]any
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BulkClaimAction names a batch status transition.
type BulkClaimAction string

const (
	BulkApprove     BulkClaimAction = "approve"
	BulkReject      BulkClaimAction = "reject"
	BulkUnderReview BulkClaimAction = "under-review"
)

// ValidBulkClaimAction reports whether a is a known bulk action.
func ValidBulkClaimAction(a BulkClaimAction) bool {
	switch a {
	case BulkApprove, BulkReject, BulkUnderReview:
		return true
	}
	return false
}

// StatusFor maps a bulk action to the status it applies.
func (a BulkClaimAction) StatusFor() ClaimStatus {
	switch a {
	case BulkApprove:
		return ClaimApproved
	case BulkReject:
		return ClaimRejected
	default:
		return ClaimUnderReview
	}
}

// Terminal adjudication states stay re-enterable through bulk actions: the
// department re-opens decided claims on appeal, so true terminality is not
// enforced here.
func (a BulkClaimAction) Processes() bool {
	return a == BulkApprove || a == BulkReject
}
