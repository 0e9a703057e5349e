package constants

// ClaimStatus is the lifecycle value stored on a claim row.
type ClaimStatus string

// StatusPendingReview is assigned at insert time. Reviewers may set any
// other value via the status-update endpoint; no enum is enforced here.
const StatusPendingReview ClaimStatus = "pending_review"
