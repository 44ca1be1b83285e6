package invoice

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusPaid        Status = "PAID"
	StatusFailed      Status = "FAILED"
	StatusRetryFailed Status = "RETRY_FAILED"
)

// Terminal reports whether the pipeline makes no further automatic
// charge attempts for an invoice in this status.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusRetryFailed
}

type Invoice struct {
	ID         int64
	CustomerID int64
	Amount     Money
	Status     Status
}
