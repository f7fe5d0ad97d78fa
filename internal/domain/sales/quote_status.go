package sales

// QuoteStatus represents where a quote is in its lifecycle
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "Draft"
	QuoteStatusSent      QuoteStatus = "Sent"
	QuoteStatusOrdered   QuoteStatus = "Ordered"
	QuoteStatusLost      QuoteStatus = "Lost"
	QuoteStatusCancelled QuoteStatus = "Cancelled"
	QuoteStatusExpired   QuoteStatus = "Expired"
)

// IsValid checks if the QuoteStatus is a valid value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusOrdered,
		QuoteStatusLost, QuoteStatusCancelled, QuoteStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s QuoteStatus) IsTerminal() bool {
	switch s {
	case QuoteStatusOrdered, QuoteStatusLost, QuoteStatusCancelled, QuoteStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent || target == QuoteStatusOrdered || target == QuoteStatusCancelled
	case QuoteStatusSent:
		return target == QuoteStatusOrdered || target == QuoteStatusLost ||
			target == QuoteStatusExpired || target == QuoteStatusCancelled
	}
	return false
}
