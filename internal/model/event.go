package model

import "time"

const (
	EventDividend       = "DIVIDEND"
	EventStockSplit     = "STOCK_SPLIT"
	EventMerger         = "MERGER"
	EventSpinOff        = "SPIN_OFF"
	EventRightsOffering = "RIGHTS_OFFERING"
	EventStockDividend  = "STOCK_DIVIDEND"
	EventTenderOffer    = "TENDER_OFFER"
	EventRedemption     = "REDEMPTION"
)

const (
	StatusAnnounced  = "ANNOUNCED"
	StatusConfirmed  = "CONFIRMED"
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Index lifecycle for the vector-index pipeline. Separate from the
// business status above: an event can be COMPLETED and still unindexed.
const (
	IndexPending = "pending"
	IndexDone    = "indexed"
	IndexFailed  = "failed"
)

func ValidEventType(t string) bool {
	switch t {
	case EventDividend, EventStockSplit, EventMerger, EventSpinOff,
		EventRightsOffering, EventStockDividend, EventTenderOffer, EventRedemption:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusAnnounced, StatusConfirmed, StatusPending,
		StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type CorporateActionEvent struct {
	EventID          string
	EventType        string
	Symbol           string
	CUSIP            string
	ISIN             string
	SEDOL            string
	IssuerName       string
	Status           string
	AnnouncementDate time.Time
	RecordDate       *time.Time
	ExDate           *time.Time
	PayableDate      *time.Time
	EffectiveDate    *time.Time
	Description      string
	EventDetails     map[string]any
	DataSource       string
	IndexStatus      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EventFilter carries the optional search parameters of the
// search_corporate_actions tool. Zero values mean "not set".
type EventFilter struct {
	SearchText    string
	EventType     string
	Symbols       []string
	Status        string
	AnnouncedFrom *time.Time
	AnnouncedTo   *time.Time
	Limit         int
}
