package model

import "time"

type UserSubscription struct {
	UserID              string
	Symbols             []string
	EventTypes          []string
	NotifyMarketOpen    bool
	NotifyMarketClose   bool
	NotifyWeeklySummary bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
