package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/akshata29/corporateactions-sub000/db"
	"github.com/akshata29/corporateactions-sub000/internal/model"
	"github.com/akshata29/corporateactions-sub000/internal/repository"

	"github.com/joho/godotenv"
)

// Seeds the event store with a reference set of corporate actions and
// queues each stored event for indexing. Safe to run repeatedly: events
// that already exist are skipped.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	repo := repository.NewEventRepository(db.DB)

	saved := 0
	duplicated := 0

	for _, event := range sampleEvents() {
		inserted, err := repo.Save(&event)
		if err != nil {
			slog.Error("error saving event", "error", err, "event_id", event.EventID)
			continue
		}

		if !inserted {
			duplicated++
			continue
		}

		if err := db.PushToQueue(db.IndexQueueKey, event.EventID); err != nil {
			slog.Error("error queueing event for indexing", "error", err, "event_id", event.EventID)
			continue
		}

		saved++
	}

	slog.Info("ingest finished", "saved", saved, "duplicated", duplicated)
}

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatalf("bad sample date %q: %v", value, err)
	}
	return t
}

func dateRef(value string) *time.Time {
	t := date(value)
	return &t
}

func sampleEvents() []model.CorporateActionEvent {
	return []model.CorporateActionEvent{
		{
			EventID:          "CA-2024-0001",
			EventType:        model.EventDividend,
			Symbol:           "AAPL",
			CUSIP:            "037833100",
			ISIN:             "US0378331005",
			IssuerName:       "Apple Inc.",
			Status:           model.StatusConfirmed,
			AnnouncementDate: date("2024-02-01"),
			RecordDate:       dateRef("2024-02-12"),
			ExDate:           dateRef("2024-02-09"),
			PayableDate:      dateRef("2024-02-15"),
			Description:      "Quarterly cash dividend of $0.24 per share",
			EventDetails:     map[string]any{"dividend_amount": 0.24, "currency": "USD", "frequency": "quarterly"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0002",
			EventType:        model.EventStockSplit,
			Symbol:           "MSFT",
			CUSIP:            "594918104",
			ISIN:             "US5949181045",
			IssuerName:       "Microsoft Corporation",
			Status:           model.StatusAnnounced,
			AnnouncementDate: date("2024-02-15"),
			RecordDate:       dateRef("2024-03-01"),
			EffectiveDate:    dateRef("2024-03-15"),
			Description:      "2-for-1 stock split of common shares",
			EventDetails:     map[string]any{"split_ratio": "2:1"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0003",
			EventType:        model.EventMerger,
			Symbol:           "ATVI",
			CUSIP:            "00507V109",
			IssuerName:       "Activision Blizzard, Inc.",
			Status:           model.StatusPending,
			AnnouncementDate: date("2024-03-01"),
			EffectiveDate:    dateRef("2024-06-30"),
			Description:      "All-cash merger at $95.00 per share, pending regulatory approval",
			EventDetails:     map[string]any{"consideration": 95.00, "currency": "USD", "acquirer": "Microsoft Corporation"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0004",
			EventType:        model.EventSpinOff,
			Symbol:           "JNJ",
			CUSIP:            "478160104",
			IssuerName:       "Johnson & Johnson",
			Status:           model.StatusProcessing,
			AnnouncementDate: date("2024-03-10"),
			RecordDate:       dateRef("2024-04-01"),
			EffectiveDate:    dateRef("2024-04-15"),
			Description:      "Spin-off of consumer health business, 1 new share per 8 held",
			EventDetails:     map[string]any{"distribution_ratio": "1:8", "spinco_symbol": "KVUE"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0005",
			EventType:        model.EventRightsOffering,
			Symbol:           "BCS",
			IssuerName:       "Barclays PLC",
			Status:           model.StatusAnnounced,
			AnnouncementDate: date("2024-03-18"),
			RecordDate:       dateRef("2024-04-02"),
			Description:      "Rights offering, 1 right per 4 shares at 155p subscription price",
			EventDetails:     map[string]any{"subscription_price": 1.55, "currency": "GBP", "ratio": "1:4"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0006",
			EventType:        model.EventStockDividend,
			Symbol:           "TSM",
			IssuerName:       "Taiwan Semiconductor Manufacturing Company",
			Status:           model.StatusConfirmed,
			AnnouncementDate: date("2024-04-02"),
			RecordDate:       dateRef("2024-04-20"),
			PayableDate:      dateRef("2024-05-05"),
			Description:      "Stock dividend of 1 share per 20 held",
			EventDetails:     map[string]any{"ratio": "1:20"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0007",
			EventType:        model.EventTenderOffer,
			Symbol:           "SAVE",
			IssuerName:       "Spirit Airlines, Inc.",
			Status:           model.StatusPending,
			AnnouncementDate: date("2024-04-11"),
			Description:      "Tender offer for all outstanding shares at $33.50 per share",
			EventDetails:     map[string]any{"offer_price": 33.50, "currency": "USD", "expiration": "2024-05-30"},
			DataSource:       "ingest",
		},
		{
			EventID:          "CA-2024-0008",
			EventType:        model.EventRedemption,
			Symbol:           "BAC",
			IssuerName:       "Bank of America Corporation",
			Status:           model.StatusCompleted,
			AnnouncementDate: date("2024-04-25"),
			EffectiveDate:    dateRef("2024-05-15"),
			Description:      "Full redemption of Series L preferred stock at par",
			EventDetails:     map[string]any{"redemption_price": 25.00, "currency": "USD", "series": "L"},
			DataSource:       "ingest",
		},
	}
}
