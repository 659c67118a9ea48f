package search

// SampleDataSource marks documents that came from the built-in fallback
// set rather than the live index.
const SampleDataSource = "sample_data"

// SampleDocuments returns the fixed fallback set used when the index is
// unavailable. Content and order are deterministic; tests depend on both.
func SampleDocuments() []Document {
	return []Document{
		{
			EventID:          "CA-SAMPLE-001",
			EventType:        "DIVIDEND",
			Symbol:           "AAPL",
			CompanyName:      "Apple Inc.",
			Status:           "CONFIRMED",
			Description:      "Apple Inc. declared a quarterly cash dividend of $0.24 per share, payable to shareholders of record.",
			AnnouncementDate: "2024-02-01",
			EventDetails: map[string]any{
				"dividend_amount": 0.24,
				"currency":        "USD",
				"frequency":       "quarterly",
			},
			DataSource: SampleDataSource,
		},
		{
			EventID:          "CA-SAMPLE-002",
			EventType:        "STOCK_SPLIT",
			Symbol:           "MSFT",
			CompanyName:      "Microsoft Corporation",
			Status:           "ANNOUNCED",
			Description:      "Microsoft Corporation announced a 2-for-1 stock split of its common shares.",
			AnnouncementDate: "2024-02-15",
			EventDetails: map[string]any{
				"split_ratio":    "2:1",
				"shares_awarded": 1,
			},
			DataSource: SampleDataSource,
		},
		{
			EventID:          "CA-SAMPLE-003",
			EventType:        "MERGER",
			Symbol:           "ATVI",
			CompanyName:      "Activision Blizzard Inc.",
			Status:           "PENDING",
			Description:      "Activision Blizzard Inc. entered into a definitive merger agreement under which shareholders receive $95.00 per share in cash.",
			AnnouncementDate: "2024-03-01",
			EventDetails: map[string]any{
				"consideration":    "cash",
				"price_per_share":  95.0,
				"acquiring_entity": "Microsoft Corporation",
			},
			DataSource: SampleDataSource,
		},
	}
}
