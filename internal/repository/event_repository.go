package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/lib/pq"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `event_id, event_type, symbol, cusip, isin, sedol, issuer_name, status,
		announcement_date, record_date, ex_date, payable_date, effective_date,
		description, event_details, data_source, index_status, created_at, updated_at`

func (r *EventRepository) Save(event *model.CorporateActionEvent) (bool, error) {
	details, err := json.Marshal(event.EventDetails)
	if err != nil {
		return false, fmt.Errorf("marshal event details: %w", err)
	}

	if event.Status == "" {
		event.Status = model.StatusAnnounced
	}

	res, err := r.db.Exec(`
		INSERT INTO corporate_action_event(event_id, event_type, symbol, cusip, isin, sedol, issuer_name, status,
			announcement_date, record_date, ex_date, payable_date, effective_date,
			description, event_details, data_source, index_status)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (event_id) DO NOTHING
	`, event.EventID, event.EventType, event.Symbol, event.CUSIP, event.ISIN, event.SEDOL,
		event.IssuerName, event.Status, event.AnnouncementDate, event.RecordDate, event.ExDate,
		event.PayableDate, event.EffectiveDate, event.Description, details, event.DataSource,
		model.IndexPending)

	if err != nil {
		return false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return inserted > 0, nil
}

func (r *EventRepository) GetByID(eventID string) (*model.CorporateActionEvent, error) {
	row := r.db.QueryRow(`
		SELECT `+eventColumns+`
		FROM corporate_action_event
		WHERE event_id = $1
	`, eventID)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return event, nil
}

func (r *EventRepository) Search(filter model.EventFilter) ([]model.CorporateActionEvent, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SearchText != "" {
		p := arg("%" + filter.SearchText + "%")
		conditions = append(conditions, fmt.Sprintf("(issuer_name ILIKE %s OR description ILIKE %s OR symbol ILIKE %s)", p, p, p))
	}
	if filter.EventType != "" {
		conditions = append(conditions, "event_type = "+arg(filter.EventType))
	}
	if len(filter.Symbols) > 0 {
		conditions = append(conditions, "symbol = ANY("+arg(pq.Array(filter.Symbols))+")")
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.AnnouncedFrom != nil {
		conditions = append(conditions, "announcement_date >= "+arg(*filter.AnnouncedFrom))
	}
	if filter.AnnouncedTo != nil {
		conditions = append(conditions, "announcement_date <= "+arg(*filter.AnnouncedTo))
	}

	query := `SELECT ` + eventColumns + ` FROM corporate_action_event`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += " ORDER BY announcement_date DESC LIMIT " + arg(limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.CorporateActionEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// UpdateStatus accepts any valid status value. Transitions are not
// constrained beyond enum membership.
func (r *EventRepository) UpdateStatus(eventID string, status string) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("unknown event status %q", status)
	}

	res, err := r.db.Exec(`
		UPDATE corporate_action_event SET status = $1, updated_at = NOW() WHERE event_id = $2
	`, status, eventID)
	if err != nil {
		return err
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if updated == 0 {
		return fmt.Errorf("event %s: %w", eventID, model.ErrNotFound)
	}

	return nil
}

func (r *EventRepository) UpdateIndexStatus(eventID string, indexStatus string) error {
	_, err := r.db.Exec(`
		UPDATE corporate_action_event SET index_status = $1, updated_at = NOW() WHERE event_id = $2
	`, indexStatus, eventID)
	return err
}

func (r *EventRepository) SaveIndexError(eventID string, errMsg string) error {
	_, err := r.db.Exec(`
		INSERT INTO index_error(event_id, error_message)
		VALUES($1, $2)
	`, eventID, errMsg)
	return err
}

func (r *EventRepository) GetIndexErrorCount(eventID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM index_error
		WHERE event_id = $1
	`, eventID).Scan(&count)
	return count, err
}

// ListPendingIndex returns the IDs of events still waiting to be indexed,
// oldest first, so the indexer can re-queue work lost between runs.
func (r *EventRepository) ListPendingIndex(limit int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT event_id FROM corporate_action_event
		WHERE index_status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, model.IndexPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *EventRepository) CountEvents() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM corporate_action_event
	`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.CorporateActionEvent, error) {
	var (
		e       model.CorporateActionEvent
		details []byte
	)

	err := row.Scan(&e.EventID, &e.EventType, &e.Symbol, &e.CUSIP, &e.ISIN, &e.SEDOL,
		&e.IssuerName, &e.Status, &e.AnnouncementDate, &e.RecordDate, &e.ExDate,
		&e.PayableDate, &e.EffectiveDate, &e.Description, &details, &e.DataSource,
		&e.IndexStatus, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.EventDetails); err != nil {
			return nil, fmt.Errorf("unmarshal event details for %s: %w", e.EventID, err)
		}
	}

	return &e, nil
}

// eventExists is shared by the comment and inquiry repositories so that
// attachments always reference a stored event.
func eventExists(tx *sql.Tx, eventID string) (bool, error) {
	var one int
	err := tx.QueryRow(`
		SELECT 1 FROM corporate_action_event WHERE event_id = $1
	`, eventID).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
