package repository

import (
	"database/sql"
	"fmt"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/google/uuid"
)

type InquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(inquiry *model.ProcessInquiry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	exists, err := eventExists(tx, inquiry.EventID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("event %s: %w", inquiry.EventID, model.ErrNotFound)
	}

	if inquiry.InquiryID == "" {
		inquiry.InquiryID = uuid.NewString()
	}
	if inquiry.Status == "" {
		inquiry.Status = model.InquiryOpen
	}
	if !model.ValidInquiryStatus(inquiry.Status) {
		return fmt.Errorf("unknown inquiry status %q", inquiry.Status)
	}

	err = tx.QueryRow(`
		INSERT INTO process_inquiry(inquiry_id, event_id, user_id, user_name, subject, content, status, assigned_to)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, inquiry.InquiryID, inquiry.EventID, inquiry.UserID, inquiry.UserName,
		inquiry.Subject, inquiry.Content, inquiry.Status, inquiry.AssignedTo).
		Scan(&inquiry.CreatedAt, &inquiry.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *InquiryRepository) ListByEvent(eventID string) ([]model.ProcessInquiry, error) {
	return r.list(`WHERE event_id = $1`, eventID)
}

func (r *InquiryRepository) ListByUser(userID string) ([]model.ProcessInquiry, error) {
	return r.list(`WHERE user_id = $1`, userID)
}

func (r *InquiryRepository) list(where string, arg any) ([]model.ProcessInquiry, error) {
	rows, err := r.db.Query(`
		SELECT inquiry_id, event_id, user_id, user_name, subject, content, status, assigned_to, resolution_notes, created_at, updated_at
		FROM process_inquiry
		`+where+`
		ORDER BY created_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []model.ProcessInquiry
	for rows.Next() {
		var q model.ProcessInquiry
		err := rows.Scan(&q.InquiryID, &q.EventID, &q.UserID, &q.UserName, &q.Subject,
			&q.Content, &q.Status, &q.AssignedTo, &q.ResolutionNotes, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, q)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inquiries, nil
}

func (r *InquiryRepository) UpdateStatus(inquiryID string, status string, notes string) error {
	if !model.ValidInquiryStatus(status) {
		return fmt.Errorf("unknown inquiry status %q", status)
	}

	res, err := r.db.Exec(`
		UPDATE process_inquiry
		SET status = $1,
			resolution_notes = CASE WHEN $2 <> '' THEN $2 ELSE resolution_notes END,
			updated_at = NOW()
		WHERE inquiry_id = $3
	`, status, notes, inquiryID)
	if err != nil {
		return err
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if updated == 0 {
		return fmt.Errorf("inquiry %s: %w", inquiryID, model.ErrNotFound)
	}

	return nil
}
