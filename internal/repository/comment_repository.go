package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/akshata29/corporateactions-sub000/db"
	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CommentRepository struct {
	db    *sql.DB
	cache *redis.Client
}

// NewCommentRepository takes an optional redis client for the per-event
// comment cache. A nil cache disables caching.
func NewCommentRepository(database *sql.DB, cache *redis.Client) *CommentRepository {
	return &CommentRepository{db: database, cache: cache}
}

func (r *CommentRepository) Add(comment *model.UserComment) error {
	if !model.ValidCommentCategory(comment.Category) {
		return fmt.Errorf("unknown comment category %q", comment.Category)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	exists, err := eventExists(tx, comment.EventID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("event %s: %w", comment.EventID, model.ErrNotFound)
	}

	if comment.CommentID == "" {
		comment.CommentID = uuid.NewString()
	}

	err = tx.QueryRow(`
		INSERT INTO user_comment(comment_id, event_id, user_id, user_name, category, content, parent_comment_id)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, comment.CommentID, comment.EventID, comment.UserID, comment.UserName,
		comment.Category, comment.Content, comment.ParentCommentID).Scan(&comment.CreatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.invalidate(comment.EventID)
	return nil
}

func (r *CommentRepository) ListByEvent(eventID string) ([]model.UserComment, error) {
	if cached, ok := r.cached(eventID); ok {
		return cached, nil
	}

	rows, err := r.db.Query(`
		SELECT comment_id, event_id, user_id, user_name, category, content, resolved, resolution_notes, parent_comment_id, created_at
		FROM user_comment
		WHERE event_id = $1
		ORDER BY created_at ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.UserComment
	for rows.Next() {
		var c model.UserComment
		err := rows.Scan(&c.CommentID, &c.EventID, &c.UserID, &c.UserName, &c.Category,
			&c.Content, &c.Resolved, &c.ResolutionNotes, &c.ParentCommentID, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.store(eventID, comments)
	return comments, nil
}

// RecentTexts renders the newest n comments of an event as display lines
// for the RAG context.
func (r *CommentRepository) RecentTexts(eventID string, n int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT user_name, category, content
		FROM user_comment
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, eventID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var userName, category, content string
		if err := rows.Scan(&userName, &category, &content); err != nil {
			return nil, err
		}
		texts = append(texts, fmt.Sprintf("[%s] %s: %s", category, userName, content))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return texts, nil
}

func (r *CommentRepository) Resolve(commentID string, notes string) error {
	var eventID string
	err := r.db.QueryRow(`
		UPDATE user_comment SET resolved = TRUE, resolution_notes = $1 WHERE comment_id = $2
		RETURNING event_id
	`, notes, commentID).Scan(&eventID)

	if err == sql.ErrNoRows {
		return fmt.Errorf("comment %s: %w", commentID, model.ErrNotFound)
	}

	if err != nil {
		return err
	}

	r.invalidate(eventID)
	return nil
}

func (r *CommentRepository) cached(eventID string) ([]model.UserComment, bool) {
	if r.cache == nil {
		return nil, false
	}

	raw, err := r.cache.Get(db.Ctx, db.CommentCacheKey(eventID)).Result()
	if err != nil {
		return nil, false
	}

	var comments []model.UserComment
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		return nil, false
	}

	return comments, true
}

func (r *CommentRepository) store(eventID string, comments []model.UserComment) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(comments)
	if err != nil {
		return
	}

	if err := r.cache.Set(db.Ctx, db.CommentCacheKey(eventID), raw, db.CacheTTL).Err(); err != nil {
		slog.Warn("comment cache write failed", "event_id", eventID, "error", err)
	}
}

func (r *CommentRepository) invalidate(eventID string) {
	if r.cache == nil {
		return
	}

	if err := r.cache.Del(db.Ctx, db.CommentCacheKey(eventID)).Err(); err != nil {
		slog.Warn("comment cache invalidation failed", "event_id", eventID, "error", err)
	}
}
