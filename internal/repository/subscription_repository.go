package repository

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/akshata29/corporateactions-sub000/db"
	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type SubscriptionRepository struct {
	db    *sql.DB
	cache *redis.Client
}

func NewSubscriptionRepository(database *sql.DB, cache *redis.Client) *SubscriptionRepository {
	return &SubscriptionRepository{db: database, cache: cache}
}

func (r *SubscriptionRepository) Upsert(sub *model.UserSubscription) error {
	err := r.db.QueryRow(`
		INSERT INTO user_subscription(user_id, symbols, event_types, notify_market_open, notify_market_close, notify_weekly_summary)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			symbols = EXCLUDED.symbols,
			event_types = EXCLUDED.event_types,
			notify_market_open = EXCLUDED.notify_market_open,
			notify_market_close = EXCLUDED.notify_market_close,
			notify_weekly_summary = EXCLUDED.notify_weekly_summary,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, sub.UserID, pq.Array(sub.Symbols), pq.Array(sub.EventTypes),
		sub.NotifyMarketOpen, sub.NotifyMarketClose, sub.NotifyWeeklySummary).
		Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return err
	}

	r.invalidate(sub.UserID)
	return nil
}

func (r *SubscriptionRepository) Get(userID string) (*model.UserSubscription, error) {
	if cached, ok := r.cached(userID); ok {
		return cached, nil
	}

	var sub model.UserSubscription
	err := r.db.QueryRow(`
		SELECT user_id, symbols, event_types, notify_market_open, notify_market_close, notify_weekly_summary, created_at, updated_at
		FROM user_subscription
		WHERE user_id = $1
	`, userID).Scan(&sub.UserID, pq.Array(&sub.Symbols), pq.Array(&sub.EventTypes),
		&sub.NotifyMarketOpen, &sub.NotifyMarketClose, &sub.NotifyWeeklySummary,
		&sub.CreatedAt, &sub.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	r.store(&sub)
	return &sub, nil
}

func (r *SubscriptionRepository) Delete(userID string) error {
	_, err := r.db.Exec(`
		DELETE FROM user_subscription WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}

	r.invalidate(userID)
	return nil
}

func (r *SubscriptionRepository) cached(userID string) (*model.UserSubscription, bool) {
	if r.cache == nil {
		return nil, false
	}

	raw, err := r.cache.Get(db.Ctx, db.SubscriptionCacheKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var sub model.UserSubscription
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return nil, false
	}

	return &sub, true
}

func (r *SubscriptionRepository) store(sub *model.UserSubscription) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		return
	}

	if err := r.cache.Set(db.Ctx, db.SubscriptionCacheKey(sub.UserID), raw, db.CacheTTL).Err(); err != nil {
		slog.Warn("subscription cache write failed", "user_id", sub.UserID, "error", err)
	}
}

func (r *SubscriptionRepository) invalidate(userID string) {
	if r.cache == nil {
		return
	}

	if err := r.cache.Del(db.Ctx, db.SubscriptionCacheKey(userID)).Err(); err != nil {
		slog.Warn("subscription cache invalidation failed", "user_id", userID, "error", err)
	}
}
