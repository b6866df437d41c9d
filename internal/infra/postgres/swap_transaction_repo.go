package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
)

// SwapTransactionRepository records transfer statuses published for swaps
type SwapTransactionRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ tracker.SwapTracker = (*SwapTransactionRepository)(nil)

// NewSwapTransactionRepository creates a new PostgreSQL swap transaction repository
func NewSwapTransactionRepository(pool *pgxpool.Pool) *SwapTransactionRepository {
	return &SwapTransactionRepository{pool: pool, now: time.Now}
}

// PublishTransaction upserts the swap's current status and appends it to the
// event history. A completed swap is never moved back to another status, and
// an empty hash keeps the previously stored one.
func (r *SwapTransactionRepository) PublishTransaction(ctx context.Context, swapID string, status tracker.PublishStatus, hash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := r.now().UTC()

	upsert := `
		INSERT INTO swap_transactions (swap_id, status, tx_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (swap_id) DO UPDATE SET
			status = EXCLUDED.status,
			tx_hash = CASE WHEN EXCLUDED.tx_hash <> '' THEN EXCLUDED.tx_hash ELSE swap_transactions.tx_hash END,
			updated_at = EXCLUDED.updated_at
		WHERE swap_transactions.status <> 'completed'
	`
	if _, err := tx.Exec(ctx, upsert, swapID, string(status), hash, now); err != nil {
		return fmt.Errorf("failed to upsert swap transaction: %w", err)
	}

	event := `
		INSERT INTO swap_transaction_events (id, swap_id, status, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, event, uuid.New(), swapID, string(status), hash, now); err != nil {
		return fmt.Errorf("failed to insert swap transaction event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransaction returns the current status of a swap with its event history
func (r *SwapTransactionRepository) GetTransaction(ctx context.Context, swapID string) (*tracker.SwapTransaction, error) {
	query := `
		SELECT swap_id, status, tx_hash, updated_at
		FROM swap_transactions
		WHERE swap_id = $1
	`

	st := &tracker.SwapTransaction{}
	var status string
	err := r.pool.QueryRow(ctx, query, swapID).Scan(&st.SwapID, &status, &st.Hash, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracker.ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to get swap transaction: %w", err)
	}
	st.Status = tracker.PublishStatus(status)

	rows, err := r.pool.Query(ctx, `
		SELECT status, tx_hash, created_at
		FROM swap_transaction_events
		WHERE swap_id = $1
		ORDER BY created_at, id
	`, swapID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swap transaction events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev tracker.SwapTransactionEvent
		var evStatus string
		if err := rows.Scan(&evStatus, &ev.Hash, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan swap transaction event: %w", err)
		}
		ev.Status = tracker.PublishStatus(evStatus)
		st.Events = append(st.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate swap transaction events: %w", err)
	}

	return st, nil
}
