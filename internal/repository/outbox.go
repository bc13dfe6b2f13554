package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// maxRelayAttempts stops a poisoned record from being retried forever.
const maxRelayAttempts = 10

// EarningsOutboxRepo drains the earnings outbox.
type EarningsOutboxRepo struct {
	db *pgxpool.Pool
}

// NewEarningsOutboxRepo creates a new EarningsOutboxRepo.
func NewEarningsOutboxRepo(db *pgxpool.Pool) *EarningsOutboxRepo {
	return &EarningsOutboxRepo{db: db}
}

// Relay locks up to limit unsent records, hands each to publish and marks the
// successful ones as sent. Failed records get their attempt counter bumped and
// stay in the outbox. Returns the number of records sent.
func (r *EarningsOutboxRepo) Relay(
	ctx context.Context,
	limit int,
	publish func(ctx context.Context, rec domain.EarningsRecord) error,
) (int, error) {
	sent := 0
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		batch, err := lockUnsent(ctx, tx, limit)
		if err != nil {
			return err
		}

		for _, rec := range batch {
			if pubErr := publish(ctx, rec); pubErr != nil {
				if _, err := tx.Exec(ctx, `
                    UPDATE earnings_outbox
                    SET attempts = attempts + 1, last_error = $2
                    WHERE id = $1
                `, rec.ID, pubErr.Error()); err != nil {
					return fmt.Errorf("mark earnings %d failed: %w", rec.ID, err)
				}
				continue
			}
			if _, err := tx.Exec(ctx, `
                UPDATE earnings_outbox
                SET sent_at = now(), attempts = attempts + 1, last_error = NULL
                WHERE id = $1
            `, rec.ID); err != nil {
				return fmt.Errorf("mark earnings %d sent: %w", rec.ID, err)
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

// Pending returns the number of records waiting to be relayed.
func (r *EarningsOutboxRepo) Pending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
        SELECT count(*) FROM earnings_outbox WHERE sent_at IS NULL AND attempts < $1
    `, maxRelayAttempts).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending earnings: %w", err)
	}
	return n, nil
}

func lockUnsent(ctx context.Context, tx pgx.Tx, limit int) ([]domain.EarningsRecord, error) {
	rows, err := tx.Query(ctx, `
        SELECT id, order_id, courier_id, fee_cents, delivered_at
        FROM earnings_outbox
        WHERE sent_at IS NULL AND attempts < $1
        ORDER BY id
        LIMIT $2
        FOR UPDATE SKIP LOCKED
    `, maxRelayAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("select unsent earnings: %w", err)
	}
	defer rows.Close()

	var out []domain.EarningsRecord
	for rows.Next() {
		var rec domain.EarningsRecord
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.CourierID, &rec.FeeCents, &rec.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan earnings: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
