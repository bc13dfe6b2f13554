package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/ports/deliverytx"
)

const deliveryColumns = `
        id, purchase_order_id, seller_id, status, courier_id, fee_cents, estimated_minutes,
        cancel_reason, created_at, updated_at, accepted_at, picked_up_at, delivered_at, cancelled_at`

// DeliveryRepo represents delivery order repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&TxRepo{tx: tx})
	})
}

// withTx commits when fn succeeds and rolls back on error or panic.
func withTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// отменяем в случае паники
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Get returns a delivery order by id.
func (r *DeliveryRepo) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error) {
	row := r.db.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM delivery_orders WHERE id = $1`, id)
	o, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %s: %w", id, err)
	}
	return o, nil
}

// ListPending returns PENDING orders in insertion order.
func (r *DeliveryRepo) ListPending(ctx context.Context) ([]domain.DeliveryOrder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+deliveryColumns+`
        FROM delivery_orders
        WHERE status = $1
        ORDER BY created_at, seq
    `, string(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DeliveryOrder, 0)
	for rows.Next() {
		o, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending delivery: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListEvents returns the transition log of an order, oldest first.
func (r *DeliveryRepo) ListEvents(ctx context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, from_status, to_status, actor_role, actor_id, reason, created_at
        FROM delivery_events
        WHERE order_id = $1
        ORDER BY id
    `, id)
	if err != nil {
		return nil, fmt.Errorf("list delivery events %s: %w", id, err)
	}
	defer rows.Close()

	var out []domain.DeliveryEvent
	for rows.Next() {
		var (
			e     domain.DeliveryEvent
			from  string
			to    string
			role  string
			actor *int64
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &from, &to, &role, &actor, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery event: %w", err)
		}
		e.From = domain.DeliveryStatus(from)
		e.To = domain.DeliveryStatus(to)
		e.Actor = domain.Actor{Role: domain.ActorRole(role)}
		if actor != nil {
			e.Actor.ID = *actor
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

var _ deliverytx.Repository = (*TxRepo)(nil)

// GetForUpdate locks the order row until the transaction ends.
func (r *TxRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM delivery_orders WHERE id = $1 FOR UPDATE`, id)
	o, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %s for update: %w", id, err)
	}
	return o, nil
}

// GetByPurchaseOrderID - get delivery by purchase order ID.
func (r *TxRepo) GetByPurchaseOrderID(ctx context.Context, purchaseOrderID string) (*domain.DeliveryOrder, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM delivery_orders WHERE purchase_order_id = $1`, purchaseOrderID)
	o, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by purchase order %q: %w", purchaseOrderID, err)
	}
	return o, nil
}

// Insert - insert a new delivery order; created_at/updated_at are filled in.
func (r *TxRepo) Insert(ctx context.Context, o *domain.DeliveryOrder) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO delivery_orders (id, purchase_order_id, seller_id, status, fee_cents, estimated_minutes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `, o.ID, o.PurchaseOrderID, o.SellerID, string(o.Status), o.FeeCents, o.EstimatedMinutes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ApplyTransition - conditional status update guarded by the expected current status.
func (r *TxRepo) ApplyTransition(ctx context.Context, t domain.Transition) (bool, error) {
	column, err := timestampColumn(t.To)
	if err != nil {
		return false, err
	}
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_orders
        SET status        = $3,
            courier_id    = COALESCE($4, courier_id),
            cancel_reason = COALESCE($5, cancel_reason),
            `+column+`    = $6,
            updated_at    = $6
        WHERE id = $1 AND status = $2
    `, t.OrderID, string(t.From), string(t.To), t.CourierID, t.Reason, t.At)
	if err != nil {
		return false, fmt.Errorf("apply transition %s -> %s for %s: %w", t.From, t.To, t.OrderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// InsertEvent - append an audit record.
func (r *TxRepo) InsertEvent(ctx context.Context, t domain.Transition) error {
	var actorID *int64
	if t.Actor.ID != 0 {
		id := t.Actor.ID
		actorID = &id
	}
	_, err := r.tx.Exec(ctx, `
        INSERT INTO delivery_events (order_id, from_status, to_status, actor_role, actor_id, reason, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, t.OrderID, string(t.From), string(t.To), string(t.Actor.Role), actorID, t.Reason, t.At)
	if err != nil {
		return fmt.Errorf("insert delivery event: %w", err)
	}
	return nil
}

// InsertEarnings - queue a payout notification in the outbox.
func (r *TxRepo) InsertEarnings(ctx context.Context, rec domain.EarningsRecord) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO earnings_outbox (order_id, courier_id, fee_cents, delivered_at)
        VALUES ($1, $2, $3, $4)
    `, rec.OrderID, rec.CourierID, rec.FeeCents, rec.DeliveredAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert earnings outbox: %w", err)
	}
	return nil
}

func timestampColumn(s domain.DeliveryStatus) (string, error) {
	switch s {
	case domain.StatusAccepted:
		return "accepted_at", nil
	case domain.StatusPickedUp:
		return "picked_up_at", nil
	case domain.StatusDelivered:
		return "delivered_at", nil
	case domain.StatusCancelled:
		return "cancelled_at", nil
	default:
		return "", fmt.Errorf("no timestamp for status %q", s)
	}
}

func scanDelivery(row pgx.Row) (*domain.DeliveryOrder, error) {
	var (
		o      domain.DeliveryOrder
		status string
	)
	err := row.Scan(
		&o.ID, &o.PurchaseOrderID, &o.SellerID, &status, &o.CourierID, &o.FeeCents, &o.EstimatedMinutes,
		&o.CancelReason, &o.CreatedAt, &o.UpdatedAt, &o.AcceptedAt, &o.PickedUpAt, &o.DeliveredAt, &o.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.DeliveryStatus(status)
	return &o, nil
}
