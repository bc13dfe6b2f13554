package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// SellerLocationRepo reads pickup points from the catalog read model.
type SellerLocationRepo struct {
	db *pgxpool.Pool
}

// NewSellerLocationRepo creates a new SellerLocationRepo.
func NewSellerLocationRepo(db *pgxpool.Pool) *SellerLocationRepo {
	return &SellerLocationRepo{db: db}
}

// PickupPoints returns pickup points keyed by seller id. Sellers without a
// stored coordinate are absent from the result.
func (r *SellerLocationRepo) PickupPoints(ctx context.Context, sellerIDs []string) (map[string]domain.PickupPoint, error) {
	out := make(map[string]domain.PickupPoint, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
        SELECT seller_id, name, address, lat, lng
        FROM seller_locations
        WHERE seller_id = ANY($1) AND lat IS NOT NULL AND lng IS NOT NULL
    `, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("select seller locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.PickupPoint
		if err := rows.Scan(&p.SellerID, &p.Name, &p.Address, &p.Location.Lat, &p.Location.Lng); err != nil {
			return nil, fmt.Errorf("scan seller location: %w", err)
		}
		out[p.SellerID] = p
	}
	return out, rows.Err()
}

// Upsert stores a seller pickup point.
func (r *SellerLocationRepo) Upsert(ctx context.Context, p domain.PickupPoint) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO seller_locations (seller_id, name, address, lat, lng)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (seller_id) DO UPDATE
        SET name = EXCLUDED.name, address = EXCLUDED.address, lat = EXCLUDED.lat, lng = EXCLUDED.lng
    `, p.SellerID, p.Name, p.Address, p.Location.Lat, p.Location.Lng)
	if err != nil {
		return fmt.Errorf("upsert seller location %q: %w", p.SellerID, err)
	}
	return nil
}
