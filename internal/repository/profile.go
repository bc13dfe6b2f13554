package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

const profileColumns = `
        courier_id, active, online, max_distance_km, days, slots, gps_tracking_enabled,
        current_lat, current_lng, home_lat, home_lng, last_online_at, last_offline_at,
        created_at, updated_at`

// ProfileRepo represents courier availability profile repository.
type ProfileRepo struct {
	db     *pgxpool.Pool
	logger logx.Logger
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *pgxpool.Pool, logger logx.Logger) *ProfileRepo {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ProfileRepo{db: db, logger: logger}
}

// Get returns the profile or nil when the courier has none.
func (r *ProfileRepo) Get(ctx context.Context, courierID int64) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM courier_profiles WHERE courier_id = $1`, courierID)
	p, err := r.scanProfile(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile %d: %w", courierID, err)
	}
	return p, nil
}

// Create inserts a new profile.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	homeLat, homeLng := coordArgs(p.Home)
	err := r.db.QueryRow(ctx, `
        INSERT INTO courier_profiles (
            courier_id, active, online, max_distance_km, days, slots, gps_tracking_enabled, home_lat, home_lng
        ) VALUES ($1, $2, false, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at
    `, p.CourierID, p.Active, p.MaxDistanceKm, int16(p.Days), domain.SlotStrings(p.Slots),
		p.GPSTrackingEnabled, homeLat, homeLng,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("create profile %d: %w", p.CourierID, err)
	}
	p.Online = false
	return nil
}

// UpdatePartial applies a partial update and returns true if a row was affected.
func (r *ProfileRepo) UpdatePartial(ctx context.Context, u domain.PartialProfileUpdate) (bool, error) {
	var (
		days  *int16
		slots []string
	)
	if u.Days != nil {
		d := int16(*u.Days)
		days = &d
	}
	if u.Slots != nil {
		slots = domain.SlotStrings(*u.Slots)
	}
	homeLat, homeLng := coordArgs(u.Home)

	ct, err := r.db.Exec(ctx, `
        UPDATE courier_profiles
        SET
            active               = COALESCE($2, active),
            max_distance_km      = COALESCE($3, max_distance_km),
            days                 = COALESCE($4, days),
            slots                = CASE WHEN $5::boolean THEN $6::text[] ELSE slots END,
            gps_tracking_enabled = COALESCE($7, gps_tracking_enabled),
            home_lat             = COALESCE($8, home_lat),
            home_lng             = COALESCE($9, home_lng),
            updated_at           = now()
        WHERE courier_id = $1
    `, u.CourierID, u.Active, u.MaxDistanceKm, days, u.Slots != nil, slots,
		u.GPSTrackingEnabled, homeLat, homeLng)
	if err != nil {
		return false, fmt.Errorf("update profile %d: %w", u.CourierID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetOnline flips the online flag and stamps the matching timestamp.
func (r *ProfileRepo) SetOnline(ctx context.Context, courierID int64, online bool, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE courier_profiles
        SET online          = $2,
            last_online_at  = CASE WHEN $2 THEN $3 ELSE last_online_at END,
            last_offline_at = CASE WHEN $2 THEN last_offline_at ELSE $3 END,
            updated_at      = now()
        WHERE courier_id = $1
    `, courierID, online, at)
	if err != nil {
		return false, fmt.Errorf("set online %d: %w", courierID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdatePosition stores the last known live coordinate.
func (r *ProfileRepo) UpdatePosition(ctx context.Context, courierID int64, c domain.Coordinate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE courier_profiles
        SET current_lat = $2, current_lng = $3, updated_at = now()
        WHERE courier_id = $1
    `, courierID, c.Lat, c.Lng)
	if err != nil {
		return false, fmt.Errorf("update position %d: %w", courierID, err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ProfileRepo) scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p                domain.Profile
		days             int16
		rawSlots         []string
		curLat, curLng   *float64
		homeLat, homeLng *float64
	)
	err := row.Scan(
		&p.CourierID, &p.Active, &p.Online, &p.MaxDistanceKm, &days, &rawSlots, &p.GPSTrackingEnabled,
		&curLat, &curLng, &homeLat, &homeLng, &p.LastOnlineAt, &p.LastOfflineAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Days = domain.WeekdaySet(days)
	p.Current = coordFrom(curLat, curLng)
	p.Home = coordFrom(homeLat, homeLng)

	p.Slots = make([]domain.TimeSlot, 0, len(rawSlots))
	for _, raw := range rawSlots {
		s, err := domain.ParseTimeSlot(raw)
		if err != nil {
			// строки, записанные до валидации, не матчим
			r.logger.Warn("skipping malformed stored slot",
				logx.Int64("courier_id", p.CourierID),
				logx.String("slot", raw),
			)
			p.UnparsedSlots = append(p.UnparsedSlots, raw)
			continue
		}
		p.Slots = append(p.Slots, s)
	}
	return &p, nil
}

func coordArgs(c *domain.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Lat, c.Lng
	return &lat, &lng
}

func coordFrom(lat, lng *float64) *domain.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Coordinate{Lat: *lat, Lng: *lng}
}
