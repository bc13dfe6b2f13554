package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/config"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Metrics are optional matcher observers.
type Metrics struct {
	Duration   observer
	Candidates observer
}

// Service ranks pending orders for a courier by distance.
type Service struct {
	profiles    profileGetter
	resolver    locationResolver
	orders      pendingOrders
	pickups     PickupLocator
	distances   distanceCalculator
	cfg         config.Matching
	mode        domain.TravelMode
	metrics     Metrics
	logger      logx.Logger
	loadTimeout time.Duration
}

// Deps groups the collaborators of the matcher.
type Deps struct {
	Profiles  profileGetter
	Resolver  locationResolver
	Orders    pendingOrders
	Pickups   PickupLocator
	Distances distanceCalculator
}

// NewService creates a matcher.
func NewService(d Deps, cfg config.Matching, mode domain.TravelMode, loadTimeout time.Duration, m Metrics, logger logx.Logger) *Service {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = config.DefaultMatching().DefaultRadiusKm
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = config.DefaultMatching().Concurrency
	}
	if !mode.Valid() {
		mode = domain.TravelModeDriving
	}
	if loadTimeout <= 0 {
		loadTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		profiles:    d.Profiles,
		resolver:    d.Resolver,
		orders:      d.Orders,
		pickups:     d.Pickups,
		distances:   d.Distances,
		cfg:         cfg,
		mode:        mode,
		metrics:     m,
		logger:      logger,
		loadTimeout: loadTimeout,
	}
}

// Match returns the pending orders within the courier's radius, nearest first.
// An empty mode uses the configured default.
func (s *Service) Match(ctx context.Context, courierID int64, mode domain.TravelMode) (domain.MatchResult, error) {
	started := time.Now()
	if mode == "" {
		mode = s.mode
	}
	if !mode.Valid() {
		return domain.MatchResult{}, fmt.Errorf("%w: travel mode %q", apperr.ErrInvalid, mode)
	}

	p, origin, pending, points, err := s.load(ctx, courierID)
	if err != nil {
		return domain.MatchResult{}, err
	}

	radius := s.cfg.DefaultRadiusKm
	if p.MaxDistanceKm > 0 {
		radius = p.MaxDistanceKm
	}

	candidates, err := s.measure(ctx, origin, pending, points, mode)
	if err != nil {
		return domain.MatchResult{}, err
	}

	inRange := candidates[:0]
	for _, c := range candidates {
		if c.Distance.Km <= radius {
			inRange = append(inRange, c)
		}
	}
	s.rank(inRange)

	if s.metrics.Duration != nil {
		s.metrics.Duration.Observe(time.Since(started).Seconds())
	}
	if s.metrics.Candidates != nil {
		s.metrics.Candidates.Observe(float64(len(inRange)))
	}
	s.logger.Debug("match computed",
		logx.Int64("courier_id", courierID),
		logx.Int("pending", len(pending)),
		logx.Int("candidates", len(inRange)),
		logx.Float64("radius_km", radius),
	)

	return domain.MatchResult{
		CourierID:  courierID,
		Origin:     origin,
		RadiusKm:   radius,
		Candidates: inRange,
	}, nil
}

func (s *Service) load(ctx context.Context, courierID int64) (
	*domain.Profile, domain.Coordinate, []domain.DeliveryOrder, map[string]domain.PickupPoint, error,
) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	p, err := s.profiles.Get(ctx, courierID)
	if err != nil {
		return nil, domain.Coordinate{}, nil, nil, err
	}
	if p == nil {
		return nil, domain.Coordinate{}, nil, nil, apperr.ErrProfileNotFound
	}
	if !p.Active {
		return nil, domain.Coordinate{}, nil, nil, apperr.ErrProfileInactive
	}

	origin, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, domain.Coordinate{}, nil, nil, err
	}

	pending, err := s.orders.ListPending(ctx)
	if err != nil {
		return nil, domain.Coordinate{}, nil, nil, err
	}
	if len(pending) == 0 {
		return p, origin, pending, nil, nil
	}

	points, err := s.pickups.PickupPoints(ctx, sellerIDs(pending))
	if err != nil {
		return nil, domain.Coordinate{}, nil, nil, err
	}
	return p, origin, pending, points, nil
}

// measure computes distances with bounded parallelism. The result keeps the
// order of pending, minus orders without a usable pickup point.
func (s *Service) measure(
	ctx context.Context,
	origin domain.Coordinate,
	pending []domain.DeliveryOrder,
	points map[string]domain.PickupPoint,
	mode domain.TravelMode,
) ([]domain.MatchCandidate, error) {
	slots := make([]*domain.MatchCandidate, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range pending {
		o := pending[i]
		pickup, ok := points[o.SellerID]
		if !ok || !pickup.Location.Valid() {
			s.logger.Debug("skipping order without pickup point",
				logx.String("order_id", o.ID.String()),
				logx.String("seller_id", o.SellerID),
			)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := s.distances.Distance(gctx, origin, pickup.Location, mode)
			slots[i] = &domain.MatchCandidate{Order: o, Pickup: pickup, Distance: d}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.MatchCandidate, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// rank sorts by distance. Equal distances keep insertion order unless the
// fee tie-break is on.
func (s *Service) rank(c []domain.MatchCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Distance.Km != c[j].Distance.Km {
			return c[i].Distance.Km < c[j].Distance.Km
		}
		if s.cfg.FeeTieBreak {
			return c[i].Order.FeeCents > c[j].Order.FeeCents
		}
		return false
	})
}

func sellerIDs(orders []domain.DeliveryOrder) []string {
	seen := make(map[string]struct{}, len(orders))
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.SellerID]; ok {
			continue
		}
		seen[o.SellerID] = struct{}{}
		out = append(out, o.SellerID)
	}
	return out
}
