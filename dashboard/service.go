package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mescore/predict"
	"mescore/store"
)

const snapshotKey = "mescore:dashboard:snapshot"

// Snapshot is the fully-assembled dashboard payload: the aggregated view
// plus the next-day quantity forecast when the predictor has enough
// history to produce one.
type Snapshot struct {
	*View
	Prediction     *predict.QuantityForecast `json:"prediction,omitempty"`
	PredictionNote string                    `json:"prediction_note,omitempty"`
	GeneratedAt    time.Time                 `json:"generated_at"`
}

// Service assembles dashboard snapshots from the store, caching them in
// Redis when a client is configured. The cache and the predictor are both
// optional; the dashboard renders without them.
type Service struct {
	db    *store.DB
	cache *redis.Client
	ttl   time.Duration
	qty   *predict.QuantityModel
	now   func() time.Time
}

func NewService(db *store.DB) *Service {
	return &Service{db: db, ttl: 30 * time.Second, now: time.Now}
}

func (s *Service) SetCache(client *redis.Client, ttl time.Duration) {
	s.cache = client
	if ttl > 0 {
		s.ttl = ttl
	}
}

func (s *Service) SetQuantityModel(m *predict.QuantityModel) {
	s.qty = m
}

// Snapshot returns the cached snapshot when fresh, otherwise rebuilds it
// from the store. Cache failures degrade to a rebuild, never to an error.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, snapshotKey).Bytes()
		if err == nil {
			var snap Snapshot
			if jsonErr := json.Unmarshal(data, &snap); jsonErr == nil {
				return &snap, nil
			}
		} else if err != redis.Nil {
			log.Printf("dashboard: cache read failed: %v", err)
		}
	}

	snap, err := s.build()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
				log.Printf("dashboard: cache write failed: %v", err)
			}
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot so the next request rebuilds it.
// Called after writes that change what the dashboard shows.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, snapshotKey).Err(); err != nil {
		log.Printf("dashboard: cache invalidate failed: %v", err)
	}
}

func (s *Service) build() (*Snapshot, error) {
	orders, err := s.db.ListWorkOrders()
	if err != nil {
		return nil, err
	}
	results, err := s.db.ListWorkResults()
	if err != nil {
		return nil, err
	}
	standards, err := s.db.StandardTimes()
	if err != nil {
		return nil, err
	}

	now := s.now()
	snap := &Snapshot{
		View:        Compute(orders, results, standards, now),
		GeneratedAt: now,
	}
	s.attachForecast(snap, now)
	return snap, nil
}

// attachForecast adds the next-business-day quantity forecast. A failed
// forecast is noted on the snapshot, not propagated: a thin history must
// never take the dashboard down.
func (s *Service) attachForecast(snap *Snapshot, now time.Time) {
	if s.qty == nil {
		return
	}
	target := now.AddDate(0, 0, 1)
	if target.Weekday() == time.Sunday {
		target = target.AddDate(0, 0, 1)
	}
	forecast, err := s.qty.Forecast(target)
	if err != nil {
		snap.PredictionNote = err.Error()
		return
	}
	snap.Prediction = forecast
}
