package services

import (
	"context"
	"errors"
	"log"
	"time"

	"cake_store/internal/models"
	"cake_store/internal/redis"
	"cake_store/pkg/bakery"
)

// PayloadCache stores fetched bakery API payloads for a short TTL so that
// every keystroke on the order form does not hit the remote API.
type PayloadCache interface {
	GetCached(key string, dest interface{}) error
	SetCached(key string, value interface{}, ttl time.Duration) error
}

// CatalogService provides the read-only data fetched from the bakery API.
// Malformed payloads degrade to empty collections with a logged diagnostic;
// transport failures are returned to the caller.
type CatalogService interface {
	GetCatalog(ctx context.Context) (models.Catalog, error)
	GetCakeByName(ctx context.Context, name string) (models.Cake, bool, error)
	GetTimeslots(ctx context.Context) ([]models.TimeSlot, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
}

type catalogService struct {
	client *bakery.Client
	cache  PayloadCache
	ttl    time.Duration
}

func NewCatalogService(client *bakery.Client, cache PayloadCache, cacheTTL time.Duration) CatalogService {
	return &catalogService{client: client, cache: cache, ttl: cacheTTL}
}

func (s *catalogService) GetCatalog(ctx context.Context) (models.Catalog, error) {
	var cakes models.Catalog
	if s.cacheGet("catalog", &cakes) {
		return cakes, nil
	}

	cakes, err := s.client.GetCakes(ctx)
	if err != nil {
		if errors.Is(err, bakery.ErrUnexpectedFormat) {
			log.Printf("catalog: %v, using empty catalog", err)
			return models.Catalog{}, nil
		}
		return nil, err
	}

	s.cacheSet("catalog", cakes)
	return cakes, nil
}

func (s *catalogService) GetCakeByName(ctx context.Context, name string) (models.Cake, bool, error) {
	catalog, err := s.GetCatalog(ctx)
	if err != nil {
		return models.Cake{}, false, err
	}
	cake, ok := catalog.ByName(name)
	return cake, ok, nil
}

func (s *catalogService) GetTimeslots(ctx context.Context) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	if s.cacheGet("timeslots", &slots) {
		return slots, nil
	}

	slots, err := s.client.GetTimeslots(ctx)
	if err != nil {
		if errors.Is(err, bakery.ErrUnexpectedFormat) {
			log.Printf("timeslots: %v, using empty slot list", err)
			return []models.TimeSlot{}, nil
		}
		return nil, err
	}

	s.cacheSet("timeslots", slots)
	return slots, nil
}

func (s *catalogService) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if s.cacheGet("orders", &orders) {
		return orders, nil
	}

	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		if errors.Is(err, bakery.ErrUnexpectedFormat) {
			log.Printf("orders: %v, using empty order list", err)
			return []models.Order{}, nil
		}
		return nil, err
	}

	s.cacheSet("orders", orders)
	return orders, nil
}

// cacheGet reports whether dest was filled from the cache. Cache errors other
// than a miss are logged and treated as a miss.
func (s *catalogService) cacheGet(key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.GetCached(key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, redis.ErrNotFound) {
		log.Printf("cache read %s: %v", key, err)
	}
	return false
}

func (s *catalogService) cacheSet(key string, value interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.SetCached(key, value, s.ttl); err != nil {
		log.Printf("cache write %s: %v", key, err)
	}
}
