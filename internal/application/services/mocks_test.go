package services_test

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/farepilot/farepilot/internal/core/domain/offer"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type docStoreMock struct {
	mu         sync.Mutex
	findFn     func(ctx context.Context, collection, key string) (*ports.Document, error)
	upsertFn   func(ctx context.Context, collection string, doc *ports.Document) error
	deleteFn   func(ctx context.Context, collection, key string) error
	bulkFn     func(ctx context.Context, collection string, docs []*ports.Document) (int, error)
	deleted    []string
	upserted   []*ports.Document
	bulkCalled int
}

func (m *docStoreMock) FindByKey(ctx context.Context, collection, key string) (*ports.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, collection, key)
	}
	return nil, nil
}

func (m *docStoreMock) Upsert(ctx context.Context, collection string, doc *ports.Document) error {
	m.mu.Lock()
	m.upserted = append(m.upserted, doc)
	m.mu.Unlock()
	if m.upsertFn != nil {
		return m.upsertFn(ctx, collection, doc)
	}
	return nil
}

func (m *docStoreMock) Delete(ctx context.Context, collection, key string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, key)
	m.mu.Unlock()
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, key)
	}
	return nil
}

func (m *docStoreMock) BulkUpsert(ctx context.Context, collection string, docs []*ports.Document) (int, error) {
	m.mu.Lock()
	m.bulkCalled++
	m.upserted = append(m.upserted, docs...)
	m.mu.Unlock()
	if m.bulkFn != nil {
		return m.bulkFn(ctx, collection, docs)
	}
	return len(docs), nil
}

type resultCacheMock struct {
	mu       sync.Mutex
	getFn    func(ctx context.Context, params map[string]any) (json.RawMessage, bool, error)
	putFn    func(ctx context.Context, params map[string]any, payload any) error
	batchFn  func(ctx context.Context, entries []ports.CacheEntry) (int, error)
	gets     int
	puts     int
	batched  [][]ports.CacheEntry
	lastPut  any
	lastGets []map[string]any
}

func (m *resultCacheMock) Get(ctx context.Context, params map[string]any) (json.RawMessage, bool, error) {
	m.mu.Lock()
	m.gets++
	m.lastGets = append(m.lastGets, params)
	m.mu.Unlock()
	if m.getFn != nil {
		return m.getFn(ctx, params)
	}
	return nil, false, nil
}

func (m *resultCacheMock) Put(ctx context.Context, params map[string]any, payload any) error {
	m.mu.Lock()
	m.puts++
	m.lastPut = payload
	m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(ctx, params, payload)
	}
	return nil
}

func (m *resultCacheMock) BatchPut(ctx context.Context, entries []ports.CacheEntry) (int, error) {
	m.mu.Lock()
	m.batched = append(m.batched, entries)
	m.mu.Unlock()
	if m.batchFn != nil {
		return m.batchFn(ctx, entries)
	}
	return len(entries), nil
}

type flightAPIMock struct {
	mu        sync.Mutex
	searchFn  func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error)
	bookingFn func(ctx context.Context, req flight.BookingRequest) (*flight.BookingResponse, error)
	searches  int
	bookings  []string
}

func (m *flightAPIMock) Search(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
	m.mu.Lock()
	m.searches++
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *flightAPIMock) BookingOptions(ctx context.Context, req flight.BookingRequest) (*flight.BookingResponse, error) {
	m.mu.Lock()
	m.bookings = append(m.bookings, req.Token)
	m.mu.Unlock()
	if m.bookingFn != nil {
		return m.bookingFn(ctx, req)
	}
	return &flight.BookingResponse{}, nil
}

func (m *flightAPIMock) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

type offerRepoMock struct {
	listFn func(ctx context.Context, category offer.Category, filter ports.OfferFilter, limit int) ([]offer.Offer, error)
}

func (m *offerRepoMock) ListByCategory(ctx context.Context, category offer.Category, filter ports.OfferFilter, limit int) ([]offer.Offer, error) {
	if m.listFn != nil {
		return m.listFn(ctx, category, filter, limit)
	}
	return nil, nil
}
