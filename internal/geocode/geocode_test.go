// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/aidhub/internal/cache"
	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/models"
)

func testConfig(url string) *config.GeocodeConfig {
	return &config.GeocodeConfig{
		URL:                url,
		UserAgent:          "donation_ai",
		Timeout:            2 * time.Second,
		RateLimit:          0,
		CacheSize:          10,
		CacheTTL:           time.Hour,
		BreakerFailures:    2,
		BreakerOpenTimeout: time.Minute,
	}
}

func TestNominatim_Geocode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    models.Coordinates
		wantErr error
		anyErr  bool
	}{
		{
			name:   "first result",
			status: http.StatusOK,
			body:   `[{"lat":"14.5995","lon":"120.9842"},{"lat":"1","lon":"2"}]`,
			want:   models.Coordinates{Latitude: 14.5995, Longitude: 120.9842},
		},
		{
			name:    "no results",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: ErrLocationNotFound,
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   `oops`,
			anyErr: true,
		},
		{
			name:   "bad coordinate",
			status: http.StatusOK,
			body:   `[{"lat":"north","lon":"1"}]`,
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("path = %s, want /search", r.URL.Path)
				}
				if got := r.URL.Query().Get("format"); got != "json" {
					t.Errorf("format = %q, want json", got)
				}
				if got := r.Header.Get("User-Agent"); got != "donation_ai" {
					t.Errorf("User-Agent = %q", got)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewNominatim(testConfig(srv.URL)).Geocode(context.Background(), "Manila")
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("got %+v, want %+v", got, tt.want)
				}
			}
		})
	}
}

func TestNominatim_TimeoutIsBounded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 100 * time.Millisecond

	for name, g := range map[string]Geocoder{
		"client":  NewNominatim(cfg),
		"service": New(cfg),
	} {
		start := time.Now()
		_, err := g.Geocode(context.Background(), "Manila")
		elapsed := time.Since(start)

		if err == nil {
			t.Fatalf("%s: expected timeout error", name)
		}
		if errors.Is(err, ErrLocationNotFound) {
			t.Errorf("%s: timeout reported as not found: %v", name, err)
		}
		if elapsed > 2*time.Second {
			t.Errorf("%s: Geocode took %v, want close to the 100ms timeout", name, elapsed)
		}
	}
}

func TestBreakerGeocoder_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls int32
	failing := GeocoderFunc(func(ctx context.Context, location string) (models.Coordinates, error) {
		atomic.AddInt32(&calls, 1)
		return models.Coordinates{}, errors.New("connection refused")
	})
	b := NewBreakerGeocoder(failing, testConfig(""))

	for i := 0; i < 2; i++ {
		if _, err := b.Geocode(context.Background(), "x"); err == nil {
			t.Fatal("expected failure")
		}
	}
	if _, err := b.Geocode(context.Background(), "x"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want open state", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("provider calls = %d, want 2", got)
	}
}

func TestBreakerGeocoder_NotFoundIsHealthy(t *testing.T) {
	t.Parallel()

	missing := GeocoderFunc(func(ctx context.Context, location string) (models.Coordinates, error) {
		return models.Coordinates{}, ErrLocationNotFound
	})
	b := NewBreakerGeocoder(missing, testConfig(""))

	for i := 0; i < 5; i++ {
		if _, err := b.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrLocationNotFound) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestCachedGeocoder_MemoryHitAndNoNegativeCaching(t *testing.T) {
	t.Parallel()

	var calls int32
	next := GeocoderFunc(func(ctx context.Context, location string) (models.Coordinates, error) {
		atomic.AddInt32(&calls, 1)
		if location == "Atlantis" {
			return models.Coordinates{}, ErrLocationNotFound
		}
		return models.Coordinates{Latitude: 1, Longitude: 2}, nil
	})
	c := NewCachedGeocoder(next, cache.NewLRU[models.Coordinates](10, time.Hour), nil)

	for _, loc := range []string{"Manila", "  manila ", "MANILA"} {
		if _, err := c.Geocode(context.Background(), loc); err != nil {
			t.Fatalf("Geocode(%q): %v", loc, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.Geocode(context.Background(), "Atlantis"); !errors.Is(err, ErrLocationNotFound) {
			t.Fatalf("err = %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("failures should not be cached, calls = %d", got)
	}

	if _, err := c.Geocode(context.Background(), "   "); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("blank location err = %v", err)
	}
}

func TestCachedGeocoder_CollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()

	var calls int32
	release := make(chan struct{})
	next := GeocoderFunc(func(ctx context.Context, location string) (models.Coordinates, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return models.Coordinates{Latitude: 3, Longitude: 4}, nil
	})
	c := NewCachedGeocoder(next, cache.NewLRU[models.Coordinates](10, time.Hour), nil)

	const n = 5
	var wg sync.WaitGroup
	started := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			if _, err := c.Geocode(context.Background(), "Cebu"); err != nil {
				t.Errorf("Geocode: %v", err)
			}
		}()
	}
	for i := 0; i < n; i++ {
		<-started
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got > n {
		t.Errorf("provider calls = %d, want at most %d", got, n)
	}
	if _, ok := c.memory.Get("cebu"); !ok {
		t.Error("result should be cached after collapse")
	}
}

func TestCachedGeocoder_DiskTier(t *testing.T) {
	t.Parallel()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	disk := NewDiskStore(db, time.Hour)
	defer disk.Close()

	var calls int32
	next := GeocoderFunc(func(ctx context.Context, location string) (models.Coordinates, error) {
		atomic.AddInt32(&calls, 1)
		return models.Coordinates{Latitude: 10, Longitude: 20}, nil
	})

	first := NewCachedGeocoder(next, cache.NewLRU[models.Coordinates](10, time.Hour), disk)
	if _, err := first.Geocode(context.Background(), "Davao"); err != nil {
		t.Fatalf("Geocode: %v", err)
	}

	// A fresh memory tier simulates a restart.
	second := NewCachedGeocoder(next, cache.NewLRU[models.Coordinates](10, time.Hour), disk)
	got, err := second.Geocode(context.Background(), "davao")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if got.Latitude != 10 || got.Longitude != 20 {
		t.Errorf("got %+v", got)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
}

func TestCachedGeocoder_CanceledCallerDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	var upstreamErr atomic.Value
	var once sync.Once
	next := GeocoderFunc(func(ctx context.Context, location string) (models.Coordinates, error) {
		once.Do(func() { close(entered) })
		<-release
		if err := ctx.Err(); err != nil {
			upstreamErr.Store(err)
			return models.Coordinates{}, err
		}
		return models.Coordinates{Latitude: 5, Longitude: 6}, nil
	})
	c := NewCachedGeocoder(next, cache.NewLRU[models.Coordinates](10, time.Hour), nil)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.Geocode(leaderCtx, "Iloilo")
		leaderErr <- err
	}()
	<-entered

	type result struct {
		coords models.Coordinates
		err    error
	}
	waiter := make(chan result, 1)
	go func() {
		coords, err := c.Geocode(context.Background(), "iloilo")
		waiter <- result{coords, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Errorf("leader err = %v, want context.Canceled", err)
	}
	close(release)

	got := <-waiter
	if got.err != nil {
		t.Fatalf("waiter failed after leader disconnect: %v", got.err)
	}
	if got.coords.Latitude != 5 || got.coords.Longitude != 6 {
		t.Errorf("waiter got %+v", got.coords)
	}
	if v := upstreamErr.Load(); v != nil {
		t.Errorf("upstream lookup saw canceled context: %v", v)
	}
	if _, ok := c.memory.Get("iloilo"); !ok {
		t.Error("result should be cached after the shared lookup")
	}
}
