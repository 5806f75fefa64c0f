// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/database"
	"github.com/tomtom215/aidhub/internal/geocode"
	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/ranking"
	"github.com/tomtom215/aidhub/internal/urgency"
)

// testDBSemaphore serializes DuckDB usage across tests.
var testDBSemaphore = make(chan struct{}, 1)

var testLocations = map[string]models.Coordinates{
	"manila":      {Latitude: 14.5995, Longitude: 120.9842},
	"quezon city": {Latitude: 14.6760, Longitude: 121.0437},
	"cebu":        {Latitude: 10.3157, Longitude: 123.8854},
}

func fakeGeocoder() geocode.Geocoder {
	return geocode.GeocoderFunc(func(_ context.Context, location string) (models.Coordinates, error) {
		c, ok := testLocations[strings.ToLower(strings.TrimSpace(location))]
		if !ok {
			return models.Coordinates{}, geocode.ErrLocationNotFound
		}
		return c, nil
	})
}

type recordingRetrain struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recordingRetrain) Enqueue(_ context.Context, reason string, _ ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recordingRetrain) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons...)
}

type testServer struct {
	handler http.Handler
	db      *database.DB
	retrain *recordingRetrain
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithGeocoder(t, fakeGeocoder(), 5*time.Second)
}

func newTestServerWithGeocoder(t *testing.T, geo geocode.Geocoder, requestTimeout time.Duration) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	est := urgency.NewEstimator(db, 0.3, rand.New(rand.NewSource(7)))
	retrain := &recordingRetrain{}
	h := NewHandler(Dependencies{
		Store:          db,
		Geocoder:       geo,
		Ranker:         ranking.NewEngine(geo, db, est, nil),
		Estimator:      est,
		Retrain:        retrain,
		RequestTimeout: requestTimeout,
	})
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return &testServer{handler: NewRouter(h, mw).Setup(), db: db, retrain: retrain}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) models.APIError {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d; body %s", w.Code, status, w.Body.String())
	}
	body := decodeBody[models.APIError](t, w)
	if body.Code != code {
		t.Errorf("code = %q, want %q", body.Code, code)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
	return body
}

func addAna(t *testing.T, s *testServer) models.AddRecipientResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/add_recipient", map[string]string{
		"name": "Ana", "location": "Manila", "donation_type": "Food", "contact": "555",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add_recipient status = %d; body %s", w.Code, w.Body.String())
	}
	return decodeBody[models.AddRecipientResponse](t, w)
}

func TestAddRecipientThenRankReturnsAna(t *testing.T) {
	s := newTestServer(t)

	added := addAna(t, s)
	if !added.Success || added.ID == 0 {
		t.Fatalf("unexpected add response: %+v", added)
	}
	// No prior data for the category: neutral default.
	if added.Urgency != urgency.DefaultUrgency || added.Confidence != urgency.DefaultConfidence {
		t.Errorf("urgency, confidence = %v, %v; want defaults", added.Urgency, added.Confidence)
	}
	if !strings.Contains(added.Message, "Urgency level 3.00/5.0 (confidence: 50.00%)") {
		t.Errorf("message = %q", added.Message)
	}

	w := s.do(t, http.MethodGet, "/api/recipients?type=food&location=Manila", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recipients status = %d; body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[models.RecipientsResponse](t, w)
	if len(resp.Recipients) != 1 {
		t.Fatalf("got %d recipients, want 1", len(resp.Recipients))
	}
	got := resp.Recipients[0]
	if got.Name != "Ana" || got.Category != "food" || got.Contact != "555" {
		t.Errorf("candidate = %+v", got)
	}
	if math.Abs(got.Distance) > 1e-6 {
		t.Errorf("distance = %v, want ~0", got.Distance)
	}
	if resp.DonorLocation != "Manila" || resp.DonorCoordinates != testLocations["manila"] {
		t.Errorf("donor = %q %+v", resp.DonorLocation, resp.DonorCoordinates)
	}

	if calls := s.retrain.calls(); len(calls) != 1 || calls[0] != "add_recipient" {
		t.Errorf("retrain calls = %v", calls)
	}
}

func TestRecipientsErrors(t *testing.T) {
	s := newTestServer(t)
	addAna(t, s)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing type", "/api/recipients?location=Manila", http.StatusBadRequest, models.CodeMissingFields},
		{"missing location", "/api/recipients?type=food", http.StatusBadRequest, models.CodeMissingFields},
		{"blank location", "/api/recipients?type=food&location=%20", http.StatusBadRequest, models.CodeMissingFields},
		{"unresolvable location", "/api/recipients?type=food&location=Atlantis", http.StatusBadRequest, models.CodeInvalidLocation},
		{"no candidates", "/api/recipients?type=toys&location=Manila", http.StatusNotFound, models.CodeNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.target, nil)
			expectError(t, w, tt.status, tt.code)
		})
	}
}

func TestRecipientsRankedByCompositeKey(t *testing.T) {
	s := newTestServer(t)

	ctx := context.Background()
	for _, n := range []models.NewNeed{
		{Name: "far-urgent", Location: "Cebu", Latitude: 10.3157, Longitude: 123.8854, Category: "food", Urgency: 5, Contact: "1"},
		{Name: "near-low", Location: "Manila", Latitude: 14.5995, Longitude: 120.9842, Category: "food", Urgency: 1, Contact: "2"},
		{Name: "close-mid", Location: "Quezon City", Latitude: 14.6760, Longitude: 121.0437, Category: "food", Urgency: 3, Contact: "3"},
	} {
		n := n
		if _, err := s.db.CreateNeed(ctx, &n); err != nil {
			t.Fatalf("CreateNeed: %v", err)
		}
	}

	w := s.do(t, http.MethodGet, "/api/recipients?type=FOOD&location=Manila", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[models.RecipientsResponse](t, w)
	if len(resp.Recipients) != 3 {
		t.Fatalf("got %d recipients", len(resp.Recipients))
	}
	for i := 1; i < len(resp.Recipients); i++ {
		if ranking.CompositeKey(&resp.Recipients[i-1]) > ranking.CompositeKey(&resp.Recipients[i]) {
			t.Errorf("recipients %d and %d out of order", i-1, i)
		}
	}
	order := []string{"near-low", "close-mid", "far-urgent"}
	for i, name := range order {
		if resp.Recipients[i].Name != name {
			t.Errorf("recipients[%d] = %q, want %q", i, resp.Recipients[i].Name, name)
		}
	}
	for _, c := range resp.Recipients {
		if c.Confidence != urgency.DataConfidence {
			t.Errorf("%s confidence = %v, want %v", c.Name, c.Confidence, urgency.DataConfidence)
		}
	}
}

func TestAddRecipientErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing fields listed", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/add_recipient", map[string]string{"name": "Ana", "contact": " "})
		body := expectError(t, w, http.StatusBadRequest, models.CodeMissingFields)
		fields, _ := body.Details["fields"].([]interface{})
		want := []string{"location", "donation_type", "contact"}
		if len(fields) != len(want) {
			t.Fatalf("fields = %v, want %v", fields, want)
		}
		for i, f := range want {
			if fields[i] != f {
				t.Errorf("fields[%d] = %v, want %s", i, fields[i], f)
			}
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/add_recipient", "{not json")
		expectError(t, w, http.StatusBadRequest, models.CodeMalformedInput)
	})

	t.Run("unresolvable location", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/add_recipient", map[string]string{
			"name": "Ana", "location": "Atlantis", "donation_type": "food", "contact": "555",
		})
		expectError(t, w, http.StatusBadRequest, models.CodeInvalidLocation)
	})

	if calls := s.retrain.calls(); len(calls) != 0 {
		t.Errorf("failed requests enqueued retraining: %v", calls)
	}
}

func donateBody(recipientID interface{}) map[string]interface{} {
	return map[string]interface{}{
		"donor_name":      "Ben",
		"donor_contact":   "777",
		"donation_type":   "Food",
		"donor_location":  "Quezon City",
		"pickup_location": "Quezon City",
		"recipient_id":    recipientID,
		"description":     "canned food and some soap",
	}
}

func TestDonateMatchesOnce(t *testing.T) {
	s := newTestServer(t)
	added := addAna(t, s)

	// Numeric string ids are accepted.
	w := s.do(t, http.MethodPost, "/api/donate", donateBody(strconv.FormatInt(added.ID, 10)))
	if w.Code != http.StatusOK {
		t.Fatalf("donate status = %d; body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[models.DonateResponse](t, w)
	if !resp.Success || resp.Message != "Donation from Ben to Ana confirmed" {
		t.Errorf("response = %+v", resp)
	}
	if resp.RecipientContact != "555" || resp.DonorContact != "777" || resp.PickupLocation != "Quezon City" {
		t.Errorf("contacts = %+v", resp)
	}
	if len(resp.SuggestedTypes) != 2 || resp.SuggestedTypes[0] != "food" || resp.SuggestedTypes[1] != "hygiene" {
		t.Errorf("suggested types = %v", resp.SuggestedTypes)
	}

	w = s.do(t, http.MethodPost, "/api/donate", donateBody(added.ID))
	expectError(t, w, http.StatusNotFound, models.CodeRecipientNotFound)

	w = s.do(t, http.MethodGet, "/api/recipients?type=food&location=Manila", nil)
	expectError(t, w, http.StatusNotFound, models.CodeNoMatch)

	w = s.do(t, http.MethodGet, "/api/history", nil)
	history := decodeBody[models.HistoryResponse](t, w)
	if len(history.Transactions) != 1 {
		t.Fatalf("history transactions = %d", len(history.Transactions))
	}
	tx := history.Transactions[0]
	if tx.RecipientName != "Ana" || tx.DonationType != "food" || tx.DonorName != "Ben" {
		t.Errorf("transaction = %+v", tx)
	}
	if len(history.TypeStats) != 1 || history.TypeStats[0].DonationType != "Food" ||
		history.TypeStats[0].Count != 1 || history.TypeStats[0].AvgUrgency != urgency.DefaultUrgency {
		t.Errorf("type stats = %+v", history.TypeStats)
	}

	w = s.do(t, http.MethodGet, "/api/summary_stats", nil)
	summary := decodeBody[models.SummaryStats](t, w)
	if summary != (models.SummaryStats{TotalDonations: 1, UniqueDonors: 1, CommunitiesServed: 1}) {
		t.Errorf("summary = %+v", summary)
	}

	calls := s.retrain.calls()
	if len(calls) != 2 || calls[1] != "donate" {
		t.Errorf("retrain calls = %v", calls)
	}
}

func TestDonateValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
		fields []string
	}{
		{
			name:   "missing recipient id",
			body:   donateBody(nil),
			status: http.StatusBadRequest,
			code:   models.CodeMissingFields,
			fields: []string{"recipient_id"},
		},
		{
			name:   "blank string id",
			body:   donateBody("  "),
			status: http.StatusBadRequest,
			code:   models.CodeMissingFields,
			fields: []string{"recipient_id"},
		},
		{
			name:   "several missing",
			body:   map[string]interface{}{"donor_name": "Ben", "recipient_id": 1},
			status: http.StatusBadRequest,
			code:   models.CodeMissingFields,
			fields: []string{"donor_contact", "donation_type", "donor_location", "pickup_location"},
		},
		{
			name:   "non numeric id",
			body:   donateBody("abc"),
			status: http.StatusBadRequest,
			code:   models.CodeMalformedInput,
		},
		{
			name:   "fractional id",
			body:   donateBody(1.5),
			status: http.StatusBadRequest,
			code:   models.CodeMalformedInput,
		},
		{
			name:   "object id",
			body:   donateBody(map[string]int{"id": 1}),
			status: http.StatusBadRequest,
			code:   models.CodeMalformedInput,
		},
		{
			name:   "invalid json",
			body:   `{"donor_name":`,
			status: http.StatusBadRequest,
			code:   models.CodeMalformedInput,
		},
		{
			name:   "unknown recipient",
			body:   donateBody(424242),
			status: http.StatusNotFound,
			code:   models.CodeRecipientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/donate", tt.body)
			body := expectError(t, w, tt.status, tt.code)
			if tt.fields == nil {
				return
			}
			got, _ := body.Details["fields"].([]interface{})
			if len(got) != len(tt.fields) {
				t.Fatalf("fields = %v, want %v", got, tt.fields)
			}
			for i := range tt.fields {
				if got[i] != tt.fields[i] {
					t.Errorf("fields[%d] = %v, want %s", i, got[i], tt.fields[i])
				}
			}
		})
	}

	if calls := s.retrain.calls(); len(calls) != 0 {
		t.Errorf("failed donations enqueued retraining: %v", calls)
	}
}

func TestConcurrentDonationsSingleWinner(t *testing.T) {
	s := newTestServer(t)
	added := addAna(t, s)

	const n = 4
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- s.do(t, http.MethodPost, "/api/donate", donateBody(added.ID)).Code
		}()
	}
	wg.Wait()
	close(codes)

	var ok, notFound int
	for c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusNotFound:
			notFound++
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 1 || notFound != n-1 {
		t.Errorf("ok = %d, not found = %d", ok, notFound)
	}
}

type fixedForecaster map[models.Category]float64

func (f fixedForecaster) ForecastTrend(category models.Category, _ time.Time) (float64, bool) {
	v, ok := f[category]
	return v, ok
}

func TestTrending(t *testing.T) {
	s := newTestServer(t)

	ctx := context.Background()
	for _, c := range []models.Category{"food", "books", "food", "toys", "books", "food", "clothes"} {
		if _, err := s.db.CreateNeed(ctx, &models.NewNeed{Name: "n", Location: "Manila", Category: c, Urgency: 3, Contact: "1"}); err != nil {
			t.Fatalf("CreateNeed: %v", err)
		}
	}

	h := NewHandler(Dependencies{Store: s.db, Forecaster: fixedForecaster{"food": 2.5}})
	w := httptest.NewRecorder()
	h.Trending(w, httptest.NewRequest(http.MethodGet, "/api/trending", nil))

	resp := decodeBody[models.TrendingResponse](t, w)
	if resp.Message != "Current Donation Needs" || len(resp.Trends) != 3 {
		t.Fatalf("response = %+v", resp)
	}
	want := []struct {
		typ   string
		count int
	}{{"Food", 3}, {"Books", 2}, {"Clothes", 1}}
	for i, wt := range want {
		got := resp.Trends[i]
		if got.Type != wt.typ || got.Count != wt.count {
			t.Errorf("trend[%d] = %+v, want %s x%d", i, got, wt.typ, wt.count)
		}
	}
	if resp.Trends[0].Message != "Food (requested 3 times)" {
		t.Errorf("message = %q", resp.Trends[0].Message)
	}
	if resp.Trends[0].Forecast == nil || *resp.Trends[0].Forecast != 2.5 {
		t.Errorf("food forecast = %v", resp.Trends[0].Forecast)
	}
	if resp.Trends[1].Forecast != nil {
		t.Errorf("books forecast = %v, want none", *resp.Trends[1].Forecast)
	}
}

// failingStore fails every read.
type failingStore struct {
	Store
}

var errStoreDown = errors.New("store down")

func (failingStore) Ping(context.Context) error { return errStoreDown }
func (failingStore) ListFulfilled(context.Context) ([]models.FulfilledRecord, error) {
	return nil, errStoreDown
}
func (failingStore) FulfilledStatsByCategory(context.Context) ([]models.CategoryStats, error) {
	return nil, errStoreDown
}
func (failingStore) TopOpenCategories(context.Context, int) ([]models.CategoryCount, error) {
	return nil, errStoreDown
}
func (failingStore) SummaryStats(context.Context) (models.SummaryStats, error) {
	return models.SummaryStats{TotalDonations: 9}, errStoreDown
}

func TestReadsDegradeOnStoreFailure(t *testing.T) {
	t.Parallel()

	h := NewHandler(Dependencies{Store: failingStore{}})
	get := func(fn http.HandlerFunc) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		return w
	}

	history := decodeBody[models.HistoryResponse](t, get(h.History))
	if history.Error == "" || len(history.Transactions) != 0 || history.TypeStats == nil {
		t.Errorf("history = %+v", history)
	}

	summary := decodeBody[models.SummaryStats](t, get(h.SummaryStats))
	if summary != (models.SummaryStats{}) {
		t.Errorf("summary = %+v, want zeros", summary)
	}

	trending := decodeBody[models.TrendingResponse](t, get(h.Trending))
	if trending.Message != "Error getting trends" || trending.Trends == nil || len(trending.Trends) != 0 {
		t.Errorf("trending = %+v", trending)
	}

	health := decodeBody[models.HealthResponse](t, get(h.Health))
	if health.Status != "degraded" || health.Database {
		t.Errorf("health = %+v", health)
	}
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/health", nil)
	health := decodeBody[models.HealthResponse](t, w)
	if health.Status != "healthy" || !health.Database {
		t.Errorf("health = %+v", health)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}

	expectError(t, s.do(t, http.MethodGet, "/api/nope", nil), http.StatusNotFound, "NOT_FOUND")
	expectError(t, s.do(t, http.MethodGet, "/api/donate", nil), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")

	if w := s.do(t, http.MethodGet, "/metrics", nil); w.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", w.Code)
	}
}

func TestFreeTextCategoriesRoundTrip(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		donationType string
		want         models.Category
	}{
		{donationType: "Útiles", want: "útiles"},
		{donationType: "Food & Water", want: "food & water"},
		{donationType: "baby/infant", want: "baby/infant"},
	}

	for _, tt := range tests {
		t.Run(tt.donationType, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/add_recipient", map[string]string{
				"name": "Rosa", "location": "Cebu", "donation_type": tt.donationType, "contact": "777",
			})
			if w.Code != http.StatusOK {
				t.Fatalf("add_recipient status = %d; body %s", w.Code, w.Body.String())
			}

			target := "/api/recipients?" + url.Values{"type": {tt.donationType}, "location": {"Cebu"}}.Encode()
			w = s.do(t, http.MethodGet, target, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("recipients status = %d; body %s", w.Code, w.Body.String())
			}
			resp := decodeBody[models.RecipientsResponse](t, w)
			if len(resp.Recipients) != 1 || resp.Recipients[0].Category != tt.want {
				t.Errorf("recipients = %+v, want one in category %q", resp.Recipients, tt.want)
			}
		})
	}

	expectError(t, s.do(t, http.MethodPost, "/api/add_recipient", map[string]string{
		"name": "Rosa", "location": "Cebu", "donation_type": "food\u0007", "contact": "777",
	}), http.StatusBadRequest, models.CodeMalformedInput)
}

func TestGeocoderTimeoutIsInvalidLocation(t *testing.T) {
	stalled := geocode.GeocoderFunc(func(ctx context.Context, _ string) (models.Coordinates, error) {
		<-ctx.Done()
		return models.Coordinates{}, ctx.Err()
	})
	s := newTestServerWithGeocoder(t, stalled, 100*time.Millisecond)

	start := time.Now()
	expectError(t, s.do(t, http.MethodPost, "/api/add_recipient", map[string]string{
		"name": "Ana", "location": "Manila", "donation_type": "food", "contact": "555",
	}), http.StatusBadRequest, models.CodeInvalidLocation)
	expectError(t, s.do(t, http.MethodGet, "/api/recipients?type=food&location=Manila", nil),
		http.StatusBadRequest, models.CodeInvalidLocation)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("requests took %v, want bounded by the 100ms request timeout", elapsed)
	}
}

type breakerGeocoder struct {
	geocode.Geocoder
	state string
}

func (b breakerGeocoder) BreakerState() string { return b.state }

func TestHealthReportsGeocoderBreaker(t *testing.T) {
	tests := []struct {
		state      string
		wantStatus string
	}{
		{state: "closed", wantStatus: "healthy"},
		{state: "half-open", wantStatus: "healthy"},
		{state: "open", wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			s := newTestServerWithGeocoder(t, breakerGeocoder{Geocoder: fakeGeocoder(), state: tt.state}, 5*time.Second)
			health := decodeBody[models.HealthResponse](t, s.do(t, http.MethodGet, "/api/health", nil))
			if health.Status != tt.wantStatus || health.Geocoder != tt.state || !health.Database {
				t.Errorf("health = %+v, want status %q geocoder %q", health, tt.wantStatus, tt.state)
			}
		})
	}
}
