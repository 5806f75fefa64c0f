// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package retrain runs model retraining in the background.
//
// Jobs are published to an in-process watermill GoChannel, one topic per
// model, and consumed by a router handler per model. A handler runs one
// job at a time, so two runs of the same model never interleave artifact
// writes. Bursts coalesce: a job enqueued before the latest run of its
// model started is already covered by that run and is dropped.
package retrain

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/metrics"
)

const topicPrefix = "aidhub.retrain."

// TrainFunc retrains one model. It reports whether an artifact was written.
type TrainFunc func(ctx context.Context) bool

// Job is the message payload.
type Job struct {
	Model      string    `json:"model"`
	Reason     string    `json:"reason"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Config tunes the queue.
type Config struct {
	// JobTimeout bounds a single training run. Zero means no limit.
	JobTimeout   time.Duration
	CloseTimeout time.Duration
}

type modelState struct {
	mu        sync.Mutex
	lastStart time.Time
}

// Queue owns the pub/sub channel and the router consuming it.
type Queue struct {
	pubsub   *gochannel.GoChannel
	router   *message.Router
	trainers map[string]TrainFunc
	state    map[string]*modelState
	cfg      Config
	logger   zerolog.Logger
	now      func() time.Time
}

// New wires one handler per trainer. Call Start to begin consuming.
func New(cfg Config, trainers map[string]TrainFunc, logger zerolog.Logger) (*Queue, error) {
	wmLogger := logging.NewWatermillLogger(logger)

	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer, middleware.CorrelationID)

	q := &Queue{
		pubsub:   gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger),
		router:   router,
		trainers: trainers,
		state:    make(map[string]*modelState, len(trainers)),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}

	for _, model := range q.Models() {
		q.state[model] = &modelState{}
		router.AddConsumerHandler("retrain-"+model, topicPrefix+model, q.pubsub, q.handle)
	}
	return q, nil
}

// Models lists the registered model names in sorted order.
func (q *Queue) Models() []string {
	out := make([]string, 0, len(q.trainers))
	for m := range q.trainers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Enqueue publishes a retrain job for each model (all models when none
// are given). It does not wait for training. Publish errors are logged.
func (q *Queue) Enqueue(ctx context.Context, reason string, models ...string) {
	if len(models) == 0 {
		models = q.Models()
	}
	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
	}

	for _, model := range models {
		if _, ok := q.trainers[model]; !ok {
			q.logger.Warn().Str("model", model).Msg("Retrain requested for unknown model")
			continue
		}
		payload, err := json.Marshal(Job{Model: model, Reason: reason, EnqueuedAt: q.now()})
		if err != nil {
			q.logger.Error().Err(err).Str("model", model).Msg("Failed to encode retrain job")
			continue
		}
		msg := message.NewMessage(uuid.New().String(), payload)
		middleware.SetCorrelationID(correlationID, msg)

		if err := q.pubsub.Publish(topicPrefix+model, msg); err != nil {
			q.logger.Error().Err(err).Str("model", model).Msg("Failed to publish retrain job")
		}
	}
}

func (q *Queue) handle(msg *message.Message) error {
	var job Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		// Malformed jobs are dropped; retrying cannot fix them.
		q.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding malformed retrain job")
		return nil
	}

	ctx := logging.ContextWithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
	q.Run(ctx, job)
	return nil
}

// Run executes job synchronously unless a newer run already covered it.
// It reports whether the trainer ran.
func (q *Queue) Run(ctx context.Context, job Job) bool {
	train, ok := q.trainers[job.Model]
	if !ok {
		return false
	}
	st := q.state[job.Model]

	st.mu.Lock()
	defer st.mu.Unlock()

	log := q.logger.With().
		Str("model", job.Model).
		Str("reason", job.Reason).
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Logger()

	if job.EnqueuedAt.Before(st.lastStart) {
		metrics.TrainingJobsCoalesced.WithLabelValues(job.Model).Inc()
		log.Debug().Msg("Retrain job already covered by a later run")
		return false
	}
	st.lastStart = q.now()

	if q.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.cfg.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	trained := train(ctx)
	log.Info().Bool("trained", trained).Dur("duration", time.Since(start)).Msg("Retrain job finished")
	return true
}

// Start runs the router until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) error {
	return q.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (q *Queue) Running() <-chan struct{} {
	return q.router.Running()
}

// Close stops the router and the channel.
func (q *Queue) Close() error {
	rErr := q.router.Close()
	pErr := q.pubsub.Close()
	if rErr != nil {
		return rErr
	}
	return pErr
}
