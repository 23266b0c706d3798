package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"inference-service/internal/core/domain"
	ports "inference-service/internal/core/ports/output"
	"inference-service/internal/metrics"
)

const logQueueSize = 256

// PredictionLogService accepts monitoring records from the host application.
// The hook is fire-and-forget: Log acknowledges immediately and a background
// worker hands records to the repository. A full queue drops the record
// rather than block the caller's prediction response.
type PredictionLogService struct {
	repo ports.PredictionLogRepository
	m    *metrics.Metrics

	queue chan domain.PredictionRecord
	once  sync.Once
	done  chan struct{}
}

// NewPredictionLogService starts the background writer. repo may be nil, in
// which case records are acknowledged and discarded.
func NewPredictionLogService(repo ports.PredictionLogRepository, m *metrics.Metrics) *PredictionLogService {
	s := &PredictionLogService{
		repo:  repo,
		m:     m,
		queue: make(chan domain.PredictionRecord, logQueueSize),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Log enqueues a record and returns its acknowledgment id: the first 16 hex
// characters of the record body's SHA-256. Never blocks, never fails.
func (s *PredictionLogService) Log(body map[string]any) string {
	rec := domain.PredictionRecord{
		ID:         recordID(body),
		Body:       body,
		ReceivedAt: time.Now(),
	}

	select {
	case s.queue <- rec:
	default:
		s.m.LogRecordsDropped.Inc()
		log.WithField("record_id", rec.ID).Warn("prediction log queue full, record dropped")
	}

	return rec.ID
}

// Close stops accepting records and waits for the worker to drain the queue.
func (s *PredictionLogService) Close() {
	s.once.Do(func() {
		close(s.queue)
		<-s.done
	})
}

func (s *PredictionLogService) run() {
	defer close(s.done)
	for rec := range s.queue {
		if s.repo == nil {
			log.WithField("record_id", rec.ID).Debug("prediction logged (no sink configured)")
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Insert(ctx, &rec); err != nil {
			log.WithError(err).WithField("record_id", rec.ID).Warn("prediction log write failed")
		}
		cancel()
	}
}

func recordID(body map[string]any) string {
	raw, err := json.Marshal(body)
	if err != nil {
		return uuid.New().String()[:16]
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:16]
}
