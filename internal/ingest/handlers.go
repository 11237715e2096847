// Package ingest implements the event ingestion API: single and batch track
// endpoints enforcing the wire contract in the schema package.
package ingest

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/kafka"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/metrics"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/schema"
)

// maxBodyBytes bounds a request body read; a full 100-event batch fits well
// under this.
const maxBodyBytes = 4 << 20

// ErrorResponse is the client-error reply body. Validation failures are
// distinguishable from server faults by status code and error kind.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Handlers holds the ingestion route handlers.
type Handlers struct {
	logger    *zap.Logger
	collector *metrics.Collector
	producer  kafka.Producer
}

// NewHandlers creates ingestion handlers. producer may be nil, in which case
// accepted events are not fanned out.
func NewHandlers(logger *zap.Logger, collector *metrics.Collector, producer kafka.Producer) *Handlers {
	return &Handlers{logger: logger, collector: collector, producer: producer}
}

// RegisterRoutes attaches the ingestion routes to the router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/analytics")
	api.POST("/track/event", h.TrackEvent)
	api.POST("/track/batch", h.TrackBatch)

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// TrackEvent accepts one event. Malformed JSON and unknown top-level fields
// are rejected; over-length URL and referrer values are truncated, not
// rejected.
func (h *Handlers) TrackEvent(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.collector.ObserveTrackDuration(time.Since(start).Seconds())
	}()
	h.collector.IncTrackRequests()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.collector.IncTrackErrors()
		h.clientError(c, "read_failed", "failed to read request body")
		return
	}

	event, err := schema.DecodeTrackEvent(body)
	if err != nil {
		h.collector.IncTrackErrors()
		h.collector.IncEventsRejected()
		h.clientError(c, "invalid_request", err.Error())
		return
	}

	event.Normalize()
	if err := event.Validate(); err != nil {
		h.collector.IncTrackErrors()
		h.collector.IncEventsRejected()
		h.clientError(c, "validation_failed", err.Error())
		return
	}

	eventID := "evt_" + uuid.New().String()
	h.collector.IncEventsAccepted()
	h.fanOut(c, eventID, event)

	h.logger.Debug("event accepted",
		zap.String("event_id", eventID),
		zap.String("event_type", string(event.EventType)),
		zap.String("session_id", event.SessionID))

	c.JSON(http.StatusAccepted, schema.TrackEventResponse{
		Success: true,
		EventID: eventID,
		Message: "event accepted",
	})
}

// TrackBatch accepts 1-100 events and reports per-event outcomes. A batch
// with invalid entries still processes the valid ones.
func (h *Handlers) TrackBatch(c *gin.Context) {
	h.collector.IncBatchRequests()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.collector.IncBatchErrors()
		h.clientError(c, "read_failed", "failed to read request body")
		return
	}

	batch, err := schema.DecodeBatch(body)
	if err != nil {
		h.collector.IncBatchErrors()
		h.clientError(c, "invalid_request", err.Error())
		return
	}
	if len(batch.Events) == 0 || len(batch.Events) > schema.MaxBatchSize {
		h.collector.IncBatchErrors()
		h.clientError(c, "invalid_batch", fmt.Sprintf("batch must contain 1-%d events, got %d", schema.MaxBatchSize, len(batch.Events)))
		return
	}
	h.collector.ObserveBatchSize(len(batch.Events))

	resp := schema.BatchTrackResponse{}
	for i := range batch.Events {
		event := &batch.Events[i]
		event.Normalize()
		if err := event.Validate(); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("event %d: %s", i, err))
			h.collector.IncEventsRejected()
			continue
		}
		resp.Processed++
		h.collector.IncEventsAccepted()
		h.fanOut(c, "evt_"+uuid.New().String(), event)
	}
	resp.Success = resp.Failed == 0

	h.logger.Info("batch processed",
		zap.Int("processed", resp.Processed),
		zap.Int("failed", resp.Failed))

	c.JSON(http.StatusOK, resp)
}

// Health reports service liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// fanOut publishes an accepted event when a producer is configured. Publish
// failures are logged but never fail the request.
func (h *Handlers) fanOut(c *gin.Context, eventID string, event *schema.TrackEventRequest) {
	if h.producer == nil {
		return
	}
	if err := h.producer.Publish(c.Request.Context(), eventID, event); err != nil {
		h.logger.Warn("event fan-out failed",
			zap.String("event_id", eventID),
			zap.Error(err))
	}
}

func (h *Handlers) clientError(c *gin.Context, kind, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
