// Package handlers contains the HTTP handlers of the dashboard API.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iceplantengineering/paperplant/internal/alerting"
	"github.com/iceplantengineering/paperplant/internal/cache"
	"github.com/iceplantengineering/paperplant/internal/catalog"
	"github.com/iceplantengineering/paperplant/internal/metrics"
	"github.com/iceplantengineering/paperplant/internal/models"
	"github.com/iceplantengineering/paperplant/internal/synth"
)

const (
	// DefaultTrendHours is the trailing window when the hours query
	// parameter is absent.
	DefaultTrendHours = 24
	// MaxTrendHours caps the trailing window to one week.
	MaxTrendHours = 168
)

// Handler holds the dependencies of the HTTP handlers. Both cache and
// publisher may be nil; every endpoint degrades to pure synthesis.
type Handler struct {
	cache     *cache.RedisCache
	publisher *alerting.Publisher
	newSynth  func() *synth.Synthesizer
	env       string
	startTime time.Time
}

// NewHandler creates a handler set. newSynth produces a fresh synthesizer
// per request, so each response draws from an independent random stream.
func NewHandler(c *cache.RedisCache, p *alerting.Publisher, env string, newSynth func() *synth.Synthesizer) *Handler {
	return &Handler{
		cache:     c,
		publisher: p,
		newSynth:  newSynth,
		env:       env,
		startTime: time.Now(),
	}
}

// SummaryHandler handles GET /dashboard/summary.
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/dashboard/summary", r.Method))
	defer timer.ObserveDuration()

	s := h.newSynth()

	kpis := h.cachedKPISnapshot(s)
	critical := s.CriticalAlerts()
	for _, a := range critical {
		metrics.AlertsSynthesized.WithLabelValues(string(a.Level)).Inc()
	}
	h.publishCritical(r.Context(), critical)

	response := models.SummaryResponse{
		KPIs:           kpis,
		ActiveBatches:  s.ActiveBatches(),
		CriticalAlerts: critical,
		LastUpdated:    time.Now(),
	}

	metrics.RequestsTotal.WithLabelValues("/dashboard/summary", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// cachedKPISnapshot returns the cached KPI snapshot when one is fresh,
// synthesizing and caching a new one otherwise.
func (h *Handler) cachedKPISnapshot(s *synth.Synthesizer) map[string]models.KPIMetric {
	if h.cache != nil {
		kpis, err := h.cache.GetKPISnapshot()
		switch {
		case err == nil:
			metrics.CacheHits.Inc()
			return kpis
		case cache.IsMiss(err):
			metrics.CacheMisses.Inc()
		default:
			log.Printf("kpi snapshot cache read failed: %v", err)
		}
	}

	kpis := s.KPISnapshot()
	if h.cache != nil {
		if err := h.cache.CacheKPISnapshot(kpis); err != nil {
			log.Printf("kpi snapshot cache write failed: %v", err)
		}
	}
	return kpis
}

// publishCritical forwards critical alerts to the broker, best-effort.
func (h *Handler) publishCritical(ctx context.Context, alerts []models.Alert) {
	if h.publisher == nil || len(alerts) == 0 {
		return
	}
	if err := h.publisher.PublishCritical(ctx, alerts); err != nil {
		log.Printf("alert publish failed: %v", err)
		return
	}
	metrics.AlertsPublished.Add(float64(len(alerts)))
}

// ProcessFlowHandler handles GET /dashboard/process-flow.
func (h *Handler) ProcessFlowHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/dashboard/process-flow", r.Method))
	defer timer.ObserveDuration()

	response := models.ProcessFlowResponse{
		Processes: h.newSynth().ProcessFlow(),
	}

	metrics.RequestsTotal.WithLabelValues("/dashboard/process-flow", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// ProcessMonitoringHandler handles GET /dashboard/process/{code}. Unknown
// process codes are rejected with a structured 400, never a silent empty
// payload.
func (h *Handler) ProcessMonitoringHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/dashboard/process", r.Method))
	defer timer.ObserveDuration()

	process, err := catalog.ParseProcess(mux.Vars(r)["code"])
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("/dashboard/process", r.Method, "400").Inc()
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := h.newSynth()
	start := time.Now()
	quality := s.TimeSeries(process, DefaultTrendHours)
	statuses := s.MachineStatuses(process)
	metrics.SynthesisLatency.Observe(time.Since(start).Seconds())
	metrics.ReadingsSynthesized.Add(float64(len(quality)))

	now := time.Now()
	response := models.ProcessMonitoringResponse{
		ProcessCode: string(process),
		TimeRange: models.TimeRange{
			Start: now.Add(-DefaultTrendHours * time.Hour),
			End:   now,
		},
		QualityData:   quality,
		MachineStatus: statuses,
		TotalRecords:  len(quality),
	}

	metrics.RequestsTotal.WithLabelValues("/dashboard/process", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// QualityTrendHandler handles GET /dashboard/quality-trend/{parameter}.
// The trend is synthesized from the process owning the parameter, then
// filtered to that parameter only.
func (h *Handler) QualityTrendHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/dashboard/quality-trend", r.Method))
	defer timer.ObserveDuration()

	parameter := mux.Vars(r)["parameter"]
	process, ok := catalog.ProcessForParameter(parameter)
	if !ok {
		metrics.RequestsTotal.WithLabelValues("/dashboard/quality-trend", r.Method, "404").Inc()
		h.respondError(w, "unknown quality parameter: "+parameter, http.StatusNotFound)
		return
	}

	hours := DefaultTrendHours
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		n, err := strconv.Atoi(hoursStr)
		if err != nil || n < 1 || n > MaxTrendHours {
			metrics.RequestsTotal.WithLabelValues("/dashboard/quality-trend", r.Method, "400").Inc()
			h.respondError(w, "hours must be an integer between 1 and 168", http.StatusBadRequest)
			return
		}
		hours = n
	}

	s := h.newSynth()
	start := time.Now()
	all := s.TimeSeries(process, hours)
	metrics.SynthesisLatency.Observe(time.Since(start).Seconds())

	data := make([]models.QualityReading, 0, hours*synth.PointsPerHour)
	for _, reading := range all {
		if reading.Parameter == parameter {
			data = append(data, reading)
		}
	}
	metrics.ReadingsSynthesized.Add(float64(len(data)))

	response := models.QualityTrendResponse{
		Parameter: parameter,
		Data:      data,
		TimeRange: models.TrendRange{
			Hours:     hours,
			StartTime: time.Now().Add(-time.Duration(hours) * time.Hour),
		},
	}

	metrics.RequestsTotal.WithLabelValues("/dashboard/quality-trend", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// SearchHandler handles GET /traceability/search.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/traceability/search", r.Method))
	defer timer.ObserveDuration()

	q := r.URL.Query()
	criteria := synth.SearchCriteria{
		ProductLotID:     q.Get("product_lot_id"),
		BatchID:          q.Get("batch_id"),
		RawMaterialLotID: q.Get("raw_material_lot_id"),
	}

	response := models.SearchResponse{
		SearchResults: h.newSynth().SearchResults(criteria),
	}
	h.countEvent(cache.SearchCounterKey)

	metrics.RequestsTotal.WithLabelValues("/traceability/search", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// JourneyHandler handles GET /traceability/journey/{lotId}. Journeys are
// cached per lot so repeated lookups within the TTL return a stable
// timeline.
func (h *Handler) JourneyHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/traceability/journey", r.Method))
	defer timer.ObserveDuration()

	lotID := mux.Vars(r)["lotId"]
	if !validLotID(lotID) {
		metrics.RequestsTotal.WithLabelValues("/traceability/journey", r.Method, "400").Inc()
		h.respondError(w, "lot id must start with FPL- or PB-", http.StatusBadRequest)
		return
	}

	timeline := h.cachedJourney(lotID)

	response := models.JourneyResponse{
		LotID:    lotID,
		BatchID:  synth.BatchIDFor(lotID),
		Timeline: timeline,
	}
	if y, ok := synth.Yield(timeline); ok {
		response.Yield = &y
	}

	metrics.RequestsTotal.WithLabelValues("/traceability/journey", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// cachedJourney returns the cached timeline for a lot, synthesizing and
// caching one on a miss.
func (h *Handler) cachedJourney(lotID string) []models.TimelineEvent {
	if h.cache != nil {
		timeline, err := h.cache.GetJourney(lotID)
		switch {
		case err == nil:
			metrics.CacheHits.Inc()
			return timeline
		case cache.IsMiss(err):
			metrics.CacheMisses.Inc()
		default:
			log.Printf("journey cache read failed: %v", err)
		}
	}

	timeline := h.newSynth().Journey(lotID)
	metrics.JourneysSynthesized.Inc()
	h.countEvent(cache.JourneyCounterKey)
	if h.cache != nil {
		if err := h.cache.CacheJourney(lotID, timeline); err != nil {
			log.Printf("journey cache write failed: %v", err)
		}
	}
	return timeline
}

// countEvent bumps a persistent service counter, best-effort.
func (h *Handler) countEvent(key string) {
	if h.cache == nil {
		return
	}
	if _, err := h.cache.IncrementCounter(key); err != nil {
		log.Printf("counter %s increment failed: %v", key, err)
	}
}

// validLotID accepts product lot and batch identifiers.
func validLotID(lotID string) bool {
	return strings.HasPrefix(lotID, "FPL-") || strings.HasPrefix(lotID, "PB-")
}

// HealthHandler handles GET /health.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	redisStatus := "disconnected"
	var counters map[string]int64
	if h.cache != nil && h.cache.Ping() == nil {
		redisStatus = "connected"
		counters = h.serviceCounters()
	}

	status := models.HealthStatus{
		Status:      "healthy",
		Timestamp:   time.Now(),
		Environment: h.env,
		Redis:       redisStatus,
		Uptime:      time.Since(h.startTime).String(),
		Counters:    counters,
	}

	h.respondJSON(w, status, http.StatusOK)
}

// serviceCounters reads the persistent service counters for the health
// report. Counter read failures degrade to zero.
func (h *Handler) serviceCounters() map[string]int64 {
	counters := make(map[string]int64)
	for _, key := range []string{cache.JourneyCounterKey, cache.SearchCounterKey} {
		n, err := h.cache.GetCounter(key)
		if err != nil {
			log.Printf("counter %s read failed: %v", key, err)
		}
		counters[key] = n
	}
	return counters
}

// NotFoundHandler reports unmatched routes as structured 404 bodies.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues(r.URL.Path, r.Method, "404").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "no such API endpoint",
	})
}

// respondJSON writes a JSON response.
func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error body.
func (h *Handler) respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
