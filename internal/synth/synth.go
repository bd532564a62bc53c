// Package synth is the demo-data synthesis engine shared by every API
// endpoint. It replaces the two independent implementations that used to
// live in the browser client and the serverless function with a single
// engine driven by an explicit random source, so the same rules produce
// the same shapes everywhere and tests can pin a seed.
package synth

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/iceplantengineering/paperplant/internal/catalog"
	"github.com/iceplantengineering/paperplant/internal/models"
	"github.com/iceplantengineering/paperplant/internal/stats"
)

const (
	// PointsPerHour is the canonical sampling density of synthesized time
	// series: one reading every 5 minutes.
	PointsPerHour = 12
	// SampleInterval is the spacing between consecutive readings.
	SampleInterval = 5 * time.Minute
	// CrossProfilePoints is the number of lateral positions in a
	// cross-direction profile.
	CrossProfilePoints = 50
	// TrendCycles is how many sinusoid cycles the trend term completes
	// across a window, keeping demo charts visually non-static.
	TrendCycles = 2
)

// Synthesizer generates demo readings, statuses, alerts and KPI snapshots.
// The random source is threaded explicitly so callers can seed it.
type Synthesizer struct {
	rng *rand.Rand
	now func() time.Time
}

// New creates a synthesizer with the given seed and the wall clock.
func New(seed int64) *Synthesizer {
	return NewWithClock(seed, time.Now)
}

// NewWithClock creates a synthesizer with a fixed clock, used by tests.
func NewWithClock(seed int64, now func() time.Time) *Synthesizer {
	return &Synthesizer{
		rng: rand.New(rand.NewSource(seed)),
		now: now,
	}
}

// uniform returns a uniform random value in [-spread, +spread].
func (s *Synthesizer) uniform(spread float64) float64 {
	return (s.rng.Float64() - 0.5) * 2 * spread
}

// TimeSeries synthesizes quality readings for every parameter of a process
// over the trailing window, ordered by ascending timestamp. Readings for
// sheet-forming parameters carry a cross-direction profile.
func (s *Synthesizer) TimeSeries(p catalog.Process, windowHours int) []models.QualityReading {
	params := catalog.ParametersFor(p)
	total := windowHours * PointsPerHour
	if total <= 0 || len(params) == 0 {
		return nil
	}

	end := s.now()
	readings := make([]models.QualityReading, 0, total*len(params))

	for i := 0; i < total; i++ {
		ts := end.Add(-time.Duration(total-i) * SampleInterval)
		// Two full oscillation cycles across the window.
		progress := float64(i) / float64(total)
		trend := math.Sin(progress*math.Pi*2*TrendCycles) * 0.3

		for _, spec := range params {
			noise := s.uniform(spec.Tolerance / 6)
			value := spec.Target + spec.Target*trend*0.02 + noise
			// Physical quantities cannot be negative.
			value = math.Max(0, value)

			r := models.QualityReading{
				Timestamp:  ts,
				Parameter:  spec.Name,
				Value:      stats.Round2(value),
				Target:     spec.Target,
				UpperLimit: spec.UpperLimit(),
				LowerLimit: spec.LowerLimit(),
				Unit:       spec.Unit,
			}
			r.IsOK = models.InBand(r.Value, r.LowerLimit, r.UpperLimit)

			if isSheetForming(p, spec.Name) {
				r.CDProfile = s.CrossProfile(value, spec.Tolerance)
			}
			readings = append(readings, r)
		}
	}
	return readings
}

// isSheetForming reports whether a parameter gets a lateral scan.
func isSheetForming(p catalog.Process, name string) bool {
	return p == catalog.PaperMaking && (name == "basis_weight" || name == "moisture_content")
}

// CrossProfile synthesizes a lateral quality profile across the sheet
// width: a sinusoidal systematic variation plus sensor jitter around the
// basis value. Always returns exactly CrossProfilePoints values.
func (s *Synthesizer) CrossProfile(basis, tolerance float64) []float64 {
	profile := make([]float64, CrossProfilePoints)
	for j := range profile {
		position := float64(j) / float64(CrossProfilePoints-1)
		systematic := math.Sin(position*2*math.Pi) * tolerance / 6
		jitter := s.uniform(tolerance / 8)
		profile[j] = basis + systematic + jitter
	}
	return profile
}

// MachineStatuses synthesizes one status entry per machine of a process.
// A critical alert level forces alarm status so the two fields never
// contradict each other.
func (s *Synthesizer) MachineStatuses(p catalog.Process) []models.MachineStatus {
	machines := catalog.MachinesFor(p)
	statuses := make([]models.MachineStatus, 0, len(machines))

	states := []models.MachineState{
		models.StateRunning, models.StateIdle, models.StateMaintenance, models.StateAlarm,
	}
	levels := []models.AlertLevel{models.LevelNormal, models.LevelWarning, models.LevelCritical}

	for _, id := range machines {
		level := levels[s.rng.Intn(len(levels))]
		state := states[s.rng.Intn(len(states))]
		if level == models.LevelCritical {
			state = models.StateAlarm
		}
		statuses = append(statuses, models.MachineStatus{
			MachineID:  id,
			Status:     state,
			LastUpdate: s.now().Add(-time.Duration(s.rng.Float64() * float64(2 * time.Hour))),
			AlertLevel: level,
		})
	}
	return statuses
}

// Alerts synthesizes 0-4 alerts with timestamps within the last 24 hours,
// drawn from the fixed fault message catalog.
func (s *Synthesizer) Alerts() []models.Alert {
	machines := catalog.AllMachines()
	levels := []models.AlertLevel{models.LevelInfo, models.LevelWarning, models.LevelCritical}

	count := s.rng.Intn(5)
	alerts := make([]models.Alert, 0, count)
	for i := 0; i < count; i++ {
		alerts = append(alerts, models.Alert{
			ID:        uuid.NewString(),
			MachineID: machines[s.rng.Intn(len(machines))],
			Message:   catalog.AlertMessages[s.rng.Intn(len(catalog.AlertMessages))],
			Timestamp: s.now().Add(-time.Duration(s.rng.Float64() * float64(24 * time.Hour))),
			Level:     levels[s.rng.Intn(len(levels))],
		})
	}
	return alerts
}

// CriticalAlerts synthesizes alerts and keeps only the critical ones.
func (s *Synthesizer) CriticalAlerts() []models.Alert {
	all := s.Alerts()
	critical := make([]models.Alert, 0, len(all))
	for _, a := range all {
		if a.Level == models.LevelCritical {
			critical = append(critical, a)
		}
	}
	return critical
}

// KPISnapshot perturbs each KPI baseline by up to ±5% and derives the
// achievement rate from the perturbed value and the fixed target.
func (s *Synthesizer) KPISnapshot() map[string]models.KPIMetric {
	snapshot := make(map[string]models.KPIMetric)
	for key, base := range catalog.KPIBases() {
		value := base.Base + s.uniform(base.Base*0.05)
		snapshot[key] = models.KPIMetric{
			Value:           stats.Round1(value),
			Target:          base.Target,
			Unit:            base.Unit,
			AchievementRate: stats.AchievementRate(value, base.Target),
		}
	}
	return snapshot
}

// ProcessFlow synthesizes the per-stage snapshot for the factory-flow view.
func (s *Synthesizer) ProcessFlow() map[string]models.ProcessState {
	flow := make(map[string]models.ProcessState)
	for _, p := range catalog.Processes() {
		var state models.MachineState
		switch {
		case s.rng.Float64() > 0.8:
			state = models.StateAlarm
		case s.rng.Float64() > 0.3:
			state = models.StateRunning
		default:
			state = models.StateIdle
		}

		ps := models.ProcessState{Status: state}
		if state != models.StateIdle {
			ps.ActiveBatches = s.rng.Intn(3) + 1
		}
		if state == models.StateAlarm {
			ps.RecentAlerts = s.rng.Intn(3) + 1
		} else if s.rng.Float64() > 0.7 {
			ps.RecentAlerts = 1
		}
		flow[string(p)] = ps
	}
	return flow
}

// ActiveBatches synthesizes the mill-wide count of batches in flight.
func (s *Synthesizer) ActiveBatches() int {
	return s.rng.Intn(8) + 2
}

// SearchCriteria are the traceability search filters. Empty fields fall
// back to the demonstration lot chain.
type SearchCriteria struct {
	ProductLotID     string
	BatchID          string
	RawMaterialLotID string
}

// SearchResults synthesizes the product → batch → raw-material chain for a
// traceability search.
func (s *Synthesizer) SearchResults(c SearchCriteria) []models.SearchResult {
	productLot := c.ProductLotID
	if productLot == "" {
		productLot = demoProductLotID
	}
	batchID := c.BatchID
	if batchID == "" {
		batchID = demoBatchID
	}
	rawLotID := c.RawMaterialLotID
	if rawLotID == "" {
		rawLotID = demoRawLotID
	}

	now := s.now()
	return []models.SearchResult{
		{
			Type: "product",
			Data: map[string]interface{}{
				"product_lot_id": productLot,
				"product_code":   demoProductCode,
				"batch_id":       batchID,
				"completion_ts":  now.Add(-2 * time.Hour),
				"destination":    demoDestination,
				"quantity_kg":    demoProductKg,
			},
		},
		{
			Type: "batch",
			Data: map[string]interface{}{
				"batch_id":            batchID,
				"raw_material_lot_id": rawLotID,
				"creation_ts":         now.Add(-24 * time.Hour),
				"batch_type":          "Paper",
				"initial_quantity_kg": demoRawWeightKg * pulpingRetention,
			},
		},
		{
			Type: "raw_material",
			Data: map[string]interface{}{
				"lot_id":        rawLotID,
				"supplier_name": demoSupplier,
				"material_type": demoMaterial,
				"fsc_cert_id":   demoFSCCert,
				"arrival_ts":    now.Add(-48 * time.Hour),
				"weight_kg":     demoRawWeightKg,
			},
		},
	}
}
