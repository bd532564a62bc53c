package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/iceplantengineering/paperplant/internal/catalog"
	"github.com/iceplantengineering/paperplant/internal/models"
	"github.com/iceplantengineering/paperplant/internal/stats"
)

// Fixed demonstration lot chain. The journey timeline and the traceability
// search both derive from these figures so the views stay consistent.
const (
	demoProductLotID = "FPL-0123"
	demoBatchID      = "PB-0456"
	demoRawLotID     = "RML-0089"
	demoProductCode  = "NP-80"
	demoDestination  = "Customer-05"
	demoSupplier     = "Hokkaido Timber"
	demoMaterial     = "wood chips"
	demoFSCCert      = "FSC-123456"
	demoRawWeightKg  = 25000.0
	demoProductKg    = 1250.5
	demoRollCount    = 12
)

// Stage retention fractions: each process keeps this share of the previous
// stage's mass, modelling yield loss through the line.
const (
	pulpingRetention   = 0.85
	stockRetention     = 0.98
	paperRetention     = 0.94
	finishingRetention = 0.99
)

// journeyStage describes one process execution within a lot journey.
type journeyStage struct {
	process       catalog.Process
	machineID     string
	operatorID    string
	startOffsetH  int
	durationH     int
	qualityChecks int
	retention     float64
}

var journeyStages = []journeyStage{
	{catalog.Pulping, "DG-01", "OP005", 22, 8, 12, pulpingRetention},
	{catalog.StockPrep, "MC-01", "OP012", 32, 4, 8, stockRetention},
	{catalog.PaperMaking, "PM-01", "OP007", 38, 12, 156, paperRetention},
	{catalog.Finishing, "RW-01", "OP018", 52, 6, 24, finishingRetention},
}

const (
	completionOffsetH = 60
	shipmentOffsetH   = 84
)

// Journey synthesizes the full lifecycle timeline of a lot: raw-material
// arrival, a start/end pair per process stage, product completion and
// shipment, with strictly increasing timestamps and monotonically
// decreasing stage output.
func (s *Synthesizer) Journey(lotID string) []models.TimelineEvent {
	base := s.now().Add(-(shipmentOffsetH + 12) * time.Hour).Truncate(time.Hour)

	timeline := make([]models.TimelineEvent, 0, 3+2*len(journeyStages))
	timeline = append(timeline, models.TimelineEvent{
		Timestamp:   base,
		EventType:   models.EventRawMaterialArrival,
		Title:       "Raw material arrival",
		Description: fmt.Sprintf("%s delivered from %s", demoMaterial, demoSupplier),
		Data: map[string]interface{}{
			"supplier": demoSupplier,
			"weight":   demoRawWeightKg,
			"fsc_cert": demoFSCCert,
		},
	})

	output := demoRawWeightKg
	for _, stage := range journeyStages {
		output = stats.Round1(output * stage.retention)

		timeline = append(timeline, models.TimelineEvent{
			Timestamp:   base.Add(time.Duration(stage.startOffsetH) * time.Hour),
			EventType:   models.EventProcessStart,
			Title:       stage.process.Name() + " started",
			Description: fmt.Sprintf("Machine: %s, operator: %s", stage.machineID, stage.operatorID),
			Data: map[string]interface{}{
				"machine_id":     stage.machineID,
				"operator_id":    stage.operatorID,
				"output_kg":      output,
				"quality_checks": stage.qualityChecks,
			},
		})
		timeline = append(timeline, models.TimelineEvent{
			Timestamp:   base.Add(time.Duration(stage.startOffsetH+stage.durationH) * time.Hour),
			EventType:   models.EventProcessEnd,
			Title:       stage.process.Name() + " completed",
			Description: fmt.Sprintf("Output: %.1fkg", output),
			Data: map[string]interface{}{
				"duration_hours": float64(stage.durationH),
				"output_kg":      output,
			},
		})
	}

	timeline = append(timeline, models.TimelineEvent{
		Timestamp:   base.Add(completionOffsetH * time.Hour),
		EventType:   models.EventProductCompletion,
		Title:       "Product completion",
		Description: "Product: " + demoProductCode,
		Data: map[string]interface{}{
			"product_code": demoProductCode,
			"quantity_kg":  demoProductKg,
			"roll_count":   demoRollCount,
		},
	})
	timeline = append(timeline, models.TimelineEvent{
		Timestamp:   base.Add(shipmentOffsetH * time.Hour),
		EventType:   models.EventShipment,
		Title:       "Shipment",
		Description: "Destination: " + demoDestination,
		Data: map[string]interface{}{
			"destination": demoDestination,
			"quantity_kg": demoProductKg,
		},
	})

	return timeline
}

// BatchIDFor maps a searched lot id to the batch behind it. Product lots
// resolve to the demonstration batch; batch ids pass through.
func BatchIDFor(lotID string) string {
	if strings.HasPrefix(lotID, "PB-") {
		return lotID
	}
	return demoBatchID
}

// Yield computes final/initial mass as a percentage from a timeline. The
// second return value is false when the arrival or completion event is
// missing; callers must treat that as "yield not computable" rather than
// zero.
func Yield(timeline []models.TimelineEvent) (models.YieldSummary, bool) {
	var initial, final float64
	var haveInitial, haveFinal bool

	for _, ev := range timeline {
		switch ev.EventType {
		case models.EventRawMaterialArrival:
			if w, ok := ev.Data["weight"].(float64); ok {
				initial = w
				haveInitial = true
			}
		case models.EventProductCompletion:
			if q, ok := ev.Data["quantity_kg"].(float64); ok {
				final = q
				haveFinal = true
			}
		}
	}

	if !haveInitial || !haveFinal || initial <= 0 {
		return models.YieldSummary{}, false
	}
	return models.YieldSummary{
		InitialKg: initial,
		FinalKg:   final,
		YieldPct:  final / initial * 100,
	}, true
}
