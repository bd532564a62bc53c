package synth

import (
	"math"
	"testing"
	"time"

	"github.com/iceplantengineering/paperplant/internal/catalog"
	"github.com/iceplantengineering/paperplant/internal/models"
)

var testClock = func() time.Time {
	return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
}

func newTestSynth(seed int64) *Synthesizer {
	return NewWithClock(seed, testClock)
}

func TestTimeSeries_CountAndOrder(t *testing.T) {
	s := newTestSynth(1)
	hours := 24
	readings := s.TimeSeries(catalog.PaperMaking, hours)

	params := catalog.ParametersFor(catalog.PaperMaking)
	want := hours * PointsPerHour * len(params)
	if len(readings) != want {
		t.Fatalf("Expected %d readings, got %d", want, len(readings))
	}

	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.Before(readings[i-1].Timestamp) {
			t.Fatalf("Readings out of order at index %d", i)
		}
	}
}

func TestTimeSeries_BandInvariants(t *testing.T) {
	s := newTestSynth(2)
	for _, p := range catalog.Processes() {
		for _, r := range s.TimeSeries(p, 4) {
			if !(r.LowerLimit < r.Target && r.Target < r.UpperLimit) {
				t.Fatalf("%s/%s: band invariant violated: %f < %f < %f",
					p, r.Parameter, r.LowerLimit, r.Target, r.UpperLimit)
			}
			if r.Value < 0 {
				t.Fatalf("%s/%s: negative value %f", p, r.Parameter, r.Value)
			}
			wantOK := r.Value >= r.LowerLimit && r.Value <= r.UpperLimit
			if r.IsOK != wantOK {
				t.Fatalf("%s/%s: is_ok=%v inconsistent with band test", p, r.Parameter, r.IsOK)
			}
		}
	}
}

func TestTimeSeries_SeedReproducible(t *testing.T) {
	a := newTestSynth(7).TimeSeries(catalog.Pulping, 2)
	b := newTestSynth(7).TimeSeries(catalog.Pulping, 2)

	if len(a) != len(b) {
		t.Fatalf("Length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Value != b[i].Value || !a[i].Timestamp.Equal(b[i].Timestamp) {
			t.Fatalf("Readings diverge at index %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestTimeSeries_CDProfileOnlySheetForming(t *testing.T) {
	s := newTestSynth(3)
	for _, r := range s.TimeSeries(catalog.PaperMaking, 1) {
		sheetForming := r.Parameter == "basis_weight" || r.Parameter == "moisture_content"
		if sheetForming && len(r.CDProfile) != CrossProfilePoints {
			t.Fatalf("%s: expected %d-point profile, got %d", r.Parameter, CrossProfilePoints, len(r.CDProfile))
		}
		if !sheetForming && r.CDProfile != nil {
			t.Fatalf("%s: unexpected profile on non-sheet-forming parameter", r.Parameter)
		}
	}

	for _, r := range s.TimeSeries(catalog.Pulping, 1) {
		if r.CDProfile != nil {
			t.Fatalf("%s: pulping readings must not carry a profile", r.Parameter)
		}
	}
}

func TestTimeSeries_UnknownProcessEmpty(t *testing.T) {
	s := newTestSynth(4)
	if got := s.TimeSeries(catalog.Process("P9"), 24); len(got) != 0 {
		t.Errorf("Expected no readings for unknown process, got %d", len(got))
	}
}

func TestCrossProfile_PointCount(t *testing.T) {
	s := newTestSynth(5)
	for i := 0; i < 20; i++ {
		profile := s.CrossProfile(80.0, 2.0)
		if len(profile) != 50 {
			t.Fatalf("Expected exactly 50 profile points, got %d", len(profile))
		}
	}
}

func TestCrossProfile_Bounded(t *testing.T) {
	s := newTestSynth(6)
	basis, tolerance := 80.0, 2.0
	// Systematic term is bounded by tol/6, jitter by tol/8.
	maxDeviation := tolerance/6 + tolerance/8 + 1e-9

	for _, v := range s.CrossProfile(basis, tolerance) {
		if math.Abs(v-basis) > maxDeviation {
			t.Fatalf("Profile value %f deviates more than %f from basis", v, maxDeviation)
		}
	}
}

func TestMachineStatuses_Coherence(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		s := newTestSynth(seed)
		for _, p := range catalog.Processes() {
			statuses := s.MachineStatuses(p)
			if len(statuses) != len(catalog.MachinesFor(p)) {
				t.Fatalf("%s: expected %d statuses, got %d", p, len(catalog.MachinesFor(p)), len(statuses))
			}
			for _, ms := range statuses {
				if ms.AlertLevel == models.LevelCritical && ms.Status != models.StateAlarm {
					t.Fatalf("%s/%s: critical alert level with status %s", p, ms.MachineID, ms.Status)
				}
				if ms.LastUpdate.After(testClock()) {
					t.Fatalf("%s/%s: last_update in the future", p, ms.MachineID)
				}
			}
		}
	}
}

func TestAlerts_Bounds(t *testing.T) {
	dayAgo := testClock().Add(-24 * time.Hour)

	for seed := int64(0); seed < 50; seed++ {
		alerts := newTestSynth(seed).Alerts()
		if len(alerts) > 4 {
			t.Fatalf("Expected at most 4 alerts, got %d", len(alerts))
		}
		for _, a := range alerts {
			if a.ID == "" {
				t.Fatal("Alert without id")
			}
			if a.Timestamp.Before(dayAgo) || a.Timestamp.After(testClock()) {
				t.Fatalf("Alert timestamp %v outside trailing 24h window", a.Timestamp)
			}
			switch a.Level {
			case models.LevelInfo, models.LevelWarning, models.LevelCritical:
			default:
				t.Fatalf("Unexpected alert level %q", a.Level)
			}
		}
	}
}

func TestCriticalAlerts_OnlyCritical(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		for _, a := range newTestSynth(seed).CriticalAlerts() {
			if a.Level != models.LevelCritical {
				t.Fatalf("Non-critical alert %q in critical list", a.Level)
			}
		}
	}
}

func TestKPISnapshot(t *testing.T) {
	snapshot := newTestSynth(8).KPISnapshot()
	if len(snapshot) != 6 {
		t.Fatalf("Expected 6 KPIs, got %d", len(snapshot))
	}

	for key, base := range catalog.KPIBases() {
		kpi, ok := snapshot[key]
		if !ok {
			t.Fatalf("Missing KPI %q", key)
		}
		// Perturbation is at most ±5% of the baseline (plus rounding).
		if math.Abs(kpi.Value-base.Base) > base.Base*0.05+0.05 {
			t.Errorf("%s: value %f too far from baseline %f", key, kpi.Value, base.Base)
		}
		if kpi.Target != base.Target || kpi.Unit != base.Unit {
			t.Errorf("%s: target/unit drifted from catalog", key)
		}
		recomputed := kpi.Value / kpi.Target * 100
		if math.Abs(kpi.AchievementRate-recomputed) > 1.5 {
			t.Errorf("%s: achievement rate %f inconsistent with value/target (%f)",
				key, kpi.AchievementRate, recomputed)
		}
	}
}

func TestProcessFlow(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		flow := newTestSynth(seed).ProcessFlow()
		if len(flow) != 4 {
			t.Fatalf("Expected 4 processes, got %d", len(flow))
		}
		for code, state := range flow {
			if state.Status == models.StateIdle && state.ActiveBatches != 0 {
				t.Fatalf("%s: idle process with %d active batches", code, state.ActiveBatches)
			}
			if state.Status == models.StateAlarm && state.RecentAlerts == 0 {
				t.Fatalf("%s: alarm process without recent alerts", code)
			}
		}
	}
}

func TestActiveBatches_Range(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		n := newTestSynth(seed).ActiveBatches()
		if n < 2 || n > 9 {
			t.Fatalf("Active batches %d outside [2,9]", n)
		}
	}
}

func TestSearchResults_Chain(t *testing.T) {
	s := newTestSynth(9)
	results := s.SearchResults(SearchCriteria{ProductLotID: "FPL-9999"})

	if len(results) != 3 {
		t.Fatalf("Expected product/batch/raw_material chain, got %d results", len(results))
	}
	wantTypes := []string{"product", "batch", "raw_material"}
	for i, want := range wantTypes {
		if results[i].Type != want {
			t.Errorf("Result %d: type %q, want %q", i, results[i].Type, want)
		}
	}
	if got := results[0].Data["product_lot_id"]; got != "FPL-9999" {
		t.Errorf("Search did not echo the requested lot id, got %v", got)
	}
	// The chain must link product -> batch -> raw material.
	if results[0].Data["batch_id"] != results[1].Data["batch_id"] {
		t.Error("Product and batch entries disagree on batch_id")
	}
	if results[1].Data["raw_material_lot_id"] != results[2].Data["lot_id"] {
		t.Error("Batch and raw material entries disagree on lot id")
	}
}

func BenchmarkTimeSeries24h(b *testing.B) {
	s := New(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.TimeSeries(catalog.PaperMaking, 24)
	}
}

func BenchmarkCrossProfile(b *testing.B) {
	s := New(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.CrossProfile(80.0, 2.0)
	}
}
