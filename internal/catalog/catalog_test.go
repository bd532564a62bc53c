package catalog

import "testing"

func TestParseProcess(t *testing.T) {
	for _, code := range []string{"P1", "P2", "P3", "P4"} {
		p, err := ParseProcess(code)
		if err != nil {
			t.Errorf("ParseProcess(%q) returned error: %v", code, err)
		}
		if string(p) != code {
			t.Errorf("ParseProcess(%q) = %q", code, p)
		}
	}
}

func TestParseProcess_Unknown(t *testing.T) {
	for _, code := range []string{"P5", "p1", "", "pulping"} {
		if _, err := ParseProcess(code); err == nil {
			t.Errorf("ParseProcess(%q) should fail", code)
		}
	}
}

func TestParametersFor_Bands(t *testing.T) {
	for _, p := range Processes() {
		specs := ParametersFor(p)
		if len(specs) < 2 || len(specs) > 3 {
			t.Errorf("%s: expected 2-3 parameters, got %d", p, len(specs))
		}
		for _, spec := range specs {
			if spec.Tolerance <= 0 {
				t.Errorf("%s/%s: tolerance must be positive, got %f", p, spec.Name, spec.Tolerance)
			}
			if !(spec.LowerLimit() < spec.Target && spec.Target < spec.UpperLimit()) {
				t.Errorf("%s/%s: band invariant violated: %f < %f < %f",
					p, spec.Name, spec.LowerLimit(), spec.Target, spec.UpperLimit())
			}
		}
	}
}

func TestParametersFor_Unknown(t *testing.T) {
	specs := ParametersFor(Process("P9"))
	if len(specs) != 0 {
		t.Errorf("Expected empty parameter list for unknown process, got %d entries", len(specs))
	}
}

func TestProcessForParameter(t *testing.T) {
	p, ok := ProcessForParameter("basis_weight")
	if !ok || p != PaperMaking {
		t.Errorf("ProcessForParameter(basis_weight) = %q, %v; want P3, true", p, ok)
	}

	if _, ok := ProcessForParameter("no_such_parameter"); ok {
		t.Error("ProcessForParameter should not resolve unknown names")
	}
}

func TestMachinesFor(t *testing.T) {
	for _, p := range Processes() {
		machines := MachinesFor(p)
		if len(machines) < 2 || len(machines) > 3 {
			t.Errorf("%s: expected 2-3 machines, got %d", p, len(machines))
		}
	}

	if got := len(AllMachines()); got != 9 {
		t.Errorf("Expected 9 machines across the mill, got %d", got)
	}
}

func TestKPIBases(t *testing.T) {
	bases := KPIBases()
	if len(bases) != 6 {
		t.Fatalf("Expected 6 KPI keys, got %d", len(bases))
	}
	for _, key := range []string{"OEE", "FPY", "energy_intensity", "yield_rate", "fsc_ratio", "production_rate"} {
		base, ok := bases[key]
		if !ok {
			t.Errorf("Missing KPI key %q", key)
			continue
		}
		if base.Target <= 0 {
			t.Errorf("%s: target must be positive, got %f", key, base.Target)
		}
	}
}

func TestParametersFor_Isolation(t *testing.T) {
	// Catalog entries are immutable; mutating a returned slice must not
	// leak into subsequent lookups.
	specs := ParametersFor(PaperMaking)
	specs[0].Target = -1

	again := ParametersFor(PaperMaking)
	if again[0].Target == -1 {
		t.Error("ParametersFor returned shared backing storage")
	}
}
