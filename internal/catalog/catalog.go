// Package catalog is the static registry for the four mill processes:
// their quality parameters, machine assignments, KPI baselines and the
// fault message catalog. It is the single source of truth for
// target/tolerance pairs; synthesizers and handlers must read bands from
// here rather than hardcoding numbers.
package catalog

import "fmt"

// Process is a closed enumeration of the four pipeline stages.
type Process string

const (
	Pulping     Process = "P1"
	StockPrep   Process = "P2"
	PaperMaking Process = "P3"
	Finishing   Process = "P4"
)

// Processes lists all stages in pipeline order.
func Processes() []Process {
	return []Process{Pulping, StockPrep, PaperMaking, Finishing}
}

// ParseProcess validates a raw process code. Unknown codes are an explicit
// error at the API boundary, not a silent empty result.
func ParseProcess(code string) (Process, error) {
	switch Process(code) {
	case Pulping, StockPrep, PaperMaking, Finishing:
		return Process(code), nil
	}
	return "", fmt.Errorf("unknown process code %q", code)
}

// Name returns the human-readable stage name.
func (p Process) Name() string {
	switch p {
	case Pulping:
		return "Pulping"
	case StockPrep:
		return "Stock preparation"
	case PaperMaking:
		return "Paper making"
	case Finishing:
		return "Finishing"
	}
	return string(p)
}

// ParameterSpec is an immutable catalog entry for one quality parameter.
type ParameterSpec struct {
	Name      string  `json:"name"`
	Target    float64 `json:"target"`
	Tolerance float64 `json:"tolerance"`
	Unit      string  `json:"unit"`
	Label     string  `json:"label"`
}

// UpperLimit returns target + tolerance.
func (s ParameterSpec) UpperLimit() float64 { return s.Target + s.Tolerance }

// LowerLimit returns target - tolerance.
func (s ParameterSpec) LowerLimit() float64 { return s.Target - s.Tolerance }

var parameterMap = map[Process][]ParameterSpec{
	Pulping: {
		{Name: "kappa_number", Target: 15.0, Tolerance: 2.0, Unit: "", Label: "Kappa number"},
		{Name: "brightness", Target: 85.0, Tolerance: 3.0, Unit: "%", Label: "Brightness"},
	},
	StockPrep: {
		{Name: "freeness_csf", Target: 450.0, Tolerance: 50.0, Unit: "ml", Label: "Freeness (CSF)"},
		{Name: "consistency", Target: 3.5, Tolerance: 0.3, Unit: "%", Label: "Consistency"},
	},
	PaperMaking: {
		{Name: "basis_weight", Target: 80.0, Tolerance: 2.0, Unit: "g/m²", Label: "Basis weight"},
		{Name: "moisture_content", Target: 5.0, Tolerance: 0.5, Unit: "%", Label: "Moisture content"},
		{Name: "caliper", Target: 0.12, Tolerance: 0.01, Unit: "mm", Label: "Caliper"},
	},
	Finishing: {
		{Name: "smoothness", Target: 150.0, Tolerance: 20.0, Unit: "ml/min", Label: "Smoothness"},
		{Name: "tensile_strength", Target: 120.0, Tolerance: 15.0, Unit: "N·m/g", Label: "Tensile strength"},
	},
}

// ParametersFor returns the quality parameters of a process in catalog
// order. An unknown process yields an empty slice, never a panic.
func ParametersFor(p Process) []ParameterSpec {
	specs := parameterMap[p]
	out := make([]ParameterSpec, len(specs))
	copy(out, specs)
	return out
}

// ProcessForParameter returns the process owning a parameter name.
func ProcessForParameter(name string) (Process, bool) {
	for _, p := range Processes() {
		for _, spec := range parameterMap[p] {
			if spec.Name == name {
				return p, true
			}
		}
	}
	return "", false
}

var machineMap = map[Process][]string{
	Pulping:     {"DG-01", "DG-02"},
	StockPrep:   {"MC-01", "MC-02"},
	PaperMaking: {"PM-01", "PM-02"},
	Finishing:   {"RW-01", "RW-02", "SL-01"},
}

// MachinesFor returns the machine ids assigned to a process.
func MachinesFor(p Process) []string {
	ids := machineMap[p]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// AllMachines returns every machine id across the mill, in pipeline order.
func AllMachines() []string {
	var out []string
	for _, p := range Processes() {
		out = append(out, machineMap[p]...)
	}
	return out
}

// KPIBase defines the baseline and fixed target for one KPI key.
type KPIBase struct {
	Base   float64
	Target float64
	Unit   string
}

// KPIBases returns the six fixed KPI keys with their baselines.
func KPIBases() map[string]KPIBase {
	return map[string]KPIBase{
		"OEE":              {Base: 75.2, Target: 85.0, Unit: "%"},
		"FPY":              {Base: 92.1, Target: 95.0, Unit: "%"},
		"energy_intensity": {Base: 4.5, Target: 4.2, Unit: "GJ/t"},
		"yield_rate":       {Base: 96.3, Target: 98.0, Unit: "%"},
		"fsc_ratio":        {Base: 28.5, Target: 30.0, Unit: "%"},
		"production_rate":  {Base: 47.2, Target: 50.0, Unit: "t/h"},
	}
}

// AlertMessages is the fixed catalog of fault descriptions used by the
// alert synthesizer.
var AlertMessages = []string{
	"Wire vibration anomaly detected",
	"Digester temperature rising",
	"Motor current out of range",
	"Quality parameter deviation",
	"Stock feed rate below setpoint",
	"Sensor communication error",
}
