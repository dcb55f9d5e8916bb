package config

// Presets are named option sets selectable from the CLI. "default" mirrors
// the fixed direct-solve configuration UseDefaults pins.
var Presets = map[string]*Config{
	"default": {
		AbsTol: DefaultAbsTol, RelTol: DefaultRelTol, StepTol: DefaultStepTol,
		MaxIterations: DefaultMaxIterations, MaxBacktracks: DefaultMaxBacktracks,
		Scaling: DefaultScaling, Jacobian: JacobianAnalytic, Backend: "lu",
		UseDefaults: true,
	},
	"fd": {
		AbsTol: DefaultAbsTol, RelTol: DefaultRelTol, StepTol: DefaultStepTol,
		MaxIterations: DefaultMaxIterations, MaxBacktracks: DefaultMaxBacktracks,
		Scaling: DefaultScaling, Jacobian: JacobianFD, Backend: "lu",
	},
	"stiff": {
		AbsTol: 1e-4, RelTol: 1e-8, StepTol: 1e-8,
		MaxIterations: 200, MaxBacktracks: 40,
		Scaling: 1e-3, Jacobian: JacobianAnalytic, Backend: "qr",
	},
}

// GetPreset returns a copy of the named preset, nil when unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *p
	return &out
}
