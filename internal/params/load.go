package params

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadFile reads a dotenv-style preset (KEY=value per line) and applies it over
// base. Keys are case-insensitive; per-cascade keys carry the cascade index as
// a suffix, e.g. lengthscale1=37 or cutoff_high2=15. A path of "-" reads
// standard input.
func LoadFile(path string, base Params) (Params, error) {
	if path == "-" {
		return Load(os.Stdin, base)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return base, fmt.Errorf("reading preset %q: %w", path, err)
	}
	p, err := Apply(base, values)
	if err != nil {
		return base, fmt.Errorf("applying preset %q: %w", path, err)
	}
	return p, nil
}

// Load parses a preset from r and applies it over base.
func Load(r io.Reader, base Params) (Params, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return base, fmt.Errorf("parsing preset: %w", err)
	}
	return Apply(base, values)
}

// Apply overrides fields of base with the recognized keys in values and
// validates the result. Unknown keys are an error so typos do not silently
// fall back to defaults.
func Apply(base Params, values map[string]string) (Params, error) {
	p := base.Clone()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// cascades= must resize the slice before indexed keys are applied.
	sort.SliceStable(keys, func(i, j int) bool {
		return strings.EqualFold(keys[i], "cascades") && !strings.EqualFold(keys[j], "cascades")
	})

	for _, rawKey := range keys {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		val := strings.TrimSpace(values[rawKey])
		if err := p.set(key, val); err != nil {
			return base, err
		}
	}
	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}

func (p *Params) set(key, val string) error {
	if name, idx, ok := splitCascadeKey(key); ok {
		if idx >= len(p.Cascades) {
			return fmt.Errorf("params: %s refers to cascade %d but only %d configured", key, idx, len(p.Cascades))
		}
		f, err := parseFloat(key, val)
		if err != nil {
			return err
		}
		c := &p.Cascades[idx]
		switch name {
		case "lengthscale":
			c.Lengthscale = f
		case "cutoff_low":
			c.CutoffLow = f
		case "cutoff_high":
			c.CutoffHigh = f
		case "scale_factor":
			c.ScaleFactor = f
		}
		return nil
	}

	var err error
	switch key {
	case "cascades":
		var n int
		if n, err = strconv.Atoi(val); err == nil {
			p.resizeCascades(n)
		}
	case "size":
		p.Size, err = strconv.Atoi(val)
	case "instances":
		p.Instances, err = strconv.Atoi(val)
	case "seed":
		p.Seed, err = strconv.ParseUint(val, 10, 64)
	case "renormalize":
		p.Renormalize, err = strconv.ParseBool(val)
	default:
		dst, ok := p.floatField(key)
		if !ok {
			return fmt.Errorf("params: unknown key %q", key)
		}
		*dst, err = parseFloat(key, val)
	}
	if err != nil {
		return fmt.Errorf("params: %s=%q: %w", key, val, err)
	}
	return nil
}

func (p *Params) floatField(key string) (*float64, bool) {
	fields := map[string]*float64{
		"depth":                 &p.Depth,
		"gravity":               &p.Gravity,
		"wind_speed":            &p.WindSpeed,
		"wind_offset":           &p.WindOffset,
		"fetch":                 &p.Fetch,
		"swell":                 &p.Swell,
		"beta":                  &p.Beta,
		"gamma":                 &p.Gamma,
		"choppiness":            &p.Choppiness,
		"foam_bias":             &p.FoamBias,
		"foam_decay":            &p.FoamDecay,
		"injection_threshold":   &p.InjectionThreshold,
		"injection_amount":      &p.InjectionAmount,
		"integration_step":      &p.IntegrationStep,
		"instance_micro_offset": &p.InstanceMicroOffset,
		"mesh_step":             &p.MeshStep,
	}
	dst, ok := fields[key]
	return dst, ok
}

// resizeCascades grows by repeating the last band or truncates.
func (p *Params) resizeCascades(n int) {
	if n < 0 {
		n = 0
	}
	for len(p.Cascades) < n {
		last := Cascade{Lengthscale: 100, CutoffLow: 0.0001, CutoffHigh: 15, ScaleFactor: 1}
		if len(p.Cascades) > 0 {
			last = p.Cascades[len(p.Cascades)-1]
		}
		p.Cascades = append(p.Cascades, last)
	}
	p.Cascades = p.Cascades[:n]
}

var cascadeKeys = []string{"lengthscale", "cutoff_low", "cutoff_high", "scale_factor"}

func splitCascadeKey(key string) (string, int, bool) {
	for _, name := range cascadeKeys {
		suffix, ok := strings.CutPrefix(key, name)
		if !ok || suffix == "" {
			continue
		}
		idx, err := strconv.Atoi(suffix)
		if err != nil || idx < 0 {
			continue
		}
		return name, idx, true
	}
	return "", 0, false
}

func parseFloat(key, val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("params: %s=%q: %w", key, val, err)
	}
	return f, nil
}
