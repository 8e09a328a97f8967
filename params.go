package lumen

import (
	"encoding/json"
	"fmt"
	"math"
)

// ParamSet is a typed parameter dictionary in the style of a renderer scene
// description. Lookups take a default so missing keys are never an error.
type ParamSet struct {
	floats       map[string]float32
	ints         map[string]int
	strings      map[string]string
	stringArrays map[string][]string
}

func NewParamSet() *ParamSet {
	return &ParamSet{
		floats:       make(map[string]float32),
		ints:         make(map[string]int),
		strings:      make(map[string]string),
		stringArrays: make(map[string][]string),
	}
}

func (p *ParamSet) AddFloat(name string, v float32) *ParamSet {
	p.floats[name] = v
	return p
}

func (p *ParamSet) AddInt(name string, v int) *ParamSet {
	p.ints[name] = v
	return p
}

func (p *ParamSet) AddString(name string, v string) *ParamSet {
	p.strings[name] = v
	return p
}

func (p *ParamSet) AddStringArray(name string, v []string) *ParamSet {
	p.stringArrays[name] = v
	return p
}

func (p *ParamSet) GetOneFloat(name string, def float32) float32 {
	if v, ok := p.floats[name]; ok {
		return v
	}
	// Tolerate integer-typed values for float parameters.
	if v, ok := p.ints[name]; ok {
		return float32(v)
	}
	return def
}

func (p *ParamSet) GetOneInt(name string, def int) int {
	if v, ok := p.ints[name]; ok {
		return v
	}
	return def
}

func (p *ParamSet) GetOneString(name string, def string) string {
	if v, ok := p.strings[name]; ok {
		return v
	}
	return def
}

// GetStringArray returns nil for missing keys.
func (p *ParamSet) GetStringArray(name string) []string {
	return p.stringArrays[name]
}

// ParamSetFromJSON decodes a flat JSON object into a ParamSet. Integral
// numbers land in the int table, other numbers in the float table; arrays
// must hold strings only.
func ParamSetFromJSON(data []byte) (*ParamSet, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode param set: %w", err)
	}
	p := NewParamSet()
	for name, v := range raw {
		switch val := v.(type) {
		case float64:
			if val == math.Trunc(val) {
				p.AddInt(name, int(val))
			} else {
				p.AddFloat(name, float32(val))
			}
		case string:
			p.AddString(name, val)
		case []any:
			arr := make([]string, 0, len(val))
			for _, e := range val {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("param %q: array elements must be strings, got %T", name, e)
				}
				arr = append(arr, s)
			}
			p.AddStringArray(name, arr)
		case bool:
			// Booleans map onto the int table.
			iv := 0
			if val {
				iv = 1
			}
			p.AddInt(name, iv)
		default:
			return nil, fmt.Errorf("param %q: unsupported value type %T", name, v)
		}
	}
	return p, nil
}
