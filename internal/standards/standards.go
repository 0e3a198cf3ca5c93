// Package standards holds the regulatory limits that charts are compared against.
package standards

import (
	"strconv"
	"strings"
)

// Monitoring types.
const (
	Air   = "air"
	Noise = "noise"
)

// Limit is a regulatory threshold for one measured parameter.
type Limit struct {
	Value     float64 `json:"value" yaml:"value"`
	Unit      string  `json:"unit" yaml:"unit"`
	Averaging string  `json:"averaging,omitempty" yaml:"averaging,omitempty"`
}

// Label renders the limit as "200 µg/m³".
func (l Limit) Label() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Unit == "" {
		return v
	}
	return v + " " + l.Unit
}

// Standards maps monitoring type to parameter to limit. Parameter lookups are
// case-insensitive.
type Standards map[string]map[string]Limit

// Defaults returns the built-in ambient air and noise limits.
func Defaults() Standards {
	return Standards{
		Air: {
			"CO":    {Value: 10000, Unit: "µg/m³", Averaging: "8 hours"},
			"O3":    {Value: 157, Unit: "µg/m³", Averaging: "8 hours"},
			"NO2":   {Value: 200, Unit: "µg/m³", Averaging: "1 hour"},
			"SO2":   {Value: 441, Unit: "µg/m³", Averaging: "1 hour"},
			"PM2.5": {Value: 35, Unit: "µg/m³", Averaging: "24 hours"},
			"PM10":  {Value: 340, Unit: "µg/m³", Averaging: "24 hours"},
		},
		Noise: {
			"EQ": {Value: 70, Unit: "dB(A)", Averaging: "LAeq"},
		},
	}
}

// Lookup returns the limit for a parameter of the given monitoring type.
func (s Standards) Lookup(monitoringType, parameter string) (Limit, bool) {
	params, ok := s[strings.ToLower(monitoringType)]
	if !ok {
		return Limit{}, false
	}
	if l, ok := params[parameter]; ok {
		return l, true
	}
	for name, l := range params {
		if strings.EqualFold(name, parameter) {
			return l, true
		}
	}
	return Limit{}, false
}

// Merge returns a copy of s with entries from overrides replacing or adding
// individual parameters.
func (s Standards) Merge(overrides Standards) Standards {
	out := make(Standards, len(s))
	for typ, params := range s {
		out[typ] = make(map[string]Limit, len(params))
		for name, l := range params {
			out[typ][name] = l
		}
	}
	for typ, params := range overrides {
		typ = strings.ToLower(typ)
		if out[typ] == nil {
			out[typ] = make(map[string]Limit, len(params))
		}
		for name, l := range params {
			out[typ][name] = l
		}
	}
	return out
}
