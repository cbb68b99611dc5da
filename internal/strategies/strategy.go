package strategies

import (
	"fmt"
	"math"
)

// Strategy is the contract every valuation model implements.
//
// Run computes a fair value PRICE per share from a parameter map holding the
// ticker's fetched metrics plus hyperparameters. Implementations are pure:
// no I/O, no clock reads, no shared state. When required inputs are missing
// or the model is not applicable (e.g. negative EPS for an earnings
// multiple), Run returns an *InputError instead of a sentinel or NaN.
type Strategy interface {
	Name() string
	Run(params Params) (float64, error)
}

// Params carries the inputs for one strategy invocation: fetched metrics
// (float64 values under canonical keys), the strategy's default
// hyperparameters, and any runtime overrides. Each invocation owns its map.
type Params map[string]any

// InputError marks a recoverable, per-(ticker, strategy) failure: missing
// required metric, invalid numeric domain, or a degenerate configuration.
// The process stage records it as "no fair value" and moves on.
type InputError struct {
	Strategy string
	Reason   string
}

func (e *InputError) Error() string {
	if e.Strategy == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Strategy, e.Reason)
}

func inputErr(strategy, format string, args ...any) *InputError {
	return &InputError{Strategy: strategy, Reason: fmt.Sprintf(format, args...)}
}

// toFloat coerces a parameter value to a finite float64.
// NaN and infinities are treated as unavailable.
func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// reqFloat fetches a required numeric input or fails with an InputError.
func reqFloat(name string, p Params, key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, inputErr(name, "missing required input: '%s'", key)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, inputErr(name, "input '%s' must be numeric", key)
	}
	return f, nil
}

// optFloat fetches an optional numeric input.
func optFloat(p Params, key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// floatOr fetches a numeric hyperparameter, falling back to def when the key
// is absent or not a finite number.
func floatOr(p Params, key string, def float64) float64 {
	if f, ok := optFloat(p, key); ok {
		return f
	}
	return def
}

// intOr fetches an integer hyperparameter (horizon years and the like).
func intOr(p Params, key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return def
		}
		return int(x)
	default:
		return def
	}
}

// boolOr fetches a boolean policy switch.
func boolOr(p Params, key string, def bool) bool {
	if v, ok := p[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// stringOr fetches a string policy value.
func stringOr(p Params, key string, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

// clamp bounds v to [lo, hi]. Every tunable passes through here before use
// so out-of-range configuration is corrected, not rejected.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
