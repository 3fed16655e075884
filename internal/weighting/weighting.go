// Package weighting supplies per-provider weights for match aggregation.
package weighting

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// Weighting methods
const (
	MethodEqual   = "equal"
	MethodSoftmax = "softmax"
	MethodInverse = "inverse"
)

// Equal gives every contributing provider weight 1/N
type Equal struct{}

// ComputeWeights implements contracts.WeightProvider
func (Equal) ComputeWeights(providerIDs []string) models.WeightMap {
	return equalWeights(providerIDs)
}

func equalWeights(providerIDs []string) models.WeightMap {
	ids := distinct(providerIDs)
	weights := make(models.WeightMap, len(ids))
	if len(ids) == 0 {
		return weights
	}

	w := 1.0 / float64(len(ids))
	for _, id := range ids {
		weights[id] = w
	}
	return weights
}

// Performance is a provider's historical prediction accuracy
type Performance struct {
	BrierScore float64 `yaml:"brier_score" json:"brier_score"` // lower is better
	Samples    int     `yaml:"samples" json:"samples"`
}

// Accuracy weights providers by historical Brier score.
//
// Base weights come from a softmax over negative scores or from inverse
// scores. Providers with fewer than MinSamples settled predictions are
// scaled down linearly, every weight is clamped to [Floor, Ceiling], and the
// result is renormalized. Providers without performance data get the mean
// base weight of the known providers before constraints apply. When no
// provider has data the weights are equal.
type Accuracy struct {
	Method      string
	Temperature float64
	Floor       float64
	Ceiling     float64
	MinSamples  int
	Scores      map[string]Performance
}

// NewAccuracy validates the method and fills defaults
func NewAccuracy(method string, temperature, floor, ceiling float64, minSamples int, scores map[string]Performance) (*Accuracy, error) {
	if method != MethodSoftmax && method != MethodInverse {
		return nil, fmt.Errorf("unknown weighting method: %s", method)
	}
	if temperature <= 0 {
		temperature = 1.0
	}
	if ceiling <= 0 {
		ceiling = 1.0
	}
	if floor < 0 || floor > ceiling {
		return nil, fmt.Errorf("invalid weight bounds: floor %.2f, ceiling %.2f", floor, ceiling)
	}

	return &Accuracy{
		Method:      method,
		Temperature: temperature,
		Floor:       floor,
		Ceiling:     ceiling,
		MinSamples:  minSamples,
		Scores:      scores,
	}, nil
}

// ComputeWeights implements contracts.WeightProvider
func (a *Accuracy) ComputeWeights(providerIDs []string) models.WeightMap {
	ids := distinct(providerIDs)

	known := make(map[string]float64)
	for _, id := range ids {
		if perf, ok := a.Scores[id]; ok {
			known[id] = perf.BrierScore
		}
	}
	if len(known) == 0 {
		return equalWeights(ids)
	}

	var base map[string]float64
	if a.Method == MethodSoftmax {
		base = SoftmaxWeights(known, a.Temperature)
	} else {
		base = InverseScoreWeights(known)
	}

	mean := 1.0 / float64(len(known))
	weights := make(models.WeightMap, len(ids))
	for _, id := range ids {
		w, ok := base[id]
		if !ok {
			w = mean
		}
		weights[id] = w
	}

	return a.constrain(weights)
}

func (a *Accuracy) constrain(weights models.WeightMap) models.WeightMap {
	total := 0.0
	for id, w := range weights {
		if a.MinSamples > 0 {
			samples := a.Scores[id].Samples
			if _, ok := a.Scores[id]; ok && samples < a.MinSamples {
				w *= float64(samples) / float64(a.MinSamples)
			}
		}
		w = math.Max(a.Floor, math.Min(a.Ceiling, w))
		weights[id] = w
		total += w
	}

	if total <= 0 {
		ids := make([]string, 0, len(weights))
		for id := range weights {
			ids = append(ids, id)
		}
		return equalWeights(ids)
	}

	for id, w := range weights {
		weights[id] = w / total
	}
	return weights
}

// SoftmaxWeights turns Brier scores into weights with a softmax over the
// negative scores. Higher temperature gives more uniform weights.
func SoftmaxWeights(scores map[string]float64, temperature float64) map[string]float64 {
	if len(scores) == 0 {
		return map[string]float64{}
	}
	if temperature <= 0 {
		temperature = 1.0
	}

	maxNeg := math.Inf(-1)
	for _, s := range scores {
		maxNeg = math.Max(maxNeg, -s/temperature)
	}

	exp := make(map[string]float64, len(scores))
	total := 0.0
	for id, s := range scores {
		e := math.Exp(-s/temperature - maxNeg)
		exp[id] = e
		total += e
	}

	for id, e := range exp {
		exp[id] = e / total
	}
	return exp
}

// InverseScoreWeights weights providers by 1/score, normalized
func InverseScoreWeights(scores map[string]float64) map[string]float64 {
	const epsilon = 1e-8

	weights := make(map[string]float64, len(scores))
	total := 0.0
	for id, s := range scores {
		w := 1.0 / (s + epsilon)
		weights[id] = w
		total += w
	}

	for id, w := range weights {
		weights[id] = w / total
	}
	return weights
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// New returns the weight provider for method. Performance data is only used
// by the accuracy methods.
func New(method string, temperature, floor, ceiling float64, minSamples int, scores map[string]Performance) (contracts.WeightProvider, error) {
	if method == "" || method == MethodEqual {
		return Equal{}, nil
	}

	a, err := NewAccuracy(method, temperature, floor, ceiling, minSamples, scores)
	if err != nil {
		return nil, err
	}
	return a, nil
}
