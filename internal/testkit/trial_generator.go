package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/core"
)

// enrollmentStart anchors the synthetic enrollment timeline so
// generated cohorts are reproducible byte for byte.
var enrollmentStart = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

// TrialGeneratorConfig configures the synthetic trial cohort generator
type TrialGeneratorConfig struct {
	SubjectsPerArm int       `json:"subjects_per_arm"`
	Arms           []string  `json:"arms"`
	ResponseRates  []float64 `json:"response_rates"` // per arm, same order
	Seed           int64     `json:"seed"`
}

// DefaultTrialConfig returns sensible defaults for a two-arm trial
func DefaultTrialConfig() TrialGeneratorConfig {
	return TrialGeneratorConfig{
		SubjectsPerArm: 100,
		Arms:           []string{"Placebo", "Drug 1"},
		ResponseRates:  []float64{0.30, 0.55},
		Seed:           42,
	}
}

// TrialGenerator generates a deterministic synthetic trial cohort
type TrialGenerator struct {
	config TrialGeneratorConfig
	rng    *rand.Rand
}

// NewTrialGenerator creates a trial generator
func NewTrialGenerator(config TrialGeneratorConfig) *TrialGenerator {
	return &TrialGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Variables returns the descriptors for the generated columns, in
// declaration order.
func (g *TrialGenerator) Variables() []cohort.Variable {
	return []cohort.Variable{
		{Key: "age", Label: "Age", Unit: "years", Type: cohort.TypeContinuous},
		{Key: "sex", Label: "Sex", Type: cohort.TypeCategorical},
		{Key: "weight", Label: "Weight", Unit: "kg", Type: cohort.TypeContinuous},
		{Key: "stage", Label: "Disease Stage", Type: cohort.TypeCategorical},
		{Key: "response", Label: "Tumor Response", Type: cohort.TypeCategorical},
	}
}

// ResponseVariable returns the binary response descriptor.
func (g *TrialGenerator) ResponseVariable() cohort.Variable {
	return cohort.Variable{Key: "response", Label: "Tumor Response", Type: cohort.TypeCategorical}
}

// SubgroupVariable returns the stratification descriptor.
func (g *TrialGenerator) SubgroupVariable() cohort.Variable {
	return cohort.Variable{Key: "stage", Label: "Disease Stage", Type: cohort.TypeCategorical}
}

// Generate produces the full cohort, subjects interleaved across arms
// in enrollment order.
func (g *TrialGenerator) Generate() []cohort.SubjectRecord {
	records := make([]cohort.SubjectRecord, 0, g.config.SubjectsPerArm*len(g.config.Arms))
	for i := 0; i < g.config.SubjectsPerArm; i++ {
		for a, arm := range g.config.Arms {
			id := core.SubjectID(fmt.Sprintf("subj_%s_%03d", sanitize(arm), i+1))
			enrolled := enrollmentStart.Add(time.Duration(len(records)) * 6 * time.Hour)
			records = append(records, g.generateSubject(id, arm, enrolled, g.config.ResponseRates[a]))
		}
	}
	return records
}

// generateSubject draws one subject's observations. A few percent of
// weight observations come back missing, which keeps the missing-value
// paths honest downstream.
func (g *TrialGenerator) generateSubject(id core.SubjectID, arm string, enrolled time.Time, responseRate float64) cohort.SubjectRecord {
	values := map[core.VariableKey]cohort.Value{
		"age": cohort.NumValue(float64(int(55 + g.rng.NormFloat64()*12))),
		"sex": cohort.StrValue(pick(g.rng, []string{"Female", "Male"}, []float64{0.48, 0.52})),
		"stage": cohort.StrValue(pick(g.rng,
			[]string{"Stage I", "Stage II", "Stage III"}, []float64{0.3, 0.45, 0.25})),
	}

	if g.rng.Float64() < 0.05 {
		values["weight"] = cohort.MissingValue()
	} else {
		values["weight"] = cohort.NumValue(72 + g.rng.NormFloat64()*14)
	}

	if g.rng.Float64() < responseRate {
		values["response"] = cohort.StrValue("Yes")
	} else {
		values["response"] = cohort.StrValue("No")
	}

	return cohort.SubjectRecord{
		SubjectID:  id,
		Group:      arm,
		EnrolledAt: core.NewTimestamp(enrolled),
		Values:     values,
	}
}

func pick(rng *rand.Rand, options []string, weights []float64) string {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return options[i]
		}
	}
	return options[len(options)-1]
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
