// Package bkt implements the Bayesian Knowledge Tracing update step: given
// the current probability that a student has mastered a skill and one
// observed response, it produces the posterior mastery estimate and the
// predicted probability of a correct response. The three numbers of one
// step are what the BKT pathway persists per observation.
package bkt

import "fmt"

// Default parameter values, the conventional starting point for an
// untuned skill.
const (
	DefaultPInit    = 0.2
	DefaultPTransit = 0.2
	DefaultPSlip    = 0.1
	DefaultPGuess   = 0.25
)

// Params are the four per-skill BKT parameters.
type Params struct {
	// PInit is P(L0): the prior probability the skill is already known.
	PInit float64
	// PTransit is P(T): the probability of learning the skill at an
	// opportunity where it was not yet known.
	PTransit float64
	// PSlip is P(S): the probability of answering wrong despite knowing.
	PSlip float64
	// PGuess is P(G): the probability of answering right without knowing.
	PGuess float64
}

// DefaultParams returns the conventional untuned parameter set.
func DefaultParams() Params {
	return Params{
		PInit:    DefaultPInit,
		PTransit: DefaultPTransit,
		PSlip:    DefaultPSlip,
		PGuess:   DefaultPGuess,
	}
}

// Validate checks that every parameter is a probability. Degenerate
// slip/guess values of exactly 0 or 1 make the posterior undefined for
// some observations, so they are rejected as well.
func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s = %v out of range [0, 1]", name, v)
		}
		return nil
	}
	if err := check("pInit", p.PInit); err != nil {
		return err
	}
	if err := check("pTransit", p.PTransit); err != nil {
		return err
	}
	if err := check("pSlip", p.PSlip); err != nil {
		return err
	}
	if err := check("pGuess", p.PGuess); err != nil {
		return err
	}
	if p.PSlip == 0 || p.PSlip == 1 {
		return fmt.Errorf("pSlip = %v must be strictly inside (0, 1)", p.PSlip)
	}
	if p.PGuess == 0 || p.PGuess == 1 {
		return fmt.Errorf("pGuess = %v must be strictly inside (0, 1)", p.PGuess)
	}
	return nil
}

// Observation is the sufficient statistics of one knowledge-tracing update,
// exactly the triple the BKT pathway stores per progress record.
type Observation struct {
	// PLn is the mastery probability before the observation.
	PLn float64
	// PLnMinusGivenActual is the posterior after incorporating the
	// actual observed outcome, before the learning-transition step.
	PLnMinusGivenActual float64
	// PCorrect is the predicted probability of a correct response given
	// the pre-observation knowledge state.
	PCorrect float64
}

// PCorrect returns the probability of observing a correct response given
// the current mastery estimate pLn.
func (p Params) PCorrect(pLn float64) float64 {
	return clamp(pLn*(1-p.PSlip) + (1-pLn)*p.PGuess)
}

// Posterior returns the mastery estimate conditioned on one observed
// response, before applying the learning transition.
func (p Params) Posterior(pLn float64, correct bool) float64 {
	if correct {
		known := pLn * (1 - p.PSlip)
		return clamp(known / (known + (1-pLn)*p.PGuess))
	}
	known := pLn * p.PSlip
	return clamp(known / (known + (1-pLn)*(1-p.PGuess)))
}

// Advance applies the learning transition to a posterior estimate,
// yielding the prior for the next observation.
func (p Params) Advance(posterior float64) float64 {
	return clamp(posterior + (1-posterior)*p.PTransit)
}

// Step runs one full update: it records the triple for the current
// observation and returns it together with the prior to carry into the
// next step.
func (p Params) Step(pLn float64, correct bool) (Observation, float64) {
	obs := Observation{
		PLn:                 clamp(pLn),
		PLnMinusGivenActual: p.Posterior(pLn, correct),
		PCorrect:            p.PCorrect(pLn),
	}
	return obs, p.Advance(obs.PLnMinusGivenActual)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
