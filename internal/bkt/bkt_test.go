package bkt

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name string
		p    Params
	}{
		{"negative pInit", Params{PInit: -0.1, PTransit: 0.2, PSlip: 0.1, PGuess: 0.25}},
		{"pTransit above one", Params{PInit: 0.2, PTransit: 1.5, PSlip: 0.1, PGuess: 0.25}},
		{"degenerate slip", Params{PInit: 0.2, PTransit: 0.2, PSlip: 0, PGuess: 0.25}},
		{"degenerate guess", Params{PInit: 0.2, PTransit: 0.2, PSlip: 0.1, PGuess: 1}},
	}
	for _, tt := range tests {
		assert.Error(t, tt.p.Validate(), tt.name)
	}
}

func TestPCorrectKnownValues(t *testing.T) {
	p := Params{PInit: 0.2, PTransit: 0.2, PSlip: 0.1, PGuess: 0.25}

	// pLn = 0.5: 0.5*0.9 + 0.5*0.25 = 0.575
	assert.InDelta(t, 0.575, p.PCorrect(0.5), 1e-12)
	// Full mastery: only slip can cause a wrong answer.
	assert.InDelta(t, 1-p.PSlip, p.PCorrect(1), 1e-12)
	// No mastery: only guessing produces a right answer.
	assert.InDelta(t, p.PGuess, p.PCorrect(0), 1e-12)
}

func TestPosteriorMovesTowardEvidence(t *testing.T) {
	p := DefaultParams()

	up := p.Posterior(0.5, true)
	down := p.Posterior(0.5, false)
	assert.Greater(t, up, 0.5, "correct answer should raise the estimate")
	assert.Less(t, down, 0.5, "wrong answer should lower the estimate")
}

func TestStepTripleInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := DefaultParams()

	pLn := p.PInit
	for i := 0; i < 500; i++ {
		obs, next := p.Step(pLn, rng.Intn(2) == 0)

		for name, v := range map[string]float64{
			"pLn":                 obs.PLn,
			"pLnMinusGivenActual": obs.PLnMinusGivenActual,
			"pCorrect":            obs.PCorrect,
			"next prior":          next,
		} {
			require.False(t, math.IsNaN(v), "%s is NaN at step %d", name, i)
			require.GreaterOrEqual(t, v, 0.0, "%s below 0 at step %d", name, i)
			require.LessOrEqual(t, v, 1.0, "%s above 1 at step %d", name, i)
		}
		pLn = next
	}
}

func TestRepeatedCorrectConverges(t *testing.T) {
	p := DefaultParams()

	pLn := p.PInit
	for i := 0; i < 50; i++ {
		_, pLn = p.Step(pLn, true)
	}
	assert.Greater(t, pLn, 0.99, "mastery should converge under consistent correct answers")
}
