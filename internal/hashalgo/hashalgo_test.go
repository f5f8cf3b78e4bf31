package hashalgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministic(t *testing.T) {
	for _, alg := range []Algorithm{XXHash3, FNV1a, Blake2b} {
		a := String(alg, "vertex:42")
		b := String(alg, "vertex:42")
		assert.Equal(t, a, b)
	}
}

func TestDifferentAlgorithmsDiffer(t *testing.T) {
	x := String(XXHash3, "same-input")
	f := String(FNV1a, "same-input")
	b := String(Blake2b, "same-input")
	assert.NotEqual(t, x, f)
	assert.NotEqual(t, x, b)
	assert.NotEqual(t, f, b)
}

func TestUnknownAlgorithmFallsBackToXXHash3(t *testing.T) {
	assert.Equal(t, String(XXHash3, "k"), String(Algorithm(99), "k"))
}
