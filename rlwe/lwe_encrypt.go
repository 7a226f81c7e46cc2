package rlwe

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/utils/sampling"
)

// EncryptLWE directly encrypts a scalar mu (already placed at the
// target log-scale) as an LWE under secret, without routing through a
// GLWE sample-extraction. This is the construction used when the LWE
// dimension is not the GLWE ring degree (the common case feeding blind
// rotation, §4.10): secret.Value.N here is the LWE dimension n, not a
// ring degree, and arithmetic is plain mod-2^k integer arithmetic
// rather than ring convolution.
func EncryptLWE(secret *Secret, mu int64, source, noiseSource *sampling.Source, sigma, bound float64, k int) *LWE {
	n := secret.Value.N
	mask := (uint64(1) << uint(k)) - 1
	modK := int64(1) << uint(k)

	out := &LWE{N: n, Value: make([]int64, n+1)}
	coords := secret.Value.At(0, 0)
	var acc int64
	for i := 0; i < n; i++ {
		a := int64(source.NextU64() & mask)
		out.Value[i+1] = a
		acc += a * coords[i]
	}
	e := ring.SampleGaussian(noiseSource, sigma, bound)
	body := (mu + e - acc) % modK
	if body < 0 {
		body += modK
	}
	out.Value[0] = body
	return out
}
