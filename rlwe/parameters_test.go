package rlwe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParametersValidate(t *testing.T) {
	p := Parameters{LogN: 4, Base2K: 18, K: 54, Rank: 1, Dnum: 3, Dsize: 1, Sigma: 3.2, Bound: 6}
	require.NotPanics(t, func() { p.Validate() })
	require.Equal(t, 16, p.N())
	require.Equal(t, 3, p.Limbs())
}

func TestParametersValidateRejectsOverflowingGadget(t *testing.T) {
	p := Parameters{LogN: 4, Base2K: 18, K: 54, Rank: 1, Dnum: 4, Dsize: 1}
	require.Panics(t, func() { p.Validate() })
}

func TestParametersValidateRejectsRankOutOfRange(t *testing.T) {
	p := Parameters{LogN: 4, Base2K: 18, K: 18, Rank: 9, Dnum: 1, Dsize: 1}
	require.Panics(t, func() { p.Validate() })
}
