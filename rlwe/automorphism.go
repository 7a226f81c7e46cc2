package rlwe

import "github.com/glwelabs/poulpy/ring"

// AutomorphismKey is a switching key from s(X) to s(X^q), q = p^-1 mod
// 2N, for a fixed odd p coprime to 2N (§3.2): Apply key-switches through
// it and then maps X -> X^p, which brings the result back under s(X).
type AutomorphismKey struct {
	P  int
	SK *SwitchingKey
}

// GenAutomorphismKey builds the automorphism key for exponent p: it
// key-switches from sk to sk automorphed by p^-1 mod 2N, the standard
// "generate a switching key into the permuted secret" construction.
func GenAutomorphismKey(enc *Encryptor, sk *Secret, p, dnum, dsize int) *AutomorphismKey {
	permuted := &Secret{Dist: sk.Dist, Value: ring.NewZnx(sk.Value.N, sk.Value.Cols, sk.Value.Limbs, sk.Value.Base2K)}
	mod := 2 * sk.Value.N
	pInv := 1
	for (pInv*p%mod+mod)%mod != 1 {
		pInv += 2
	}
	for col := 0; col < sk.Value.Cols; col++ {
		sk.Value.Automorphism(col, pInv, permuted.Value, col)
	}
	return &AutomorphismKey{P: p, SK: GenSwitchingKey(enc, sk, permuted, dnum, dsize)}
}

// Apply automorphs ct by p (§4.9): key-switch through ak, then apply
// X -> X^p to every column of the result.
func (ak *AutomorphismKey) Apply(m *ring.Module, prep *PreparedSwitchingKey, ct *Ciphertext, res *Ciphertext) {
	tmp := NewCiphertext(ct.Value.N, ct.Rank, ct.Base2K, ct.K)
	prep.ApplyKeySwitch(m, ak.SK, ct, tmp)
	for col := 0; col <= ct.Rank; col++ {
		tmp.Value.Automorphism(col, ak.P, res.Value, col)
	}
}

// TensorKey bundles a switching key per unordered pair (i, j), i <= j
// < rank, each key encrypting s_i * s_j under the module's own secret,
// plus one switching key per coordinate t encrypting s_t alone (the
// "identity" slot, i.e. the degenerate pair (1, s_t)) — together these
// let a GGSW column be reconstructed from a ciphertext already
// encrypting some value mu, without ever needing mu in the clear
// (§3.2, exercised by circuit bootstrapping's column reconstruction).
type TensorKey struct {
	Rank  int
	Keys  map[[2]int]*SwitchingKey
	Ident []*SwitchingKey // Ident[t] encrypts s_t under sk
}

// GenTensorKey builds the tensor key for sk: for every i <= j < rank,
// a switching key encrypting the product s_i*s_j under sk itself, and
// for every t < rank, a switching key encrypting s_t alone under sk.
func GenTensorKey(enc *Encryptor, sk *Secret, dnum, dsize int) *TensorKey {
	tk := &TensorKey{Rank: sk.Value.Cols, Keys: map[[2]int]*SwitchingKey{}}
	n := sk.Value.N

	for i := 0; i < sk.Value.Cols; i++ {
		for j := i; j < sk.Value.Cols; j++ {
			prod := &Secret{Dist: sk.Dist, Value: ring.NewZnx(n, 1, sk.Value.Limbs, sk.Value.Base2K)}
			a := sk.Value.At(i, 0)
			b := sk.Value.At(j, 0)
			out := prod.Value.At(0, 0)
			for x, ax := range a {
				for y, by := range b {
					if x+y < n {
						out[x+y] += ax * by
					} else {
						out[x+y-n] -= ax * by
					}
				}
			}
			tk.Keys[[2]int{i, j}] = GenSwitchingKey(enc, prod, sk, dnum, dsize)
		}
	}

	tk.Ident = make([]*SwitchingKey, sk.Value.Cols)
	for t := 0; t < sk.Value.Cols; t++ {
		single := &Secret{Dist: sk.Dist, Value: ring.NewZnx(n, 1, sk.Value.Limbs, sk.Value.Base2K)}
		copy(single.Value.At(0, 0), sk.Value.At(t, 0))
		tk.Ident[t] = GenSwitchingKey(enc, single, sk, dnum, dsize)
	}

	return tk
}

// Key returns the switching key for the unordered pair (i, j).
func (tk *TensorKey) Key(i, j int) *SwitchingKey {
	if i > j {
		i, j = j, i
	}
	return tk.Keys[[2]int{i, j}]
}

// IdentityKey returns the switching key encrypting s_t alone, used for
// the constant-coefficient contribution of a reconstructed GGSW
// column (the "i = 1" term mu*s_t = b*s_t + sum_i a_i*s_i*s_t).
func (tk *TensorKey) IdentityKey(t int) *SwitchingKey {
	if t < 0 || t >= len(tk.Ident) {
		return nil
	}
	return tk.Ident[t]
}
