// Command poulpydemo is a thin, illustrative consumer of the poulpy
// packages: it is not part of the library's public API surface, the
// same role the teacher's own examples/ directory plays for lattigo.
// It wires together a GLWE encrypt/decrypt round trip, one external
// product and one blind-rotation lookup, printing the results with
// plain fmt — a cryptographic kernel does not carry a logging
// dependency, and neither does its one demo binary.
package main

import (
	"flag"
	"fmt"

	"github.com/glwelabs/poulpy/he/hebin"
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rgsw"
	"github.com/glwelabs/poulpy/rlwe"
	"github.com/glwelabs/poulpy/utils/sampling"
)

func main() {
	logN := flag.Int("logn", 4, "log2 of the GLWE ring degree")
	base2k := flag.Int("base2k", 12, "limb width in bits")
	limbs := flag.Int("limbs", 3, "number of base-2k limbs (torus precision)")
	flag.Parse()

	n := 1 << uint(*logN)
	base2K := *base2k
	k := base2K * *limbs
	rank := 1

	root := sampling.NewSource(sampling.NewSeed())
	_, sourceA := root.Branch()
	_, sourceE := root.Branch()

	module := ring.NewModule(n)
	enc := rlwe.NewEncryptor(module, sourceA, sourceE, 3.2, 6, base2K)
	dec := rlwe.NewDecryptor(module)

	sk := rlwe.NewSecret(n, rank, base2K, 1)
	_, skSource := root.Branch()
	sk.Generate(rlwe.Distribution{Kind: rlwe.TernaryProb, P: 0.5}, skSource)

	fmt.Println("== GLWE encrypt/decrypt round trip ==")
	values := make([]int64, n)
	for i := range values {
		values[i] = int64(i % 16)
	}
	logScale := 2*base2K - 5

	pt := rlwe.NewPlaintext(n, base2K, k)
	pt.Encode(values, logScale)

	ct := rlwe.NewCiphertext(n, rank, base2K, k)
	enc.EncryptSk(ct, pt, sk)

	out := rlwe.NewPlaintext(n, base2K, k)
	out.LogScale = logScale
	dec.Decrypt(ct, sk, out)
	fmt.Printf("decoded[0:4] = %v (want %v)\n", out.Decode()[:4], values[:4])

	fmt.Println("== GGSW external product ==")
	dnum, dsize := *limbs, 1
	mu := ring.NewZnx(n, 1, 1, base2K)
	mu.At(0, 0)[0] = 2

	ggsw := rgsw.Encrypt(enc, mu, sk, dnum, dsize)
	prep := ggsw.Prepare(module)

	m3 := rlwe.NewPlaintext(n, base2K, k)
	m3.Encode([]int64{0, 0, 0, 1}, logScale) // m(X) = X^3
	ctM := rlwe.NewCiphertext(n, rank, base2K, k)
	enc.EncryptSk(ctM, m3, sk)

	res := rlwe.NewCiphertext(n, rank, base2K, k)
	rgsw.ExternalProduct(module, ggsw, prep, ctM, res)

	decoded := rlwe.NewPlaintext(n, base2K, k)
	decoded.LogScale = logScale
	dec.Decrypt(res, sk, decoded)
	fmt.Printf("mu*X^3 decoded[0:4] = %v (want [0 0 0 2])\n", decoded.Decode()[:4])

	fmt.Println("== Blind rotation ==")
	nLWE := n / 2
	lweSk := rlwe.NewSecret(nLWE, 1, base2K, 1)
	_, lweSource := root.Branch()
	lweSk.Generate(rlwe.Distribution{Kind: rlwe.BinaryFixed, H: nLWE / 4}, lweSource)

	brk := hebin.GenBlindRotationKey(enc, lweSk, sk, dnum, dsize)
	prepBRK := brk.Prepare(module)

	lut := rlwe.NewCiphertext(n, rank, base2K, k)
	lutValues := make([]int64, n)
	lutValues[0] = 1 << uint(base2K-6)
	lutPt := rlwe.NewPlaintext(n, base2K, k)
	lutPt.Encode(lutValues, base2K-6)
	for limb := 0; limb < lut.Value.Limbs; limb++ {
		copy(lut.Value.At(0, limb), lutPt.Value.At(0, limb))
	}

	_, noiseSource := sourceE.Branch()
	lwe := rlwe.EncryptLWE(lweSk, 0, lweSource, noiseSource, 3.2, 6, k)

	rotated := hebin.BlindRotate(module, lut, lwe, k, prepBRK, brk.GGSWs)
	rotOut := rlwe.NewPlaintext(n, base2K, k)
	rotOut.LogScale = base2K - 6
	dec.Decrypt(rotated, sk, rotOut)
	fmt.Printf("blind-rotated lut[0] = %d (want %d)\n", rotOut.Decode()[0], int64(1)<<uint(base2K-6))
}
