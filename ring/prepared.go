package ring

// SVPPPol is a prepared scalar (C4): the frequency-domain image of a
// single polynomial that is reused many times, typically a secret-key
// coordinate. Once Prepare has run, an SVPPPol is immutable and may be
// shared read-only across goroutines — callers must never mutate it
// through a second reference after preparation.
type SVPPPol struct {
	dft *DftZnx
}

// PrepareSVP runs the forward transform of src's column srcCol once
// and returns the prepared operand.
func (m *Module) PrepareSVP(src *Znx, srcCol int) *SVPPPol {
	d := NewDftZnx(m.n, 1, src.Limbs)
	m.DFT(src, srcCol, d, 0)
	return &SVPPPol{dft: d}
}

// ApplyDFTToDFT multiplies the prepared scalar into dst[col] in place:
// dst[col] += svp * a[aCol], accumulated in the frequency domain.
func (p *SVPPPol) ApplyDFTToDFT(dst *DftZnx, col int, a *DftZnx, aCol int) {
	dst.MulAddBroadcast(col, p.dft, 0, a, aCol)
}

// VMPPMat is a prepared matrix (C4): the frequency-domain image of a
// GGLWE matrix, laid out so that streamed vector-matrix multiplication
// touches memory in row order. Rows is the gadget dimension (dnum),
// cols the number of matrix columns (rank_in+1 for a switching key,
// 1 for a GGSW row-block), limbs is the per-entry limb count.
type VMPPMat struct {
	rows, cols, limbs int
	entries           []*DftZnx // rows*cols entries, each a 1-column DftZnx
}

// PrepareVMP transforms every entry of a rows x cols matrix of Znx
// (indexed row-major, one column-0 polynomial per cell) into its
// frequency-domain image.
func (m *Module) PrepareVMP(rows, cols int, cell func(r, c int) *Znx) *VMPPMat {
	v := &VMPPMat{rows: rows, cols: cols}
	v.entries = make([]*DftZnx, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			src := cell(r, c)
			d := NewDftZnx(m.n, 1, src.Limbs)
			m.DFT(src, 0, d, 0)
			v.entries[r*cols+c] = d
			v.limbs = src.Limbs
		}
	}
	return v
}

// Rows returns the gadget dimension of the prepared matrix.
func (v *VMPPMat) Rows() int { return v.rows }

// Cols returns the column count of the prepared matrix.
func (v *VMPPMat) Cols() int { return v.cols }

// EntryAt returns the prepared frequency-domain cell at (row, col).
func (v *VMPPMat) EntryAt(row, col int) *DftZnx {
	return v.entries[row*v.cols+col]
}

// ApplyDigitsToDFT computes
//
//	res[resCol] = sum_{r,c} sum_di digits[c][r][di] * vmp[r, c]
//
// shifted up by di limb positions per [DftZnx.MulAddBroadcastShift],
// accumulating into whatever res already holds. digits is indexed
// [col][row][offset]; a nil row or nil digit is skipped (the ragged
// case where a row's column has nothing to contribute, e.g. an input
// column beyond the ciphertext's own rank). This is the full gadget
// multiply-accumulate the external product (§4.7) and key-switch
// (§4.8) run per output column when the gadget digit decomposition
// spans Dsize sub-limbs per row: Dsize=1 degenerates every inner di
// loop to its single offset-0 term.
func (v *VMPPMat) ApplyDigitsToDFT(res *DftZnx, resCol int, digits [][][]*DftZnx) {
	for c := 0; c < v.cols && c < len(digits); c++ {
		for r := 0; r < v.rows && r < len(digits[c]); r++ {
			row := digits[c][r]
			if row == nil {
				continue
			}
			entry := v.EntryAt(r, c)
			for di, d := range row {
				if d == nil {
					continue
				}
				res.MulAddBroadcastShift(resCol, d, 0, entry, 0, di)
			}
		}
	}
}
