package datasets

import "encoding/binary"
import "encoding/hex"
import "math"

import "golang.org/x/crypto/blake2b"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/parallel"

// Fingerprint returns a hex digest of the sample population x, y. Rows are
// hashed concurrently and combined in row order, so the digest identifies
// the exact values and their order.
func Fingerprint(x, y *mat.Dense, threads int) string {
	rows, _ := x.Dims()
	h := parallel.NewHasher(rows)
	parallel.ForEach(rows, threads, func(i int) {
		var buf []byte
		for _, v := range x.RawRowView(i) {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		for _, v := range y.RawRowView(i) {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		h.MustPutHash(i, blake2b.Sum256(buf))
	})
	sum := h.Sum()
	return hex.EncodeToString(sum[:])
}
