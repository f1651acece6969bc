package parallel

import "hash"
import "sync"

import "golang.org/x/crypto/blake2b"

// Hasher digests n item hashes that arrive in any order from concurrent
// workers. An item is written to the running digest as soon as every lower
// index has arrived, so Sum equals hashing the items in index order.
type Hasher struct {
	mut   sync.Mutex
	h     hash.Hash
	ate   int
	items [][32]byte
	have  []bool
}

// NewHasher creates a hasher for items 0..n-1.
func NewHasher(n int) *Hasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	return &Hasher{
		h:     h,
		items: make([][32]byte, n),
		have:  make([]bool, n),
	}
}

// MustPutHash records the hash of item n. It panics when n is out of range
// or was already recorded.
func (h *Hasher) MustPutHash(n int, value [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()

	if n < h.ate || h.have[n] {
		panic("duplicate hash write")
	}
	h.items[n] = value
	h.have[n] = true

	for h.ate < len(h.items) && h.have[h.ate] {
		h.h.Write(h.items[h.ate][:])
		h.ate++
	}
}

// Sum returns the digest. Items never recorded are hashed as zeros.
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	for ; h.ate < len(h.items); h.ate++ {
		h.h.Write(h.items[h.ate][:])
	}
	copy(ret[:], h.h.Sum(nil))
	return
}
