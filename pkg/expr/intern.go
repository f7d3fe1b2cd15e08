package expr

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// InternStats counts cache behavior for an Interner
type InternStats struct {
	CacheHits    uint
	CacheLookups uint
	Cached       uint
}

// Interner deduplicates structurally equal expressions. Buckets are keyed
// by a structural xxhash; collisions fall back to Equal. An Interner
// belongs to a single structuring session and is not safe for concurrent
// use.
type Interner struct {
	cache map[uint64][]Expr

	Stats InternStats
}

// NewInterner creates an empty Interner
func NewInterner() *Interner {
	return &Interner{
		cache: map[uint64][]Expr{},
	}
}

// Intern returns the canonical instance for e, registering it if no
// structurally equal expression has been seen before.
func (in *Interner) Intern(e Expr) Expr {
	in.Stats.CacheLookups++

	h := Hash(e)
	for _, cached := range in.cache[h] {
		if Equal(cached, e) {
			in.Stats.CacheHits++
			return cached
		}
	}

	in.Stats.Cached++
	in.cache[h] = append(in.cache[h], e)
	return e
}

// Variant tags fed to the hash. Order is frozen; changing it invalidates
// nothing at runtime but keeps hashes stable within a session.
const (
	tagBool byte = iota + 1
	tagVar
	tagPred
	tagCondCode
	tagNot
	tagAnd
	tagOr
)

// Hash computes a structural hash of an expression. Structurally equal
// expressions hash identically.
func Hash(e Expr) uint64 {
	h := xxhash.New()
	hashInto(h, e)
	return h.Sum64()
}

func hashInto(h *xxhash.Digest, e Expr) {
	var buf [5]byte
	switch x := e.(type) {
	case Bool:
		buf[0] = tagBool
		if x.Value {
			buf[1] = 1
		}
		h.Write(buf[:2])
	case Var:
		buf[0] = tagVar
		binary.LittleEndian.PutUint32(buf[1:], x.Index)
		h.Write(buf[:5])
	case Pred:
		buf[0] = tagPred
		binary.LittleEndian.PutUint32(buf[1:], x.Index)
		h.Write(buf[:5])
	case CondCode:
		buf[0] = tagCondCode
		binary.LittleEndian.PutUint32(buf[1:], uint32(x.Code))
		h.Write(buf[:5])
	case Not:
		buf[0] = tagNot
		h.Write(buf[:1])
		hashInto(h, x.Operand)
	case And:
		buf[0] = tagAnd
		h.Write(buf[:1])
		hashInto(h, x.A)
		hashInto(h, x.B)
	case Or:
		buf[0] = tagOr
		h.Write(buf[:1])
		hashInto(h, x.A)
		hashInto(h, x.B)
	}
}
