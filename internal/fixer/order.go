package fixer

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"pyfix/internal/tree"
	"pyfix/internal/version"
)

// Order returns fixers sorted by Priority ascending; ties keep registration
// order. The input slice is not modified.
func Order(fs []*Fixer) []*Fixer {
	out := append([]*Fixer(nil), fs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Fingerprint identifies an ordered fixer set together with the pyfix build
// that runs it. It changes when a fixer is added, removed, reordered or gets
// a different pattern or revision, and whenever the version changes.
func Fingerprint(ordered []*Fixer) string {
	h := sha256.New()
	h.Write([]byte(version.Version))
	h.Write([]byte{0})
	h.Write([]byte(version.GitCommit))
	h.Write([]byte{0})
	for _, f := range ordered {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write([]byte(f.Pattern))
		h.Write([]byte{0})
		h.Write([]byte(f.Revision))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(f.Priority)))
		h.Write([]byte{0, byte(f.Traversal), boolByte(f.OwnPrefix)})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Index dispatches node types to the fixers whose first-set admits them.
// Within one type, fixers keep the order they were given in.
type Index struct {
	pre  [tree.NumTypes][]*Fixer
	post [tree.NumTypes][]*Fixer
	size int
}

// NewIndex builds the dispatch table for an ordered fixer list.
func NewIndex(ordered []*Fixer) *Index {
	ix := &Index{size: len(ordered)}
	for t := 0; t < tree.NumTypes; t++ {
		typ := tree.Type(t)
		for _, f := range ordered {
			if f.compiled == nil || !f.compiled.First().Has(typ) {
				continue
			}
			if f.Traversal == TopDown {
				ix.pre[t] = append(ix.pre[t], f)
			} else {
				ix.post[t] = append(ix.post[t], f)
			}
		}
	}
	return ix
}

// TopDown returns the pre-order candidates for nodes of type t.
func (ix *Index) TopDown(t tree.Type) []*Fixer {
	if int(t) >= tree.NumTypes {
		return nil
	}
	return ix.pre[t]
}

// BottomUp returns the post-order candidates for nodes of type t.
func (ix *Index) BottomUp(t tree.Type) []*Fixer {
	if int(t) >= tree.NumTypes {
		return nil
	}
	return ix.post[t]
}

// Len is the number of fixers the index was built from.
func (ix *Index) Len() int { return ix.size }
