package mathup

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint is a BLAKE2b-256 digest of a node's structure.
type Fingerprint [blake2b.Size256]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Argument keys are written in sorted order, mirroring how the node would
// be keyed by argument name, so the digest depends only on the tree.
func fingerprint(n *Node) Fingerprint {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(n.kind)})
	switch n.kind {
	case KindVariable:
		writeUint(h, n.id)
	case KindFunction, KindProperty:
		writeKey(h, "children")
		writeUint(h, uint64(len(n.children)))
		for _, c := range n.children {
			h.Write(c.fp[:])
		}
		writeKey(h, "name")
		writeUint(h, uint64(len(n.name)))
		h.Write([]byte(n.name))
	case KindAll, KindExist, KindUniquelyExist:
		writeKey(h, "bound")
		h.Write(n.bound.fp[:])
		writeKey(h, "statement")
		h.Write(n.statement.fp[:])
	case KindNot:
		writeKey(h, "body")
		h.Write(n.left.fp[:])
	case KindImply:
		writeKey(h, "assumption")
		h.Write(n.left.fp[:])
		writeKey(h, "conclusion")
		h.Write(n.right.fp[:])
	case KindAnd, KindOr, KindIff:
		writeKey(h, "left")
		h.Write(n.left.fp[:])
		writeKey(h, "right")
		h.Write(n.right.fp[:])
	}
	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}

func writeUint(h hash.Hash, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	h.Write(b[:])
}

func writeKey(h hash.Hash, key string) {
	h.Write([]byte{byte(len(key))})
	h.Write([]byte(key))
}
