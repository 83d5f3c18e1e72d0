package mathup

import (
	"cmp"
	"slices"
	"strconv"
)

// Key addresses the theorem store. Names are one-shot; slots are scratch
// space that later saves overwrite.
type Key struct {
	name  string
	slot  int
	named bool
}

func Name(name string) Key { return Key{name: name, named: true} }

func Slot(n int) Key { return Key{slot: n} }

func (k Key) IsName() bool { return k.named }

func (k Key) String() string {
	if k.named {
		return k.name
	}
	return "#" + strconv.Itoa(k.slot)
}

type store struct {
	names map[string]*Node
	slots map[int]*Node
}

func newStore() *store {
	return &store{names: map[string]*Node{}, slots: map[int]*Node{}}
}

func (st *store) lookup(k Key) (*Node, bool) {
	var n *Node
	if k.named {
		n = st.names[k.name]
	} else {
		n = st.slots[k.slot]
	}
	return n, n != nil
}

// Save stores a sentence under key. Saving under a name that is already
// taken is a NameCollision and aborts the session. Only sentences proved
// on the live branch reach the journal.
func (s *Session) Save(n *Node, key Key) (*Node, error) {
	if err := s.aborted("save"); err != nil {
		return nil, err
	}
	if _, err := s.save(n, key, "save"); err != nil {
		s.abort("save", err)
		return nil, err
	}
	return n, nil
}

func (s *Session) save(n *Node, key Key, rule string) (*Node, error) {
	if n == nil || !IsSentence(n) {
		return nil, Errorf("save", key.String(), ErrRuleMismatch, "only sentences can be saved, got %s", n)
	}
	if key.named {
		if _, taken := s.store.names[key.name]; taken {
			return nil, Errorf("save", key.String(), ErrNameCollision, "name %q is already saved", key.name)
		}
		s.store.names[key.name] = n
	} else {
		s.store.slots[key.slot] = n
	}
	if s.IsProved(n) {
		s.record(n, key, rule)
	}
	return n, nil
}

// Lookup returns the sentence stored under key, proved or not.
func (s *Session) Lookup(key Key) (*Node, error) {
	n, ok := s.store.lookup(key)
	if !ok {
		return nil, Errorf("lookup", key.String(), ErrUnknownKey, "nothing saved under %s", key)
	}
	return n, nil
}

// Keys lists names in order, then slots in order.
func (s *Session) Keys() []Key {
	keys := make([]Key, 0, len(s.store.names)+len(s.store.slots))
	for name := range s.store.names {
		keys = append(keys, Name(name))
	}
	for slot := range s.store.slots {
		keys = append(keys, Slot(slot))
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if a.named != b.named {
			if a.named {
				return -1
			}
			return 1
		}
		if a.named {
			return cmp.Compare(a.name, b.name)
		}
		return cmp.Compare(a.slot, b.slot)
	})
	return keys
}

// Ref cites a justification: a Key, a string (a name), an int (a slot) or
// a *Node cited directly.
type Ref = any

// Resolve looks a citation up and requires it to be proved on the live
// branch. Derived rules use it to inspect their justifications.
func (s *Session) Resolve(ref Ref) (*Node, error) {
	return s.cite("resolve", ref)
}

func (s *Session) cite(rule string, ref Ref) (*Node, error) {
	var key Key
	switch r := ref.(type) {
	case *Node:
		if r == nil {
			return nil, Errorf(rule, "cite", ErrRuleMismatch, "nil justification")
		}
		if !s.IsProved(r) {
			return nil, Errorf(rule, "cite", ErrUnprovedJustification, "%s is not proved on this branch", r)
		}
		return r, nil
	case Key:
		key = r
	case string:
		key = Name(r)
	case int:
		key = Slot(r)
	default:
		return nil, Errorf(rule, "cite", ErrRuleMismatch, "cannot cite a %T", ref)
	}
	n, ok := s.store.lookup(key)
	if !ok {
		return nil, Errorf(rule, "cite", ErrUnknownKey, "nothing saved under %s", key)
	}
	if !s.IsProved(n) {
		return nil, Errorf(rule, "cite", ErrUnprovedJustification, "%s (%s) is not proved on this branch", key, n)
	}
	return n, nil
}
