package mathup

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// level is one open Fitch-style block. Index 0 is the ground level and is
// never popped.
type level struct {
	assumption *Node
	bound      map[uint64]struct{}
}

func newLevel(assumption *Node) *level {
	return &level{assumption: assumption, bound: map[uint64]struct{}{}}
}

// Session owns all proof state: variable allocation, the scope stack,
// acceptance stamps, the theorem store and the rule registry. A Session is
// not safe for concurrent use. After the first rejected step the session
// is aborted: every later step fails with ErrAborted, while Lookup and
// IsProved keep answering from the state reached so far.
type Session struct {
	id uuid.UUID

	counter uint64
	fresh   map[uint64]struct{}

	levels []*level
	// counters[d] is bumped on every entry at depth d and never shrinks,
	// so the live branch counters[1:depth+1] is never reused.
	counters []int
	symbols  map[string]int

	proofs    map[Fingerprint][]*stamp
	definedBy map[uint64]*Node
	last      *Node

	store *store
	rules map[Rule]entry

	decider Decider
	logger  *slog.Logger
	metrics *Metrics
	journal Journal
	clock   func() time.Time
	seq     uint64

	err error
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithDecider(d Decider) Option {
	return func(s *Session) { s.decider = d }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.clock = now }
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		fresh:     map[uint64]struct{}{},
		levels:    []*level{newLevel(nil)},
		counters:  []int{0},
		symbols:   map[string]int{},
		proofs:    map[Fingerprint][]*stamp{},
		definedBy: map[uint64]*Node{},
		store:     newStore(),
		decider:   Auto{Limit: DefaultTruthTableLimit},
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id.String())
	s.registerPrimitives()
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// Err returns the error that aborted the session, if any.
func (s *Session) Err() error { return s.err }

// NewVariable allocates a variable with a new identity. It stays fresh
// until an accepted formula or a Let mentions it.
func (s *Session) NewVariable() *Node {
	s.counter++
	v := VariableOf(s.counter)
	s.fresh[v.id] = struct{}{}
	return v
}

func (s *Session) Variables(n int) []*Node {
	vs := make([]*Node, n)
	for i := range vs {
		vs[i] = s.NewVariable()
	}
	return vs
}

func (s *Session) IsFresh(v *Node) bool {
	if v == nil || v.kind != KindVariable {
		return false
	}
	_, ok := s.fresh[v.id]
	return ok
}

// DefinedBy returns the existential a Let variable witnesses.
func (s *Session) DefinedBy(v *Node) *Node {
	if v == nil || v.kind != KindVariable {
		return nil
	}
	return s.definedBy[v.id]
}

// Last is the most recently accepted formula.
func (s *Session) Last() *Node { return s.last }

func (s *Session) Depth() int { return len(s.levels) - 1 }

// Branch is the live branch address, one counter per open block.
func (s *Session) Branch() []int {
	return slices.Clone(s.counters[1:len(s.levels)])
}

// stamp records the branch a formula was accepted on. Formulas are keyed
// by structure, so an equal tree built elsewhere is proved as well.
type stamp struct {
	node   *Node
	branch []int
}

func (s *Session) stampOf(n *Node) *stamp {
	for _, st := range s.proofs[n.fp] {
		if equalTree(st.node, n) {
			return st
		}
	}
	return nil
}

func (s *Session) live(st *stamp) bool {
	if len(st.branch) > s.Depth() {
		return false
	}
	for i, c := range st.branch {
		if s.counters[i+1] != c {
			return false
		}
	}
	return true
}

// IsProved reports whether n was accepted on a branch that is a prefix of
// the live one. Results from blocks that have since been closed are not
// proved.
func (s *Session) IsProved(n *Node) bool {
	if n == nil {
		return false
	}
	st := s.stampOf(n)
	return st != nil && s.live(st)
}

func (s *Session) accept(n *Node) *Node {
	switch st := s.stampOf(n); {
	case st == nil:
		s.proofs[n.fp] = append(s.proofs[n.fp], &stamp{node: n, branch: s.Branch()})
	case !s.live(st):
		st.branch = s.Branch()
	}
	// a live stamp is never deeper than the current branch, so it is kept
	consume := func(id uint64) bool {
		delete(s.fresh, id)
		return true
	}
	n.free.each(consume)
	n.bounded.each(consume)
	s.last = n
	return n
}

func (s *Session) boundLocally(id uint64) bool {
	for _, l := range s.levels {
		if _, ok := l.bound[id]; ok {
			return true
		}
	}
	return false
}

// unscoped returns a free variable of n that no open level binds.
func (s *Session) unscoped(n *Node) (*Node, bool) {
	var found *Node
	n.free.each(func(id uint64) bool {
		if !s.boundLocally(id) {
			found = VariableOf(id)
			return false
		}
		return true
	})
	return found, found != nil
}

func (s *Session) top() *level {
	return s.levels[len(s.levels)-1]
}

// run executes one checked step. Failures abort the session.
func (s *Session) run(rule string, check func() (*Node, error)) (*Node, error) {
	if err := s.aborted(rule); err != nil {
		return nil, err
	}
	n, err := check()
	if err != nil {
		s.abort(rule, err)
		return nil, err
	}
	s.metrics.observeRule(rule, true)
	s.logger.Debug("accepted", "rule", rule, "depth", s.Depth(), "branch", s.Branch(), "formula", n)
	return n, nil
}

func (s *Session) aborted(rule string) error {
	if s.err == nil {
		return nil
	}
	return &Error{Rule: rule, Op: "check", Err: fmt.Errorf("%w: %w", ErrAborted, s.err)}
}

func (s *Session) abort(rule string, err error) {
	s.metrics.observeRule(rule, false)
	if s.err != nil {
		return
	}
	s.err = err
	s.logger.Warn("proof step rejected", "rule", rule, "depth", s.Depth(), "error", err)
}
