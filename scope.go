package mathup

const (
	opEnter = "enter_scope"
	opExit  = "exit_scope"
)

// EnterScope opens a block assuming assumption. Its free variables are held
// fixed inside the block, so they cannot be generalized there. The returned
// assumption is proved on the new branch.
func (s *Session) EnterScope(assumption *Node) (*Node, error) {
	return s.run(opEnter, func() (*Node, error) {
		if assumption == nil || !IsSentence(assumption) {
			return nil, Errorf(opEnter, "assume", ErrRuleMismatch, "assumption %s is not a sentence", assumption)
		}
		depth := len(s.levels)
		if len(s.counters) == depth {
			s.counters = append(s.counters, 0)
		} else {
			s.counters[depth]++
		}
		l := newLevel(assumption)
		assumption.free.each(func(id uint64) bool {
			l.bound[id] = struct{}{}
			return true
		})
		s.levels = append(s.levels, l)
		s.metrics.setDepth(s.Depth())
		s.logger.Debug("scope entered", "depth", s.Depth(), "branch", s.Branch())
		return s.accept(assumption), nil
	})
}

// ExitScope closes the innermost block and discharges it: the implication
// from its assumption to the last accepted formula is proved on the
// enclosing branch.
func (s *Session) ExitScope() (*Node, error) {
	return s.run(opExit, func() (*Node, error) {
		if s.Depth() == 0 {
			return nil, Errorf(opExit, "pop", ErrScope, "no open scope")
		}
		imply, err := Construct(KindImply, Args{Assumption: s.top().assumption, Conclusion: s.last})
		if err != nil {
			return nil, err
		}
		s.pop()
		return s.accept(imply), nil
	})
}

func (s *Session) pop() {
	s.levels = s.levels[:len(s.levels)-1]
	s.metrics.setDepth(s.Depth())
	s.logger.Debug("scope exited", "depth", s.Depth(), "branch", s.Branch())
}

// Assume runs body inside a block opened on assumption and returns the
// discharged implication. If body fails, every level opened since entry is
// popped without discharging it.
func (s *Session) Assume(assumption *Node, body func(assumption *Node) error) (*Node, error) {
	depth := s.Depth()
	a, err := s.EnterScope(assumption)
	if err != nil {
		return nil, err
	}
	if err := body(a); err != nil {
		for s.Depth() > depth {
			s.pop()
		}
		return nil, err
	}
	return s.ExitScope()
}
