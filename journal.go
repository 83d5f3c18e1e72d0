package mathup

import (
	"sync"
	"time"
)

// Entry is the journal record of one saved proof step.
type Entry struct {
	Session     string    `json:"session"`
	Seq         uint64    `json:"seq"`
	Key         string    `json:"key"`
	Rule        string    `json:"rule"`
	Branch      []int     `json:"branch"`
	Fingerprint string    `json:"fingerprint"`
	Formula     string    `json:"formula"`
	Time        time.Time `json:"time"`
}

// Journal receives every saved step that is proved when it is saved. Journals only observe the session:
// a failing journal never changes what is proved.
type Journal interface {
	Record(Entry) error
}

// MemoryJournal keeps entries in memory.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

func (j *MemoryJournal) Record(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (s *Session) record(n *Node, key Key, rule string) {
	s.seq++
	if s.journal == nil {
		return
	}
	e := Entry{
		Session:     s.id.String(),
		Seq:         s.seq,
		Key:         key.String(),
		Rule:        rule,
		Branch:      s.Branch(),
		Fingerprint: n.fp.String(),
		Formula:     n.String(),
		Time:        s.clock(),
	}
	if err := s.journal.Record(e); err != nil {
		s.logger.Error("journal write failed", "seq", e.Seq, "key", e.Key, "error", err)
	}
}
