// Package ledger persists the journal of accepted proof steps in a bbolt
// file, one nested bucket per session.
package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/deosjr/mathup"
)

const (
	Perm    = 0600
	timeout = 3 * time.Second
)

var sessionsBucket = []byte("sessions")

var ErrUnknownSession = errors.New("unknown session")

// Ledger is a mathup.Journal backed by bbolt.
type Ledger struct {
	db *bolt.DB
}

var _ mathup.Journal = (*Ledger)(nil)

func Open(path string) (*Ledger, error) {
	db, err := bolt.Open(path, Perm, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger %s: %w", path, err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// Record appends e under its session bucket.
func (l *Ledger) Record(e mathup.Entry) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(sessionsBucket).CreateBucketIfNotExists([]byte(e.Session))
		if err != nil {
			return err
		}
		return b.Put(seqKey(e.Seq), value)
	})
}

// Sessions lists the recorded session ids in byte order.
func (l *Ledger) Sessions() ([]string, error) {
	var ids []string
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, v []byte) error {
			// nested buckets have a nil value
			if v == nil {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	return ids, err
}

// Entries returns the steps of session in step order.
func (l *Ledger) Entries(session string) ([]mathup.Entry, error) {
	var entries []mathup.Entry
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket).Bucket([]byte(session))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrUnknownSession, session)
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e mathup.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode step %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
