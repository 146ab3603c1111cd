package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/btree"
	"go.etcd.io/bbolt"
)

var bucketOperations = []byte("operations")

// Entry is one recorded management operation.
type Entry struct {
	Rev        uint64    `json:"rev"`
	Action     string    `json:"action"`
	InstanceID string    `json:"instance_id,omitempty"`
	Region     string    `json:"region"`
	Project    string    `json:"project,omitempty"`
	Stack      string    `json:"stack,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// instanceState tracks the latest revision seen per instance, kept in a
// btree for ordered lookups.
type instanceState struct {
	InstanceID string
	LastRev    uint64
}

// Journal is an append-only operation history backed by bbolt, with an
// in-memory index by instance ID.
type Journal struct {
	mu    sync.RWMutex
	db    *bbolt.DB
	index *btree.BTreeG[*instanceState]
}

// Open opens (or creates) the journal under dir and rebuilds the index.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, "ohjain.db"), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := &Journal{
		db: db,
		index: btree.NewG(32, func(a, b *instanceState) bool {
			return a.InstanceID < b.InstanceID
		}),
	}

	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init() error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketOperations)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return bucket.ForEach(func(_, value []byte) error {
			var entry Entry
			if err := json.Unmarshal(value, &entry); err != nil {
				return fmt.Errorf("corrupt journal entry: %w", err)
			}
			j.indexEntry(&entry)
			return nil
		})
	})
}

// Append records an operation and assigns it the next revision.
func (j *Journal) Append(entry Entry) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	err := j.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOperations)
		rev, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate revision: %w", err)
		}
		entry.Rev = rev

		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
		return bucket.Put(revKey(rev), value)
	})
	if err != nil {
		return 0, err
	}

	j.indexEntry(&entry)
	return entry.Rev, nil
}

// List returns the most recent entries, newest first, up to limit.
// A limit of 0 returns everything.
func (j *Journal) List(limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var entries []Entry
	err := j.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketOperations).Cursor()
		for key, value := cursor.Last(); key != nil; key, value = cursor.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry Entry
			if err := json.Unmarshal(value, &entry); err != nil {
				return fmt.Errorf("corrupt journal entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// LastRevForInstance returns the latest revision that touched the given
// instance, or false when the instance was never seen.
func (j *Journal) LastRevForInstance(instanceID string) (uint64, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	state, ok := j.index.Get(&instanceState{InstanceID: instanceID})
	if !ok {
		return 0, false
	}
	return state.LastRev, true
}

// GetRev fetches one entry by revision.
func (j *Journal) GetRev(rev uint64) (*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var entry *Entry
	err := j.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketOperations).Get(revKey(rev))
		if value == nil {
			return fmt.Errorf("revision %d not found", rev)
		}
		entry = &Entry{}
		return json.Unmarshal(value, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) indexEntry(entry *Entry) {
	if entry.InstanceID == "" {
		return
	}
	state, ok := j.index.Get(&instanceState{InstanceID: entry.InstanceID})
	if !ok || state.LastRev < entry.Rev {
		j.index.ReplaceOrInsert(&instanceState{
			InstanceID: entry.InstanceID,
			LastRev:    entry.Rev,
		})
	}
}

func revKey(rev uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, rev)
	return key
}
