package history

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketCmd = "cmd"

var _ Store = (*BoltStore)(nil)

// BoltStore keeps history lines in a bbolt bucket keyed by big-endian
// sequence numbers, so cursor order is insertion order.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the history database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing command history bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(_ context.Context) ([]string, error) {
	var lines []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			lines = append(lines, string(v))
		}
		return nil
	})
	return lines, err
}

func (s *BoltStore) Append(_ context.Context, lines []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		for _, line := range lines {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			if err := b.Put(marshalSeq(seq), []byte(line)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
