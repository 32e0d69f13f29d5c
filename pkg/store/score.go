package store

import (
	"encoding/binary"
	"encoding/json"

	bolt "go.etcd.io/bbolt"
	. "src.gdsl.dev/pkg/store/storedefs"
)

// Scores live in one nested bucket per name, keyed by sequence number.
const bucketScore = "score"

func init() {
	initDB["initialize score table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketScore))
		return err
	}
}

// AddScore records a score under its name, and returns its sequence number.
func (s *dbStore) AddScore(sc Score) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketScore)).CreateBucketIfNotExists([]byte(sc.Name))
		if err != nil {
			return err
		}
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		v, err := json.Marshal(sc)
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), v)
	})
	if err != nil {
		return 0, err
	}
	logger.Printf("added score #%d of %s", seq, sc.Name)
	return int(seq), nil
}

// Scores returns all scores recorded for name, oldest first.
func (s *dbStore) Scores(name string) ([]Score, error) {
	var scores []Score
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketScore)).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			sc, err := unmarshalScore(k, v)
			if err != nil {
				return err
			}
			scores = append(scores, sc)
			return nil
		})
	})
	return scores, err
}

// LastScore returns the most recent score recorded for name.
func (s *dbStore) LastScore(name string) (Score, error) {
	var sc Score
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketScore)).Bucket([]byte(name))
		if b == nil {
			return ErrNoScore
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return ErrNoScore
		}
		var err error
		sc, err = unmarshalScore(k, v)
		return err
	})
	return sc, err
}

// DelScores deletes all scores recorded for name. Deleting the scores of a
// name that has none is not an error.
func (s *dbStore) DelScores(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(bucketScore)).DeleteBucket([]byte(name))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

// Names returns the names that have recorded scores, in lexicographic order.
func (s *dbStore) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketScore)).ForEach(func(k, v []byte) error {
			// Nested buckets have nil values.
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

func unmarshalScore(k, v []byte) (Score, error) {
	var sc Score
	if err := json.Unmarshal(v, &sc); err != nil {
		return Score{}, err
	}
	sc.Seq = int(unmarshalSeq(k))
	return sc, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
