package main

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

// caseSummary is what a run leaves behind for a case.
type caseSummary struct {
	Name        string       `json:"name"`
	Fingerprint string       `json:"fingerprint"`
	Time        time.Time    `json:"time"`
	Factors     int          `json:"factors"`
	Degrees     []int        `json:"degrees"`
	Failures    int          `json:"failures"`
	Millis      summaryStats `json:"millis"`
}

// store keeps the latest summary of every case fingerprint.
type store struct {
	db *leveldb.DB
}

func openStore(path string) (*store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &store{db: db}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

// previous returns the stored summary for fingerprint, or nil if there is
// none.
func (s *store) previous(fingerprint string) (*caseSummary, error) {
	b, err := s.db.Get([]byte(fingerprint), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	var cs caseSummary
	if err := json.Unmarshal(b, &cs); err != nil {
		return nil, errors.Wrapf(err, "decode summary %s", fingerprint)
	}
	return &cs, nil
}

func (s *store) save(summaries []caseSummary) error {
	batch := new(leveldb.Batch)
	for _, cs := range summaries {
		b, err := json.Marshal(cs)
		if err != nil {
			return errors.WithStack(err)
		}
		batch.Put([]byte(cs.Fingerprint), b)
	}
	return errors.WithStack(s.db.Write(batch, nil))
}
