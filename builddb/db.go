// Package builddb provides the persistent cache database using bbolt:
// built binary packages indexed by package spec, plus a history of
// planning runs.
package builddb

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
)

// Bucket names for bbolt database
const (
	BucketBinaries = "binaries"
	BucketRuns     = "runs"
)

// DB wraps a bbolt database for binary-package caching and run history
type DB struct {
	db   *bolt.DB
	path string
}

// RunRecord represents a single planning run with its request set and outcome
type RunRecord struct {
	UUID      string    `json:"uuid"`
	Command   string    `json:"command"` // "install" | "upgrade" | "remove" | "export"
	Specs     []string  `json:"specs"`
	Actions   int       `json:"actions"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// OpenDB opens or creates a bbolt database at the given path. It
// initializes the required buckets (binaries, runs) if they don't exist.
// The database is opened with 0600 permissions.
func OpenDB(path string) (*DB, error) {
	bdb, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, &DatabaseError{Op: "open", Err: err}
	}

	// Initialize required buckets in a single write transaction
	err = bdb.Update(func(tx *bolt.Tx) error {
		// Binaries bucket stores BinaryControlFile JSON keyed by spec
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketBinaries)); err != nil {
			return &DatabaseError{Op: "create bucket", Bucket: BucketBinaries, Err: err}
		}

		// Runs bucket stores RunRecord JSON keyed by UUID
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketRuns)); err != nil {
			return &DatabaseError{Op: "create bucket", Bucket: BucketRuns, Err: err}
		}

		return nil
	})

	if err != nil {
		// Close database if bucket initialization fails
		bdb.Close()
		return nil, err
	}

	return &DB{
		db:   bdb,
		path: path,
	}, nil
}

// Close closes the database connection and flushes any pending writes to
// disk. It is safe to call Close multiple times.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// PutBinaryControlFile stores the metadata of a built package, replacing
// any previous record for the same spec.
func (db *DB) PutBinaryControlFile(bcf *ports.BinaryControlFile) error {
	key := bcf.Core.Spec.String()
	if bcf.Core.Spec.Name == "" {
		return &ValidationError{Field: "bcf.Core.Spec", Value: key, Err: ErrEmptySpec}
	}

	data, err := json.Marshal(bcf)
	if err != nil {
		return &RecordError{Op: "marshal", Key: key, Err: err}
	}

	err = db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketBinaries))
		if bucket == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketBinaries, Err: ErrBucketNotFound}
		}
		return bucket.Put([]byte(key), data)
	})

	if err != nil {
		return &RecordError{Op: "save", Key: key, Err: err}
	}

	return nil
}

// GetBinaryControlFile retrieves a cached built package by spec. It
// implements the export planner's binary-cache lookup: any failure is a
// miss, and the planner falls back to source metadata.
func (db *DB) GetBinaryControlFile(spec specs.PackageSpec) (*ports.BinaryControlFile, bool) {
	var bcf *ports.BinaryControlFile

	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketBinaries))
		if bucket == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketBinaries, Err: ErrBucketNotFound}
		}

		data := bucket.Get([]byte(spec.String()))
		if data == nil {
			return nil
		}

		bcf = &ports.BinaryControlFile{}
		return json.Unmarshal(data, bcf)
	})

	if err != nil || bcf == nil {
		return nil, false
	}
	return bcf, true
}

// SaveRun stores a RunRecord in the database. The record is serialized to
// JSON and stored in the runs bucket with the UUID as the key.
func (db *DB) SaveRun(rec *RunRecord) error {
	if rec.UUID == "" {
		return &ValidationError{Field: "record.UUID", Err: ErrEmptyUUID}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return &RecordError{Op: "marshal", Key: rec.UUID, Err: err}
	}

	err = db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketRuns))
		if bucket == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketRuns, Err: ErrBucketNotFound}
		}
		return bucket.Put([]byte(rec.UUID), data)
	})

	if err != nil {
		return &RecordError{Op: "save", Key: rec.UUID, Err: err}
	}

	return nil
}

// GetRun retrieves a RunRecord from the database by its UUID.
func (db *DB) GetRun(uuid string) (*RunRecord, error) {
	if uuid == "" {
		return nil, &ValidationError{Field: "uuid", Err: ErrEmptyUUID}
	}

	var rec RunRecord

	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketRuns))
		if bucket == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketRuns, Err: ErrBucketNotFound}
		}

		data := bucket.Get([]byte(uuid))
		if data == nil {
			return &RecordError{Op: "get", Key: uuid, Err: ErrRecordNotFound}
		}

		return json.Unmarshal(data, &rec)
	})

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// Stats summarizes the database contents
type Stats struct {
	DatabasePath  string
	TotalBinaries int
	TotalRuns     int
}

// Stats counts the cached binaries and recorded runs.
func (db *DB) Stats() (*Stats, error) {
	stats := &Stats{DatabasePath: db.path}

	err := db.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket([]byte(BucketBinaries)); bucket != nil {
			stats.TotalBinaries = bucket.Stats().KeyN
		}
		if bucket := tx.Bucket([]byte(BucketRuns)); bucket != nil {
			stats.TotalRuns = bucket.Stats().KeyN
		}
		return nil
	})

	if err != nil {
		return nil, &DatabaseError{Op: "stats", Err: err}
	}

	return stats, nil
}
