// Package inmemdb is a transactional in-memory storage, used in development and tests.
// Writers are serialized: a transaction holds the write lock until it commits or rolls back,
// and its writes are only applied on commit.
package inmemdb

import (
	"sync"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
)

type (
	DB struct {
		sync.RWMutex

		students  map[string]catalog.Student
		subjects  map[string]catalog.Subject
		semesters map[string]catalog.Semester

		enrollments  map[string]result.Enrollment
		enrollmentBy map[result.Key]string // unique (student, subject, semester)
		results      map[string]result.Result
		resultBy     map[string]string // unique enrollment_id
	}
)

func Open() (*DB, error) {
	db := &DB{
		students:     make(map[string]catalog.Student),
		subjects:     make(map[string]catalog.Subject),
		semesters:    make(map[string]catalog.Semester),
		enrollments:  make(map[string]result.Enrollment),
		enrollmentBy: make(map[result.Key]string),
		results:      make(map[string]result.Result),
		resultBy:     make(map[string]string),
	}
	return db, nil
}

// Counts returns the number of committed enrollments and results.
func (db *DB) Counts() (enrollments, results int) {
	db.RLock()
	defer db.RUnlock()
	return len(db.enrollments), len(db.results)
}
