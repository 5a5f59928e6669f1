package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
)

type resultStore struct {
	db *DB
}

var _ result.Store = (*resultStore)(nil) // interface compliance check

func NewResultStore(db *DB) result.Store {
	return &resultStore{db: db}
}

// WithinTx holds the write lock for the whole transaction; staged writes are applied only if fn succeeds.
func (s *resultStore) WithinTx(ctx context.Context, fn func(tx result.Tx) error) error {
	s.db.Lock()
	defer s.db.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &resultTx{
		db:           s.db,
		enrollments:  make(map[string]result.Enrollment),
		enrollmentBy: make(map[result.Key]string),
		results:      make(map[string]result.Result),
		resultBy:     make(map[string]string),
	}
	if err := fn(tx); err != nil {
		return err // rollback: staged writes are dropped
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *resultStore) GetResult(_ context.Context, key result.Key) (result.Enrollment, result.Result, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	enrID, ok := s.db.enrollmentBy[key]
	if !ok {
		return result.Enrollment{}, result.Result{}, result.ErrEnrollmentNotFound
	}
	resID, ok := s.db.resultBy[enrID]
	if !ok {
		return result.Enrollment{}, result.Result{}, result.ErrResultNotFound
	}
	return s.db.enrollments[enrID], s.db.results[resID], nil
}

func (s *resultStore) DeleteResult(_ context.Context, id string) error {
	s.db.Lock()
	defer s.db.Unlock()

	res, ok := s.db.results[id]
	if !ok {
		return result.ErrResultNotFound
	}
	delete(s.db.results, id)
	delete(s.db.resultBy, res.EnrollmentID)
	return nil
}

// resultTx reads through its staged writes to the committed tables. The caller holds the write lock.
type resultTx struct {
	db *DB

	enrollments  map[string]result.Enrollment
	enrollmentBy map[result.Key]string
	results      map[string]result.Result
	resultBy     map[string]string
}

func (tx *resultTx) CheckReferences(_ context.Context, key result.Key) error {
	if _, ok := tx.db.students[key.StudentID]; !ok {
		return catalog.NotFound(catalog.ErrStudentNotFound, key.StudentID)
	}
	if _, ok := tx.db.subjects[key.SubjectID]; !ok {
		return catalog.NotFound(catalog.ErrSubjectNotFound, key.SubjectID)
	}
	if _, ok := tx.db.semesters[key.SemesterID]; !ok {
		return catalog.NotFound(catalog.ErrSemesterNotFound, key.SemesterID)
	}
	return nil
}

func (tx *resultTx) enrollmentID(key result.Key) (string, bool) {
	if id, ok := tx.enrollmentBy[key]; ok {
		return id, true
	}
	id, ok := tx.db.enrollmentBy[key]
	return id, ok
}

func (tx *resultTx) FindEnrollment(_ context.Context, key result.Key) (result.Enrollment, error) {
	id, ok := tx.enrollmentID(key)
	if !ok {
		return result.Enrollment{}, result.ErrEnrollmentNotFound
	}
	if enr, ok := tx.enrollments[id]; ok {
		return enr, nil
	}
	return tx.db.enrollments[id], nil
}

func (tx *resultTx) CreateEnrollment(_ context.Context, enr result.Enrollment) (result.Enrollment, error) {
	if _, ok := tx.enrollmentID(enr.Key()); ok {
		return result.Enrollment{}, result.ErrEnrollmentExists
	}
	tx.enrollments[enr.ID] = enr
	tx.enrollmentBy[enr.Key()] = enr.ID
	return enr, nil
}

func (tx *resultTx) FindResult(_ context.Context, enrollmentID string) (result.Result, error) {
	id, ok := tx.resultBy[enrollmentID]
	if !ok {
		id, ok = tx.db.resultBy[enrollmentID]
	}
	if !ok {
		return result.Result{}, result.ErrResultNotFound
	}
	if res, ok := tx.results[id]; ok {
		return res, nil
	}
	return tx.db.results[id], nil
}

// SaveResult upserts by enrollment: an existing result keeps its ID and creation time.
func (tx *resultTx) SaveResult(ctx context.Context, res result.Result) (result.Result, error) {
	if prev, err := tx.FindResult(ctx, res.EnrollmentID); err == nil {
		res.ID = prev.ID
		res.CreatedAt = prev.CreatedAt
	}
	tx.results[res.ID] = res
	tx.resultBy[res.EnrollmentID] = res.ID
	return res, nil
}

func (tx *resultTx) commit() {
	for id, enr := range tx.enrollments {
		tx.db.enrollments[id] = enr
	}
	for key, id := range tx.enrollmentBy {
		tx.db.enrollmentBy[key] = id
	}
	for id, res := range tx.results {
		tx.db.results[id] = res
	}
	for enrID, id := range tx.resultBy {
		tx.db.resultBy[enrID] = id
	}
}
