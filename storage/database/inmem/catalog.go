package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) GetStudent(_ context.Context, id string) (catalog.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return st, nil
	}
	return catalog.Student{}, catalog.ErrStudentNotFound
}

func (repo *catalogRepository) GetSubject(_ context.Context, id string) (catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.subjects[id]; ok {
		return sub, nil
	}
	return catalog.Subject{}, catalog.ErrSubjectNotFound
}

func (repo *catalogRepository) GetSemester(_ context.Context, id string) (catalog.Semester, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sem, ok := repo.db.semesters[id]; ok {
		return sem, nil
	}
	return catalog.Semester{}, catalog.ErrSemesterNotFound
}

func (repo *catalogRepository) SaveStudent(_ context.Context, st catalog.Student) (catalog.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.students {
		if other.RollNumber == st.RollNumber && other.ID != st.ID {
			return catalog.Student{}, catalog.ErrDuplicate
		}
	}
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	repo.db.students[st.ID] = st
	return st, nil
}

func (repo *catalogRepository) SaveSubject(_ context.Context, sub catalog.Subject) (catalog.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.subjects {
		if other.Code == sub.Code && other.ID != sub.ID {
			return catalog.Subject{}, catalog.ErrDuplicate
		}
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreditHours == 0 {
		sub.CreditHours = catalog.DefaultCreditHours
	}
	repo.db.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *catalogRepository) SaveSemester(_ context.Context, sem catalog.Semester) (catalog.Semester, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if sem.ID == "" {
		sem.ID = uuid.New().String()
	}
	sem.StartDate = sem.StartDate.UTC()
	sem.EndDate = sem.EndDate.UTC()
	repo.db.semesters[sem.ID] = sem
	return sem, nil
}
