package testutil

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
)

// PrepareDB opens a migrated sqlite database in a temporary directory, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "academia.db"))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// NewConfig returns the TEST configuration.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = true
	conf.Database.Engine = core.EngineInMemory
	return conf
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewLogger returns a core.Logger writing to the test log.
func NewLogger(t *testing.T) core.Logger {
	return logsvc.NewRollbarLogger(log.New(testWriter{t: t}, "TEST : ", 0), NewConfig())
}

func CreateStudent(t *testing.T, repo catalog.Repository, name, rollNumber string) catalog.Student {
	t.Helper()

	st := catalog.Student{Name: name, RollNumber: rollNumber, Program: "BSCS"}
	if err := st.Validate(); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	st, err := repo.SaveStudent(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

// CreateSubject saves a subject; creditHours 0 gets catalog.DefaultCreditHours.
func CreateSubject(t *testing.T, repo catalog.Repository, code string, creditHours int) catalog.Subject {
	t.Helper()

	sub := catalog.Subject{Code: code, Name: "Subject " + code, CreditHours: creditHours}
	if err := sub.Validate(); err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	sub, err := repo.SaveSubject(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

// CreateSemester saves a semester running ~4 months from start.
func CreateSemester(t *testing.T, repo catalog.Repository, name string, start time.Time) catalog.Semester {
	t.Helper()

	sem := catalog.Semester{Name: name, StartDate: start, EndDate: start.AddDate(0, 4, 0)}
	if err := sem.Validate(); err != nil {
		t.Fatalf("CreateSemester() failed: %v", err)
	}
	sem, err := repo.SaveSemester(context.Background(), sem)
	if err != nil {
		t.Fatalf("CreateSemester() failed: %v", err)
	}
	return sem
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
