package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/result"
	"github.com/trezcool/academia/core/transcript"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	sqlxrepos "github.com/trezcool/academia/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Stores groups the storage ports of the configured engine.
type Stores struct {
	dig.Out
	Results     result.Store
	Transcripts transcript.Source
}

// Closer releases the storage when the application stops.
type Closer func() error

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	loggerParam.Logger.Info(fmt.Sprintf("database ready : engine %q", conf.Database.Engine))
	return db, nil
}

// newStores picks the storage by conf.Database.Engine.
func newStores(conf *core.Config, loggerParam DBLoggerParam) (Stores, Closer) {
	if conf.Database.Engine == core.EngineInMemory {
		db, err := inmemdb.Open()
		if err != nil {
			loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return Stores{
			Results:     inmemdb.NewResultStore(db),
			Transcripts: inmemdb.NewTranscriptSource(db),
		}, func() error { return nil }
	}

	db, err := newDB(conf, loggerParam)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Stores{
		Results:     sqlxrepos.NewResultStore(db),
		Transcripts: sqlxrepos.NewTranscriptSource(db),
	}, db.Close
}

func newServer(conf *core.Config, logger core.Logger, resultSvc *result.Service, transcriptSvc *transcript.Service) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Conf:          conf,
		Logger:        logger,
		ResultSvc:     resultSvc,
		TranscriptSvc: transcriptSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(result.NewService))
	must(c.Provide(transcript.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
