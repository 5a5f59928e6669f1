package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/result"
	"github.com/trezcool/academia/core/transcript"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	sqlxrepos "github.com/trezcool/academia/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	cli, err := newCommandLine(conf)
	errAndDie(err)

	err = cli.run(os.Args)
	if cli.db != nil {
		if cErr := cli.db.Close(); cErr != nil {
			logger.Error("Failed to close database", cErr)
		}
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		os.Exit(1)
	}
}

// newCommandLine connects to the configured engine. Migrations are left to the migrate command.
func newCommandLine(conf *core.Config) (*commandLine, error) {
	if conf.Database.Engine == core.EngineInMemory {
		db, err := inmemdb.Open()
		if err != nil {
			return nil, err
		}
		return &commandLine{
			catalog:       inmemdb.NewCatalogRepository(db),
			resultSvc:     result.NewService(inmemdb.NewResultStore(db), logger),
			transcriptSvc: transcript.NewService(inmemdb.NewTranscriptSource(db), logger),
			out:           os.Stdout,
		}, nil
	}

	if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return newSQLCommandLine(db), nil
}

func newSQLCommandLine(db *sqlx.DB) *commandLine {
	return &commandLine{
		db:            db,
		catalog:       sqlxrepos.NewCatalogRepository(db),
		resultSvc:     result.NewService(sqlxrepos.NewResultStore(db), logger),
		transcriptSvc: transcript.NewService(sqlxrepos.NewTranscriptSource(db), logger),
		out:           os.Stdout,
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
