package main

import (
	"errors"

	"github.com/trezcool/academia/storage/database"
)

var (
	runMigrationsFunc = database.RunMigrations // mockable

	errNoDatabase = errors.New("migrations need a SQL database engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return runMigrationsFunc(cli.db, args[0], args[1:]...)
}
