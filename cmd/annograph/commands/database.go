package commands

import (
	"database/sql"

	"github.com/teranos/annograph/am"
	"github.com/teranos/annograph/db"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/graphstore"
	"github.com/teranos/annograph/logger"
)

// openStore opens and migrates the graph store at dbPath. An empty dbPath
// falls back to the configured database path. Callers close the returned
// connection.
func openStore(dbPath string) (*sql.DB, *graphstore.Store, error) {
	if dbPath == "" {
		cfg, err := am.Load()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get database path")
		}
		dbPath = cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, graphstore.NewStore(database, logger.ComponentLogger("graphstore")), nil
}
