// Package history records fixture runs so results can be compared over time.
//
// A Run is built from a fixture.Report and handed to a Storage backend. The
// storage subpackage provides an in-memory backend and a SQLite backend
// (pure Go "sqlite" driver or cgo "sqlite3" driver). The retention subpackage
// prunes old runs, either once or on a cron schedule.
//
//	store, err := storage.Open(&cfg.History)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	if err := store.Store(ctx, history.FromReport(report)); err != nil {
//		return err
//	}
package history
