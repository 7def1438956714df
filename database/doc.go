// Package database provides the SQL database service built on GORM, with
// SQLite and MySQL drivers, connection pooling, health checks and
// auto-migration.
//
//	svc := database.New(cfg.SQL, log).WithAutoMigrate(&article.Record{})
//	if err := svc.Install(ctx); err != nil {
//	    return err
//	}
//	store := article.NewSQLStore(svc)
package database
