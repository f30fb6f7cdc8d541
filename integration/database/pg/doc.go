// Package pg provides PostgreSQL connection management with retrying
// connects, goose migrations, and health checking, built on the pgx driver.
//
// Connection establishment retries with exponential backoff to ride out
// transient network failures and service start ordering:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrationsFS, "migrations"); err != nil {
//		return err
//	}
//
// Healthcheck returns a probe function suitable for readiness endpoints.
package pg
