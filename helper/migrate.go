// Package helper drives schema migrations for the migrate command.
package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"sarana/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

var (
	ErrUnknownAction = errors.New("unknown migration action")
	ErrMissingArg    = errors.New("migration action needs a version")
)

type action struct {
	run     func(mig *migrate.Migrate, version int) error
	done    string
	version bool
}

var actions = map[string]action{
	"up":      {run: func(m *migrate.Migrate, _ int) error { return m.Up() }, done: "schema is up to date"},
	"step-up": {run: func(m *migrate.Migrate, _ int) error { return m.Steps(1) }, done: "applied one migration"},
	"down":    {run: func(m *migrate.Migrate, _ int) error { return m.Steps(-1) }, done: "rolled back one migration"},
	"drop":    {run: func(m *migrate.Migrate, _ int) error { return m.Down() }, done: "rolled back every migration"},
	"goto":    {run: func(m *migrate.Migrate, v int) error { return m.Migrate(uint(v)) }, done: "migrated to version", version: true}, //nolint:gosec
	"force":   {run: func(m *migrate.Migrate, v int) error { return m.Force(v) }, done: "forced version", version: true},
}

// Actions lists the accepted action names.
func Actions() []string {
	return []string{"up", "step-up", "down", "drop", "goto", "force", "version"}
}

func databaseName(cfg *config.Config) string {
	return cfg.DB.Postgres.Prefix + cfg.DB.Postgres.Write.Name
}

// DSN is the golang-migrate postgres URL for the write node.
func DSN(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if cfg.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + databaseName(cfg),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Run applies name against the configured database. goto and force read the target
// version from args.
func Run(cfg *config.Config, name string, args ...string) error {
	if name == "version" {
		return report(cfg)
	}

	act, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}

	version := 0

	if act.version {
		if len(args) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingArg, name)
		}

		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid migration version %q: %w", args[0], ErrMissingArg)
		}

		version = parsed
	}

	mig, err := migrate.New(migrationSource, DSN(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err = act.run(mig, version); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", name, err)
	}

	event := log.Info().Str("action", name)
	if act.version {
		event = event.Int("version", version)
	}

	event.Msg(act.done)

	return nil
}

func report(cfg *config.Config) error {
	mig, err := migrate.New(migrationSource, DSN(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("no migration applied yet")

		return nil
	}

	if err != nil {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")

	return nil
}
