package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Config holds connection settings for one database.
type Config struct {
	Host           string
	Port           string
	User           string
	Password       string
	DB             string
	MigrationsPath string
}

// ConfigFromEnv reads <prefix>_PG_{HOST,PORT,USER,PASSWORD,DB}.
func ConfigFromEnv(prefix, migrationsPath string) Config {
	port := os.Getenv(prefix + "_PG_PORT")
	if port == "" {
		port = "5432"
	}

	return Config{
		Host:           os.Getenv(prefix + "_PG_HOST"),
		Port:           port,
		User:           os.Getenv(prefix + "_PG_USER"),
		Password:       os.Getenv(prefix + "_PG_PASSWORD"),
		DB:             os.Getenv(prefix + "_PG_DB"),
		MigrationsPath: migrationsPath,
	}
}

// DSN returns the libpq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DB,
	)
}

// Client represents a Postgres client.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool.
func (p *Client) Pool() *pgxpool.Pool {
	return p.pool
}

// Begin starts a transaction.
func (p *Client) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.pool.Begin(ctx)
}

// Ping checks the connection.
func (p *Client) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the database connection for graceful shutdown.
func (p *Client) Close() {
	p.pool.Close()
}

// MustNewClient creates a new Postgres client and applies pending migrations.
func MustNewClient(cfg Config) *Client {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		panic(err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		panic(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		panic(err)
	}

	// Run migrations using goose with stdlib adapter
	if err := goose.SetDialect("postgres"); err != nil {
		panic(err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := goose.Up(db, cfg.MigrationsPath); err != nil &&
		!errors.Is(err, goose.ErrNoNextVersion) {
		panic(err)
	}

	return &Client{
		pool: pool,
	}
}
