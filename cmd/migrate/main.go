package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taskmanager/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations live in internal/migrations as NNNN_name.up.sql / NNNN_name.down.sql
// pairs. Applied versions are tracked in schema_migrations so each step runs
// exactly once and the latest one can be rolled back with -down.
func main() {
	up := flag.Bool("up", false, "apply pending migrations")
	down := flag.Bool("down", false, "roll back the latest applied migration")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	if _, err := pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}

	versions, err := readVersions(*dir)
	if err != nil {
		log.Fatalf("read migrations: %v", err)
	}

	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		log.Fatalf("read applied versions: %v", err)
	}

	switch {
	case *up:
		for _, v := range versions {
			if applied[v] {
				continue
			}
			if err := runFile(ctx, pool, filepath.Join(*dir, v+".up.sql")); err != nil {
				log.Fatalf("apply %s: %v", v, err)
			}
			if _, err := pool.Exec(ctx,
				`INSERT INTO schema_migrations (version) VALUES ($1)`, v); err != nil {
				log.Fatalf("record %s: %v", v, err)
			}
			fmt.Printf("applied %s\n", v)
		}
	case *down:
		last := ""
		for _, v := range versions {
			if applied[v] {
				last = v
			}
		}
		if last == "" {
			fmt.Println("nothing to roll back")
			return
		}
		if err := runFile(ctx, pool, filepath.Join(*dir, last+".down.sql")); err != nil {
			log.Fatalf("roll back %s: %v", last, err)
		}
		if _, err := pool.Exec(ctx,
			`DELETE FROM schema_migrations WHERE version = $1`, last); err != nil {
			log.Fatalf("unrecord %s: %v", last, err)
		}
		fmt.Printf("rolled back %s\n", last)
	default:
		for _, v := range versions {
			state := "pending"
			if applied[v] {
				state = "applied"
			}
			fmt.Printf("%s\t%s\n", v, state)
		}
	}
}

// readVersions lists migration versions (file names without .up.sql) in order.
func readVersions(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var versions []string
	for _, f := range files {
		name := f.Name()
		if strings.HasSuffix(name, ".up.sql") {
			versions = append(versions, strings.TrimSuffix(name, ".up.sql"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func runFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, string(b))
	return err
}
