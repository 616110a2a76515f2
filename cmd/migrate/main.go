package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/the-connection/app-connection-api/internal/config"
)

var (
	databaseURL = flag.String("database-url", "", "Postgres connection string (defaults to DATABASE_URL)")
	drop        = flag.Bool("drop", false, "Drop all tables before creating them")
	timeout     = flag.Duration("timeout", 2*time.Minute, "Overall migration timeout")
)

var dropStatements = []string{
	`DROP TABLE IF EXISTS interactions`,
	`DROP TABLE IF EXISTS moderation_reports`,
	`DROP TABLE IF EXISTS messages`,
	`DROP TABLE IF EXISTS event_rsvps`,
	`DROP TABLE IF EXISTS events`,
	`DROP TABLE IF EXISTS prayer_requests`,
	`DROP TABLE IF EXISTS microblogs`,
	`DROP TABLE IF EXISTS community_members`,
	`DROP TABLE IF EXISTS communities`,
	`DROP TABLE IF EXISTS follows`,
	`DROP TABLE IF EXISTS users`,
}

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'USER',
		verified_answerer BOOLEAN NOT NULL DEFAULT FALSE,
		preferred_tags TEXT[] NOT NULL DEFAULT '{}',
		interest_tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		follower_id TEXT NOT NULL REFERENCES users(id),
		followed_id TEXT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (follower_id, followed_id)
	)`,
	`CREATE TABLE IF NOT EXISTS communities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		interest_tags TEXT[] NOT NULL DEFAULT '{}',
		member_count INTEGER NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS community_members (
		community_id TEXT NOT NULL REFERENCES communities(id),
		user_id TEXT NOT NULL REFERENCES users(id),
		role TEXT NOT NULL DEFAULT 'member',
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (community_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS microblogs (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL REFERENCES users(id),
		content TEXT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		like_count INTEGER NOT NULL DEFAULT 0,
		comment_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_microblogs_created_at ON microblogs (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_microblogs_author ON microblogs (author_id)`,
	`CREATE TABLE IF NOT EXISTS prayer_requests (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		anonymous BOOLEAN NOT NULL DEFAULT FALSE,
		prayer_count INTEGER NOT NULL DEFAULT 0,
		answered BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		community_id TEXT NOT NULL REFERENCES communities(id),
		created_by TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		stream_url TEXT NOT NULL DEFAULT '',
		starts_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_community ON events (community_id, starts_at)`,
	`CREATE TABLE IF NOT EXISTS event_rsvps (
		event_id TEXT NOT NULL REFERENCES events(id),
		user_id TEXT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL REFERENCES users(id),
		recipient_id TEXT NOT NULL REFERENCES users(id),
		body TEXT NOT NULL,
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages (sender_id, recipient_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS moderation_reports (
		id TEXT PRIMARY KEY,
		reporter_id TEXT NOT NULL REFERENCES users(id),
		content_type TEXT NOT NULL,
		content_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		severity TEXT NOT NULL DEFAULT 'low',
		status TEXT NOT NULL DEFAULT 'open',
		resolution TEXT,
		resolved_by TEXT,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON moderation_reports (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		content_id TEXT NOT NULL,
		content_type TEXT NOT NULL,
		interaction_type TEXT NOT NULL,
		author_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions (user_id, created_at DESC)`,
}

func main() {
	flag.Parse()

	dsn := *databaseURL
	if dsn == "" {
		cfg := config.LoadConfig()
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "no database configured: pass --database-url or set DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("pinging postgres: %v", err)
	}

	if *drop {
		log.Println("dropping existing tables")
		run(ctx, pool, dropStatements)
	}

	run(ctx, pool, statements)
	log.Println("schema is up to date")
}

func run(ctx context.Context, pool *pgxpool.Pool, stmts []string) {
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("executing %.60q: %v", stmt, err)
		}
	}
}
