package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/the-connection/app-connection-api/internal/config"
	"github.com/the-connection/app-connection-api/internal/search"
	"github.com/the-connection/app-connection-api/internal/storage"
)

var (
	mode    = flag.String("mode", "all", "What to reindex: all, communities, microblogs")
	limit   = flag.Int("limit", 10000, "Maximum documents to read per collection")
	dryRun  = flag.Bool("dry-run", false, "Read documents but do not write to Typesense")
	timeout = flag.Duration("timeout", 10*time.Minute, "Overall reindex timeout")
)

type stats struct {
	indexed int
	errors  int
}

func main() {
	flag.Parse()

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required for reindexing")
		os.Exit(1)
	}
	if cfg.TypesenseAPIKey == "" {
		fmt.Fprintln(os.Stderr, "TYPESENSE_API_KEY is required for reindexing")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}
	defer store.Close()

	client := search.NewClient(cfg)
	if !*dryRun {
		if err := client.EnsureCollections(ctx); err != nil {
			log.Fatalf("preparing collections: %v", err)
		}
	}

	start := time.Now()
	var total stats

	if *mode == "all" || *mode == "communities" {
		s := reindexCommunities(ctx, store, client)
		log.Printf("communities: %d indexed, %d errors", s.indexed, s.errors)
		total.indexed += s.indexed
		total.errors += s.errors
	}
	if *mode == "all" || *mode == "microblogs" {
		s := reindexMicroblogs(ctx, store, client)
		log.Printf("microblogs: %d indexed, %d errors", s.indexed, s.errors)
		total.indexed += s.indexed
		total.errors += s.errors
	}

	log.Printf("done in %s: %d documents indexed, %d errors", time.Since(start).Round(time.Millisecond), total.indexed, total.errors)
	if total.errors > 0 {
		os.Exit(1)
	}
}

func reindexCommunities(ctx context.Context, store *storage.PostgresStore, client *search.Client) stats {
	var s stats
	communities, err := store.ListCommunities(ctx, *limit)
	if err != nil {
		log.Fatalf("listing communities: %v", err)
	}
	for i := range communities {
		if *dryRun {
			s.indexed++
			continue
		}
		if err := client.IndexCommunity(ctx, &communities[i]); err != nil {
			log.Printf("indexing community %s: %v", communities[i].ID, err)
			s.errors++
			continue
		}
		s.indexed++
	}
	return s
}

func reindexMicroblogs(ctx context.Context, store *storage.PostgresStore, client *search.Client) stats {
	var s stats
	blogs, err := store.ListMicroblogs(ctx, *limit)
	if err != nil {
		log.Fatalf("listing microblogs: %v", err)
	}
	for i := range blogs {
		// The search document carries the author's username.
		if blogs[i].AuthorUsername == "" {
			if author, err := store.UserByID(ctx, blogs[i].AuthorID); err == nil {
				blogs[i].AuthorUsername = author.Username
			}
		}
		if *dryRun {
			s.indexed++
			continue
		}
		if err := client.IndexMicroblog(ctx, &blogs[i]); err != nil {
			log.Printf("indexing microblog %s: %v", blogs[i].ID, err)
			s.errors++
			continue
		}
		s.indexed++
	}
	return s
}
