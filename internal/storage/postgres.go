package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/the-connection/app-connection-api/internal/models"
)

// PostgresStore is the production Store backed by a pgx pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }
func (s *PostgresStore) Close()                         { s.db.Close() }

// --- users & follows ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, display_name, password_hash, role, verified_answerer, preferred_tags, interest_tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
	`
	tag, err := s.db.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.DisplayName, user.PasswordHash,
		user.Role, user.VerifiedAnswerer, user.PreferredTags, user.InterestTags, user.CreatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAlreadyExists
	}
	return nil
}

const userColumns = `id, email, username, display_name, password_hash, role, verified_answerer, preferred_tags, interest_tags, created_at`

func (s *PostgresStore) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
		&u.Role, &u.VerifiedAnswerer, &u.PreferredTags, &u.InterestTags, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.scanUser(row)
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return s.scanUser(row)
}

func (s *PostgresStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return s.scanUser(row)
}

func (s *PostgresStore) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return models.ErrSelfFollow
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO follows (follower_id, followed_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT DO NOTHING
	`, followerID, followedID)
	return err
}

func (s *PostgresStore) Unfollow(ctx context.Context, followerID, followedID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	return err
}

func (s *PostgresStore) FollowedUsers(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT followed_id FROM follows WHERE follower_id = $1 ORDER BY followed_id`, userID)
}

func (s *PostgresStore) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT follower_id FROM follows WHERE followed_id = $1 ORDER BY follower_id`, userID)
}

func (s *PostgresStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
