package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/the-connection/app-connection-api/internal/models"
)

// --- recommendation reads ---

func (s *PostgresStore) UserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, preferred_tags, interest_tags FROM users WHERE id = $1
	`, userID)

	var p models.UserProfile
	if err := row.Scan(&p.ID, &p.PreferredTags, &p.InterestTags); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) RecordInteraction(ctx context.Context, interaction *models.Interaction) error {
	// Append-only: rows are never updated or deleted.
	_, err := s.db.Exec(ctx, `
		INSERT INTO interactions (id, user_id, content_id, content_type, interaction_type, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, interaction.ID, interaction.UserID, interaction.ContentID,
		interaction.ContentType, interaction.InteractionType, interaction.AuthorID, interaction.CreatedAt)
	return err
}

func (s *PostgresStore) UserInteractions(ctx context.Context, userID string, limit int) ([]models.Interaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, content_id, content_type, interaction_type, author_id, created_at
		FROM interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var it models.Interaction
		var authorID *string
		if err := rows.Scan(&it.ID, &it.UserID, &it.ContentID, &it.ContentType, &it.InteractionType, &authorID, &it.CreatedAt); err != nil {
			return nil, err
		}
		if authorID != nil {
			it.AuthorID = *authorID
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CandidateMicroblogs hydrates author fields in one join. The share
// count is intentionally absent from the select list: reposts have no
// counter column, so engagement scoring sees zero shares.
func (s *PostgresStore) CandidateMicroblogs(ctx context.Context, userID string, since time.Time) ([]models.Microblog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.author_id, m.content, m.tags, m.like_count, m.comment_count, m.created_at,
		       u.username, u.verified_answerer
		FROM microblogs m
		JOIN users u ON u.id = m.author_id
		WHERE m.author_id <> $1 AND m.created_at >= $2
		ORDER BY m.created_at DESC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Microblog
	for rows.Next() {
		var b models.Microblog
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Content, &b.Tags, &b.LikeCount, &b.CommentCount,
			&b.CreatedAt, &b.AuthorUsername, &b.AuthorVerified); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CandidateCommunities(ctx context.Context, userID string) ([]models.Community, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+communityColumns+` FROM communities c
		WHERE NOT EXISTS (
			SELECT 1 FROM community_members cm
			WHERE cm.community_id = c.id AND cm.user_id = $1
		)
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCommunities(rows)
}
