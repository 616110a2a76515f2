package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/the-connection/app-connection-api/internal/models"
)

// --- communities ---

func (s *PostgresStore) CreateCommunity(ctx context.Context, community *models.Community) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO communities (id, name, slug, description, interest_tags, member_count, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
	`, community.ID, community.Name, community.Slug, community.Description,
		community.InterestTags, community.CreatedBy, community.CreatedAt)
	if err != nil {
		return err
	}

	// The creator is the first member.
	_, err = tx.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id, role, joined_at)
		VALUES ($1, $2, 'leader', $3)
	`, community.ID, community.CreatedBy, community.CreatedAt)
	if err != nil {
		return err
	}

	community.MemberCount = 1
	return tx.Commit(ctx)
}

const communityColumns = `id, name, slug, description, interest_tags, member_count, created_by, created_at`

func scanCommunity(row pgx.Row) (*models.Community, error) {
	var c models.Community
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.InterestTags,
		&c.MemberCount, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) CommunityByID(ctx context.Context, id string) (*models.Community, error) {
	row := s.db.QueryRow(ctx, `SELECT `+communityColumns+` FROM communities WHERE id = $1`, id)
	return scanCommunity(row)
}

func (s *PostgresStore) ListCommunities(ctx context.Context, limit int) ([]models.Community, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+communityColumns+` FROM communities
		ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCommunities(rows)
}

func collectCommunities(rows pgx.Rows) ([]models.Community, error) {
	var out []models.Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) JoinCommunity(ctx context.Context, communityID, userID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id, role, joined_at)
		VALUES ($1, $2, 'member', now())
		ON CONFLICT DO NOTHING
	`, communityID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `UPDATE communities SET member_count = member_count + 1 WHERE id = $1`, communityID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) LeaveCommunity(ctx context.Context, communityID, userID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`, communityID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `UPDATE communities SET member_count = member_count - 1 WHERE id = $1`, communityID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) UserCommunityIDs(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT community_id FROM community_members WHERE user_id = $1 ORDER BY community_id`, userID)
}

// --- microblogs ---

func (s *PostgresStore) CreateMicroblog(ctx context.Context, blog *models.Microblog) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO microblogs (id, author_id, content, tags, like_count, comment_count, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5)
	`, blog.ID, blog.AuthorID, blog.Content, blog.Tags, blog.CreatedAt)
	return err
}

func (s *PostgresStore) MicroblogByID(ctx context.Context, id string) (*models.Microblog, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, author_id, content, tags, like_count, comment_count, created_at
		FROM microblogs WHERE id = $1
	`, id)

	var b models.Microblog
	err := row.Scan(&b.ID, &b.AuthorID, &b.Content, &b.Tags, &b.LikeCount, &b.CommentCount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) ListMicroblogs(ctx context.Context, limit int) ([]models.Microblog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, author_id, content, tags, like_count, comment_count, created_at
		FROM microblogs ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Microblog
	for rows.Next() {
		var b models.Microblog
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Content, &b.Tags, &b.LikeCount, &b.CommentCount, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LikeMicroblog(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE microblogs SET like_count = like_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// --- prayer requests ---

func (s *PostgresStore) CreatePrayerRequest(ctx context.Context, req *models.PrayerRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO prayer_requests (id, author_id, title, body, anonymous, prayer_count, answered, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, false, $6)
	`, req.ID, req.AuthorID, req.Title, req.Body, req.Anonymous, req.CreatedAt)
	return err
}

const prayerColumns = `id, author_id, title, body, anonymous, prayer_count, answered, created_at`

func scanPrayer(row pgx.Row) (*models.PrayerRequest, error) {
	var p models.PrayerRequest
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Anonymous, &p.PrayerCount, &p.Answered, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) PrayerRequestByID(ctx context.Context, id string) (*models.PrayerRequest, error) {
	row := s.db.QueryRow(ctx, `SELECT `+prayerColumns+` FROM prayer_requests WHERE id = $1`, id)
	return scanPrayer(row)
}

func (s *PostgresStore) ListPrayerRequests(ctx context.Context, limit int) ([]models.PrayerRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+prayerColumns+` FROM prayer_requests ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PrayerRequest
	for rows.Next() {
		p, err := scanPrayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PrayForRequest(ctx context.Context, id string) (*models.PrayerRequest, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE prayer_requests SET prayer_count = prayer_count + 1
		WHERE id = $1
		RETURNING `+prayerColumns+`
	`, id)
	return scanPrayer(row)
}

// --- events ---

func (s *PostgresStore) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO events (id, community_id, title, description, location, stream_url, starts_at, ends_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, event.ID, event.CommunityID, event.Title, event.Description, event.Location,
		event.StreamURL, event.StartsAt, event.EndsAt, event.CreatedBy, event.CreatedAt)
	return err
}

const eventColumns = `id, community_id, title, description, location, stream_url, starts_at, ends_at, created_by, created_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.CommunityID, &e.Title, &e.Description, &e.Location,
		&e.StreamURL, &e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (s *PostgresStore) ListEvents(ctx context.Context, communityID string, limit int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at ASC LIMIT $1`
	args := []any{limit}
	if communityID != "" {
		query = `SELECT ` + eventColumns + ` FROM events WHERE community_id = $1 ORDER BY starts_at ASC LIMIT $2`
		args = []any{communityID, limit}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RSVPEvent(ctx context.Context, rsvp *models.EventRSVP) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO event_rsvps (event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status
	`, rsvp.EventID, rsvp.UserID, rsvp.Status, rsvp.CreatedAt)
	return err
}

// --- messages ---

func (s *PostgresStore) CreateMessage(ctx context.Context, msg *models.DirectMessage) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.SenderID, msg.RecipientID, msg.Body, msg.CreatedAt)
	return err
}

func (s *PostgresStore) Conversation(ctx context.Context, userA, userB string, limit int) ([]models.DirectMessage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, sender_id, recipient_id, body, read_at, created_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at DESC LIMIT $3
	`, userA, userB, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DirectMessage
	for rows.Next() {
		var m models.DirectMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- moderation ---

func (s *PostgresStore) CreateReport(ctx context.Context, report *models.ModerationReport) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO moderation_reports (id, reporter_id, content_type, content_id, reason, status, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, report.ID, report.ReporterID, report.ContentType, report.ContentID,
		report.Reason, report.Status, report.Severity, report.CreatedAt)
	return err
}

const reportColumns = `id, reporter_id, content_type, content_id, reason, status, severity, resolution, resolved_by, resolved_at, created_at`

func scanReport(row pgx.Row) (*models.ModerationReport, error) {
	var r models.ModerationReport
	var severity, resolution, resolvedBy *string
	err := row.Scan(&r.ID, &r.ReporterID, &r.ContentType, &r.ContentID, &r.Reason,
		&r.Status, &severity, &resolution, &resolvedBy, &r.ResolvedAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if severity != nil {
		r.Severity = *severity
	}
	if resolution != nil {
		r.Resolution = *resolution
	}
	if resolvedBy != nil {
		r.ResolvedBy = *resolvedBy
	}
	return &r, nil
}

func (s *PostgresStore) ReportByID(ctx context.Context, id string) (*models.ModerationReport, error) {
	row := s.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM moderation_reports WHERE id = $1`, id)
	return scanReport(row)
}

func (s *PostgresStore) ListReports(ctx context.Context, status string, limit int) ([]models.ModerationReport, error) {
	query := `SELECT ` + reportColumns + ` FROM moderation_reports ORDER BY created_at DESC LIMIT $1`
	args := []any{limit}
	if status != "" {
		query = `SELECT ` + reportColumns + ` FROM moderation_reports WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
		args = []any{status, limit}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ModerationReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ResolveReport(ctx context.Context, id, resolverID, status, resolution string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE moderation_reports
		SET status = $1, resolution = $2, resolved_by = $3, resolved_at = now()
		WHERE id = $4 AND status = 'open'
	`, status, resolution, resolverID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already closed; disambiguate for the caller.
		if _, err := s.ReportByID(ctx, id); err != nil {
			return err
		}
		return models.ErrReportAlreadyClosed
	}
	return nil
}
