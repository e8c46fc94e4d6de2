// Package store is the Postgres adapter behind the scoring core. It reads
// profile and posting snapshots and writes back the derived readiness cache.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/talentmarket/talent-match/internal/talent"
)

// ErrProfileNotFound is returned when the requested profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// Postgres provides read access to profiles, postings and applications, plus
// the readiness cache write-back.
type Postgres struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to Postgres with the given DSN and verifies the connection.
func Open(ctx context.Context, dsn string, connectTimeout time.Duration, logger *zap.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return New(db, logger), nil
}

// New wraps an existing connection. Used by Open and by tests.
func New(db *sql.DB, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, logger: logger}
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

// GetProfile fetches one talent profile with its skills and cached readiness
// fields.
func (s *Postgres) GetProfile(ctx context.Context, userID string) (*talent.Profile, error) {
	const query = `
		SELECT first_name, last_name, headline, bio, hourly_rate, portfolio_url,
		       availability, profile_completion, is_profile_ready, last_validated_at
		FROM talent_profiles
		WHERE user_id = $1`

	var (
		firstName    sql.NullString
		lastName     sql.NullString
		headline     sql.NullString
		bio          sql.NullString
		hourlyRate   sql.NullFloat64
		portfolioURL sql.NullString
		availability sql.NullString
		completion   sql.NullFloat64
		ready        sql.NullBool
		validatedAt  sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&firstName, &lastName, &headline, &bio, &hourlyRate, &portfolioURL,
		&availability, &completion, &ready, &validatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching profile %s: %w", userID, err)
	}

	profile := &talent.Profile{
		UserID:       userID,
		FirstName:    firstName.String,
		LastName:     lastName.String,
		Headline:     headline.String,
		Bio:          bio.String,
		PortfolioURL: portfolioURL.String,
		Availability: talent.ParseAvailability(availability.String),
		Completion:   completion.Float64,
		Ready:        ready.Bool,
	}
	if hourlyRate.Valid {
		profile.HourlyRate = talent.Rate{Set: true, Amount: hourlyRate.Float64}
	}
	if validatedAt.Valid {
		profile.LastValidatedAt = validatedAt.Time
	}

	skills, err := s.profileSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Skills = skills

	return profile, nil
}

func (s *Postgres) profileSkills(ctx context.Context, userID string) ([]talent.SkillRef, error) {
	const query = `
		SELECT s.id, s.name
		FROM profile_skills ps
		JOIN skills s ON s.id = ps.skill_id
		WHERE ps.user_id = $1
		ORDER BY s.id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching skills for profile %s: %w", userID, err)
	}
	defer rows.Close()

	var skills []talent.SkillRef
	for rows.Next() {
		var skill talent.SkillRef
		if err := rows.Scan(&skill.ID, &skill.Name); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill rows: %w", err)
	}
	return skills, nil
}

// GetOpenPostings fetches every PUBLISHED posting with its required skills,
// ordered by creation time then id.
func (s *Postgres) GetOpenPostings(ctx context.Context) (*talent.Postings, error) {
	const query = `
		SELECT id, title, status, salary_min, salary_max, created_at
		FROM job_postings
		WHERE status = $1
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, talent.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("fetching open postings: %w", err)
	}
	defer rows.Close()

	postings := &talent.Postings{}
	var ids []string
	for rows.Next() {
		var (
			posting   talent.JobPosting
			salaryMin sql.NullFloat64
			salaryMax sql.NullFloat64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&posting.ID, &posting.Title, &posting.Status, &salaryMin, &salaryMax, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning posting row: %w", err)
		}
		if salaryMin.Valid && salaryMax.Valid {
			posting.Salary = talent.SalaryRange{Set: true, Min: salaryMin.Float64, Max: salaryMax.Float64}
		}
		if createdAt.Valid {
			posting.CreatedAt = createdAt.Time
		}
		postings.Items = append(postings.Items, &posting)
		ids = append(ids, posting.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posting rows: %w", err)
	}

	if len(ids) == 0 {
		return postings, nil
	}

	skillsByJob, err := s.jobSkills(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, posting := range postings.Items {
		posting.RequiredSkills = skillsByJob[posting.ID]
	}

	return postings, nil
}

func (s *Postgres) jobSkills(ctx context.Context, jobIDs []string) (map[string][]talent.SkillRef, error) {
	const query = `
		SELECT js.job_id, s.id, s.name
		FROM job_skills js
		JOIN skills s ON s.id = js.skill_id
		WHERE js.job_id = ANY($1)
		ORDER BY js.job_id, s.id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(jobIDs))
	if err != nil {
		return nil, fmt.Errorf("fetching job skills: %w", err)
	}
	defer rows.Close()

	skills := make(map[string][]talent.SkillRef)
	for rows.Next() {
		var (
			jobID string
			skill talent.SkillRef
		)
		if err := rows.Scan(&jobID, &skill.ID, &skill.Name); err != nil {
			return nil, fmt.Errorf("scanning job skill row: %w", err)
		}
		skills[jobID] = append(skills[jobID], skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job skill rows: %w", err)
	}
	return skills, nil
}

// GetAppliedJobIDs fetches the ids of postings the talent already applied to.
func (s *Postgres) GetAppliedJobIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT job_id FROM applications WHERE user_id = $1 ORDER BY job_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching applications for %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", err)
	}
	return ids, nil
}

// SaveReadinessCache writes the derived completion fields back onto the
// profile record. The cache is a projection of the completeness scorer's
// output; failures here must not fail the read side, so callers log and move
// on.
func (s *Postgres) SaveReadinessCache(ctx context.Context, userID string, completion float64, ready bool, validatedAt time.Time) error {
	const query = `
		UPDATE talent_profiles
		SET profile_completion = $2, is_profile_ready = $3, last_validated_at = $4
		WHERE user_id = $1`

	result, err := s.db.ExecContext(ctx, query, userID, completion, ready, validatedAt)
	if err != nil {
		return fmt.Errorf("saving readiness cache for %s: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking readiness cache update for %s: %w", userID, err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}

	if s.logger != nil {
		s.logger.Debug("readiness cache saved",
			zap.String("user_id", userID),
			zap.Float64("completion", completion),
			zap.Bool("ready", ready),
		)
	}
	return nil
}
