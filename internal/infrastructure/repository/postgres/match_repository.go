package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/match"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type matchTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	HomeTeamID      string         `db:"home_team_public_id"`
	AwayTeamID      string         `db:"away_team_public_id"`
	HomeScore       sql.NullInt64  `db:"home_score"`
	AwayScore       sql.NullInt64  `db:"away_score"`
	MatchDate       time.Time      `db:"match_date"`
	MatchTime       sql.NullString `db:"match_time"`
	Location        sql.NullString `db:"location"`
	SeasonID        string         `db:"season_public_id"`
	AgeGroupID      string         `db:"age_group_public_id"`
	MatchTypeID     string         `db:"match_type_public_id"`
	DivisionID      string         `db:"division_public_id"`
	Status          string         `db:"status"`
	ExternalMatchID sql.NullString `db:"external_match_id"`
	Source          string         `db:"source"`
	ScoreLocked     bool           `db:"score_locked"`
	Version         int            `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func matchFromRow(row matchTableModel) match.Match {
	m := match.Match{
		ID:              row.PublicID,
		HomeTeamID:      row.HomeTeamID,
		AwayTeamID:      row.AwayTeamID,
		MatchDate:       row.MatchDate,
		MatchTime:       nullStringToString(row.MatchTime),
		Location:        nullStringToString(row.Location),
		SeasonID:        row.SeasonID,
		AgeGroupID:      row.AgeGroupID,
		MatchTypeID:     row.MatchTypeID,
		DivisionID:      row.DivisionID,
		Status:          match.Status(row.Status),
		ExternalMatchID: nullStringToString(row.ExternalMatchID),
		Source:          match.Source(row.Source),
		ScoreLocked:     row.ScoreLocked,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.HomeScore.Valid {
		v := int(row.HomeScore.Int64)
		m.HomeScore = &v
	}
	if row.AwayScore.Valid {
		v := int(row.AwayScore.Int64)
		m.AwayScore = &v
	}
	return m
}

func nullableScore(score *int) sql.NullInt64 {
	if score == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*score), Valid: true}
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	query, args, err := qb.InsertInto("matches").
		Columns(
			"public_id", "home_team_public_id", "away_team_public_id", "home_score", "away_score",
			"match_date", "match_time", "location", "season_public_id", "age_group_public_id",
			"match_type_public_id", "division_public_id", "status", "external_match_id", "source",
			"score_locked", "version",
		).
		Values(
			m.ID, m.HomeTeamID, m.AwayTeamID, nullableScore(m.HomeScore), nullableScore(m.AwayScore),
			m.MatchDate, nullableString(m.MatchTime), nullableString(m.Location), m.SeasonID, m.AgeGroupID,
			m.MatchTypeID, m.DivisionID, string(m.Status), nullableString(m.ExternalMatchID), string(m.Source),
			m.ScoreLocked, m.Version,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}

	m.CreatedAt = row.CreatedAt
	m.UpdatedAt = row.UpdatedAt
	return m, nil
}

// Update enforces optimistic concurrency: the WHERE clause requires the
// stored version to match m.Version-1, so a stale write affects zero rows.
func (r *MatchRepository) Update(ctx context.Context, m match.Match) (match.Match, error) {
	query, args, err := qb.Update("matches").
		Set("home_score", nullableScore(m.HomeScore)).
		Set("away_score", nullableScore(m.AwayScore)).
		Set("match_date", m.MatchDate).
		Set("match_time", nullableString(m.MatchTime)).
		Set("location", nullableString(m.Location)).
		Set("status", string(m.Status)).
		Set("score_locked", m.ScoreLocked).
		Set("version", m.Version).
		SetExpr("updated_at", "now()").
		Where(
			qb.Eq("public_id", m.ID),
			qb.Eq("version", m.Version-1),
		).
		Suffix("RETURNING updated_at").
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build update match query: %w", err)
	}

	var row struct {
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, fmt.Errorf("update match: stale version")
		}
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	m.UpdatedAt = row.UpdatedAt
	return m, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalMatchID string) (match.Match, bool, error) {
	if externalMatchID == "" {
		return match.Match{}, false, nil
	}

	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("external_match_id", externalMatchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by external id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by external id: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) GetByDedup(ctx context.Context, d match.Dedup) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("home_team_public_id", d.HomeTeamID),
			qb.Eq("away_team_public_id", d.AwayTeamID),
			qb.Eq("match_date", d.MatchDate),
			qb.Eq("season_public_id", d.SeasonID),
			qb.Eq("age_group_public_id", d.AgeGroupID),
			qb.Eq("match_type_public_id", d.MatchTypeID),
			qb.Eq("division_public_id", d.DivisionID),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by dedup query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by dedup: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

func (r *MatchRepository) List(ctx context.Context, f match.Filter) ([]match.Match, error) {
	conditions := make([]qb.Condition, 0, 8)
	if f.SeasonID != "" {
		conditions = append(conditions, qb.Eq("season_public_id", f.SeasonID))
	}
	if f.AgeGroupID != "" {
		conditions = append(conditions, qb.Eq("age_group_public_id", f.AgeGroupID))
	}
	if f.DivisionID != "" {
		conditions = append(conditions, qb.Eq("division_public_id", f.DivisionID))
	}
	if f.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(f.Status)))
	}
	if f.TeamID != "" {
		conditions = append(conditions, qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", f.TeamID, f.TeamID))
	}
	if !f.DateFrom.IsZero() {
		conditions = append(conditions, qb.Expr("match_date >= ?", f.DateFrom))
	}
	if !f.DateTo.IsZero() {
		conditions = append(conditions, qb.Expr("match_date <= ?", f.DateTo))
	}

	builder := qb.Select("*").From("matches").Where(conditions...).OrderBy("match_date", "id")
	if f.Limit > 0 {
		builder = builder.Limit(f.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}
	if f.Offset > 0 {
		query = fmt.Sprintf("%s OFFSET %d", query, f.Offset)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) ListCompleted(ctx context.Context, leagueID, divisionID, seasonID, ageGroupID string) ([]match.Match, error) {
	conditions := []qb.Condition{qb.Eq("status", string(match.StatusCompleted))}
	if divisionID != "" {
		conditions = append(conditions, qb.Eq("division_public_id", divisionID))
	}
	if seasonID != "" {
		conditions = append(conditions, qb.Eq("season_public_id", seasonID))
	}
	if ageGroupID != "" {
		conditions = append(conditions, qb.Eq("age_group_public_id", ageGroupID))
	}

	query, args, err := qb.Select("matches.*").From("matches").
		Where(conditions...).
		OrderBy("match_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select completed matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select completed matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}
