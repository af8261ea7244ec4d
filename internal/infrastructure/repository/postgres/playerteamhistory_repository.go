package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/playerteamhistory"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type playerTeamHistoryTableModel struct {
	ID           int64  `db:"id"`
	PlayerID     string `db:"player_public_id"`
	TeamID       string `db:"team_public_id"`
	SeasonID     string `db:"season_public_id"`
	LeagueID     string `db:"league_public_id"`
	DivisionID   string `db:"division_public_id"`
	AgeGroupID   string `db:"age_group_public_id"`
	JerseyNumber int    `db:"jersey_number"`
	Positions    []byte `db:"positions"`
	IsCurrent    bool   `db:"is_current"`
}

func playerTeamHistoryFromRow(row playerTeamHistoryTableModel) playerteamhistory.Entry {
	var positions []string
	if len(row.Positions) > 0 {
		_ = sonic.Unmarshal(row.Positions, &positions)
	}

	return playerteamhistory.Entry{
		PlayerID:     row.PlayerID,
		TeamID:       row.TeamID,
		SeasonID:     row.SeasonID,
		LeagueID:     row.LeagueID,
		DivisionID:   row.DivisionID,
		AgeGroupID:   row.AgeGroupID,
		JerseyNumber: row.JerseyNumber,
		Positions:    positions,
		IsCurrent:    row.IsCurrent,
	}
}

type PlayerTeamHistoryRepository struct {
	db *sqlx.DB
}

func NewPlayerTeamHistoryRepository(db *sqlx.DB) *PlayerTeamHistoryRepository {
	return &PlayerTeamHistoryRepository{db: db}
}

func (r *PlayerTeamHistoryRepository) Upsert(ctx context.Context, e playerteamhistory.Entry) (playerteamhistory.Entry, error) {
	positions, err := sonic.Marshal(e.Positions)
	if err != nil {
		return playerteamhistory.Entry{}, fmt.Errorf("marshal positions: %w", err)
	}

	query, args, buildErr := qb.InsertInto("player_team_history").
		Columns(
			"player_public_id", "team_public_id", "season_public_id", "league_public_id",
			"division_public_id", "age_group_public_id", "jersey_number", "positions", "is_current",
		).
		Values(
			e.PlayerID, e.TeamID, e.SeasonID, e.LeagueID, e.DivisionID, e.AgeGroupID,
			e.JerseyNumber, positions, e.IsCurrent,
		).
		Suffix(`ON CONFLICT (player_public_id, team_public_id, season_public_id)
DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    division_public_id = EXCLUDED.division_public_id,
    age_group_public_id = EXCLUDED.age_group_public_id,
    jersey_number = EXCLUDED.jersey_number,
    positions = EXCLUDED.positions,
    is_current = EXCLUDED.is_current`).
		ToSQL()
	if buildErr != nil {
		return playerteamhistory.Entry{}, fmt.Errorf("build upsert player team history query: %w", buildErr)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return playerteamhistory.Entry{}, fmt.Errorf("upsert player team history: %w", err)
	}
	return e, nil
}

func (r *PlayerTeamHistoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]playerteamhistory.Entry, error) {
	query, args, err := qb.Select("*").From("player_team_history").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("season_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player team history query: %w", err)
	}

	var rows []playerTeamHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player team history: %w", err)
	}

	out := make([]playerteamhistory.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerTeamHistoryFromRow(row))
	}
	return out, nil
}

func (r *PlayerTeamHistoryRepository) GetCurrent(ctx context.Context, playerID string) (playerteamhistory.Entry, bool, error) {
	query, args, err := qb.Select("*").From("player_team_history").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("is_current", true),
		).
		ToSQL()
	if err != nil {
		return playerteamhistory.Entry{}, false, fmt.Errorf("build get current player team history query: %w", err)
	}

	var row playerTeamHistoryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerteamhistory.Entry{}, false, nil
		}
		return playerteamhistory.Entry{}, false, fmt.Errorf("get current player team history: %w", err)
	}
	return playerTeamHistoryFromRow(row), true, nil
}

// SetCurrent clears is_current on every other row for the player before
// marking the given team/season row current, as a single transaction so
// the at-most-one-current invariant holds even under concurrent writers.
func (r *PlayerTeamHistoryRepository) SetCurrent(ctx context.Context, playerID, teamID, seasonID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set current tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("player_team_history").
		Set("is_current", false).
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Expr("NOT (team_public_id = ? AND season_public_id = ?)", teamID, seasonID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear current query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear current player team history: %w", err)
	}

	setQuery, setArgs, err := qb.Update("player_team_history").
		Set("is_current", true).
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("team_public_id", teamID),
			qb.Eq("season_public_id", seasonID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set current query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, setQuery, setArgs...); err != nil {
		return fmt.Errorf("set current player team history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set current tx: %w", err)
	}
	return nil
}
