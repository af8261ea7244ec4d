package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/user"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type userTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	Username           string         `db:"username"`
	Email              string         `db:"email"`
	PhoneNumber        sql.NullString `db:"phone_number"`
	Role               string         `db:"role"`
	ClubID             sql.NullString `db:"club_public_id"`
	TeamID             sql.NullString `db:"team_public_id"`
	DisplayName        sql.NullString `db:"display_name"`
	PlayerNumber       sql.NullInt64  `db:"player_number"`
	Positions          []byte         `db:"positions"`
	AssignedAgeGroupID sql.NullString `db:"assigned_age_group_public_id"`
	InvitedViaCode     sql.NullString `db:"invited_via_code"`
	PasswordHash       string         `db:"password_hash"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func userFromRow(row userTableModel) user.Profile {
	var positions []string
	if len(row.Positions) > 0 {
		_ = sonic.Unmarshal(row.Positions, &positions)
	}

	return user.Profile{
		ID:                 row.PublicID,
		Username:           row.Username,
		Email:              row.Email,
		PhoneNumber:        nullStringToString(row.PhoneNumber),
		Role:               user.Role(row.Role),
		ClubID:             nullStringToString(row.ClubID),
		TeamID:             nullStringToString(row.TeamID),
		DisplayName:        nullStringToString(row.DisplayName),
		PlayerNumber:       nullIntToInt(row.PlayerNumber),
		Positions:          positions,
		AssignedAgeGroupID: nullStringToString(row.AssignedAgeGroupID),
		InvitedViaCode:     nullStringToString(row.InvitedViaCode),
		PasswordHash:       row.PasswordHash,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, p user.Profile) (user.Profile, error) {
	positions, err := sonic.Marshal(p.Positions)
	if err != nil {
		return user.Profile{}, fmt.Errorf("marshal positions: %w", err)
	}

	query, args, buildErr := qb.InsertInto("users").
		Columns(
			"public_id", "username", "email", "phone_number", "role", "club_public_id", "team_public_id",
			"display_name", "player_number", "positions", "assigned_age_group_public_id", "invited_via_code",
			"password_hash",
		).
		Values(
			p.ID, p.Username, p.Email, nullableString(p.PhoneNumber), string(p.Role), nullableString(p.ClubID),
			nullableString(p.TeamID), nullableString(p.DisplayName), nullableInt(p.PlayerNumber), positions,
			nullableString(p.AssignedAgeGroupID), nullableString(p.InvitedViaCode), p.PasswordHash,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if buildErr != nil {
		return user.Profile{}, fmt.Errorf("build insert user query: %w", buildErr)
	}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.Profile{}, fmt.Errorf("insert user: %w", err)
	}

	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return p, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.Profile, bool, error) {
	return r.getBy(ctx, qb.Eq("public_id", id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.Profile, bool, error) {
	return r.getBy(ctx, qb.Expr("lower(username) = lower(?)", username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.Profile, bool, error) {
	return r.getBy(ctx, qb.Expr("lower(email) = lower(?)", email))
}

func (r *UserRepository) getBy(ctx context.Context, condition qb.Condition) (user.Profile, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(condition).ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get user: %w", err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) Update(ctx context.Context, p user.Profile) (user.Profile, error) {
	positions, err := sonic.Marshal(p.Positions)
	if err != nil {
		return user.Profile{}, fmt.Errorf("marshal positions: %w", err)
	}

	query, args, buildErr := qb.Update("users").
		Set("email", p.Email).
		Set("phone_number", nullableString(p.PhoneNumber)).
		Set("role", string(p.Role)).
		Set("club_public_id", nullableString(p.ClubID)).
		Set("team_public_id", nullableString(p.TeamID)).
		Set("display_name", nullableString(p.DisplayName)).
		Set("player_number", nullableInt(p.PlayerNumber)).
		Set("positions", positions).
		Set("assigned_age_group_public_id", nullableString(p.AssignedAgeGroupID)).
		Set("invited_via_code", nullableString(p.InvitedViaCode)).
		Set("password_hash", p.PasswordHash).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", p.ID)).
		Suffix("RETURNING updated_at").
		ToSQL()
	if buildErr != nil {
		return user.Profile{}, fmt.Errorf("build update user query: %w", buildErr)
	}

	var row struct {
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.Profile{}, fmt.Errorf("update user: %w", err)
	}

	p.UpdatedAt = row.UpdatedAt
	return p, nil
}

func (r *UserRepository) ListByTeam(ctx context.Context, teamID string) ([]user.Profile, error) {
	return r.list(ctx, qb.Eq("team_public_id", teamID))
}

func (r *UserRepository) ListByClub(ctx context.Context, clubID string) ([]user.Profile, error) {
	return r.list(ctx, qb.Eq("club_public_id", clubID))
}

func (r *UserRepository) list(ctx context.Context, condition qb.Condition) ([]user.Profile, error) {
	query, args, err := qb.Select("*").From("users").Where(condition).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}
