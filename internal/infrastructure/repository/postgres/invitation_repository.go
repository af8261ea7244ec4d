package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/invitation"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type invitationTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Code        string         `db:"code"`
	Type        string         `db:"type"`
	TeamID      sql.NullString `db:"team_public_id"`
	ClubID      sql.NullString `db:"club_public_id"`
	AgeGroupID  sql.NullString `db:"age_group_public_id"`
	MaxUses     int            `db:"max_uses"`
	CurrentUses int            `db:"current_uses"`
	Status      string         `db:"status"`
	ExpiresAt   time.Time      `db:"expires_at"`
	CreatedBy   string         `db:"created_by_public_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func invitationFromRow(row invitationTableModel) invitation.Invitation {
	return invitation.Invitation{
		ID:          row.PublicID,
		Code:        row.Code,
		InviteType:  invitation.Type(row.Type),
		TeamID:      nullStringToString(row.TeamID),
		ClubID:      nullStringToString(row.ClubID),
		AgeGroupID:  nullStringToString(row.AgeGroupID),
		MaxUses:     row.MaxUses,
		CurrentUses: row.CurrentUses,
		Status:      invitation.Status(row.Status),
		ExpiresAt:   row.ExpiresAt,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type InvitationRepository struct {
	db *sqlx.DB
}

func NewInvitationRepository(db *sqlx.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	query, args, err := qb.InsertInto("invitations").
		Columns(
			"public_id", "code", "type", "team_public_id", "club_public_id", "age_group_public_id",
			"max_uses", "current_uses", "status", "expires_at", "created_by_public_id",
		).
		Values(
			inv.ID, inv.Code, string(inv.InviteType), nullableString(inv.TeamID), nullableString(inv.ClubID),
			nullableString(inv.AgeGroupID), inv.MaxUses, inv.CurrentUses, string(inv.Status), inv.ExpiresAt,
			inv.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("build insert invitation query: %w", err)
	}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return invitation.Invitation{}, fmt.Errorf("insert invitation: %w", err)
	}

	inv.CreatedAt = row.CreatedAt
	inv.UpdatedAt = row.UpdatedAt
	return inv, nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id string) (invitation.Invitation, bool, error) {
	return r.getBy(ctx, qb.Eq("public_id", id))
}

func (r *InvitationRepository) GetByCode(ctx context.Context, code string) (invitation.Invitation, bool, error) {
	return r.getBy(ctx, qb.Eq("code", code))
}

func (r *InvitationRepository) getBy(ctx context.Context, condition qb.Condition) (invitation.Invitation, bool, error) {
	query, args, err := qb.Select("*").From("invitations").Where(condition).ToSQL()
	if err != nil {
		return invitation.Invitation{}, false, fmt.Errorf("build get invitation query: %w", err)
	}

	var row invitationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invitation.Invitation{}, false, nil
		}
		return invitation.Invitation{}, false, fmt.Errorf("get invitation: %w", err)
	}
	return invitationFromRow(row), true, nil
}

func (r *InvitationRepository) List(ctx context.Context, f invitation.Filter) ([]invitation.Invitation, error) {
	conditions := make([]qb.Condition, 0, 2)
	if f.CreatedBy != "" {
		conditions = append(conditions, qb.Eq("created_by_public_id", f.CreatedBy))
	}
	if f.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(f.Status)))
	}

	query, args, err := qb.Select("*").From("invitations").Where(conditions...).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select invitations query: %w", err)
	}

	var rows []invitationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select invitations: %w", err)
	}

	out := make([]invitation.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, invitationFromRow(row))
	}
	return out, nil
}

func (r *InvitationRepository) Cancel(ctx context.Context, id string) (invitation.Invitation, error) {
	query, args, err := qb.Update("invitations").
		Set("status", string(invitation.StatusCancelled)).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", id)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("build cancel invitation query: %w", err)
	}

	var row invitationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return invitation.Invitation{}, fmt.Errorf("cancel invitation: %w", err)
	}
	return invitationFromRow(row), nil
}

// ConsumeAtomic increments current_uses and, once exhausted, flips status
// to consumed in a single statement guarded by the row's own state so two
// concurrent consumers cannot both succeed past max_uses.
func (r *InvitationRepository) ConsumeAtomic(ctx context.Context, code string, now time.Time) (invitation.Invitation, bool, error) {
	query := `
UPDATE invitations
SET current_uses = current_uses + 1,
    status = CASE WHEN current_uses + 1 >= max_uses THEN 'consumed' ELSE status END,
    updated_at = now()
WHERE code = $1
  AND status = 'pending'
  AND expires_at > $2
  AND current_uses < max_uses
RETURNING *`

	var row invitationTableModel
	if err := r.db.GetContext(ctx, &row, query, code, now); err != nil {
		if isNotFound(err) {
			existing, _, getErr := r.GetByCode(ctx, code)
			if getErr != nil {
				return invitation.Invitation{}, false, getErr
			}
			return existing, false, nil
		}
		return invitation.Invitation{}, false, fmt.Errorf("consume invitation: %w", err)
	}
	return invitationFromRow(row), true, nil
}
