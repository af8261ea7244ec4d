package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/matchday/league-api/internal/domain/schemaversion"
	"github.com/matchday/league-api/internal/platform/logging"
	"github.com/matchday/league-api/internal/usecase"
)

// Handler wires the HTTP surface to the usecase layer. Its exported methods
// are the request handlers; all but the Health/HealthFull probes open a span.
// Everything else in this package is routing, middleware or response plumbing.
type Handler struct {
	identity      *usecase.IdentityService
	authz         *usecase.AuthorizationEngine
	invites       *usecase.InviteService
	ingestion     *usecase.IngestionService
	query         *usecase.QueryService
	matches       *usecase.MatchService
	leagues       *usecase.LeagueService
	teams         *usecase.TeamService
	clubs         *usecase.ClubService
	catalog       *usecase.CatalogService
	schemaVersion schemaversion.Repository
	logger        *logging.Logger
	validate      *validator.Validate
}

func NewHandler(
	identity *usecase.IdentityService,
	authz *usecase.AuthorizationEngine,
	invites *usecase.InviteService,
	ingestion *usecase.IngestionService,
	query *usecase.QueryService,
	matches *usecase.MatchService,
	leagues *usecase.LeagueService,
	teams *usecase.TeamService,
	clubs *usecase.ClubService,
	catalog *usecase.CatalogService,
	schemaVersion schemaversion.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		identity:      identity,
		authz:         authz,
		invites:       invites,
		ingestion:     ingestion,
		query:         query,
		matches:       matches,
		leagues:       leagues,
		teams:         teams,
		clubs:         clubs,
		catalog:       catalog,
		schemaVersion: schemaVersion,
		logger:        logger,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decodeAndValidate decodes the request body into dst and runs struct tag
// validation, mirroring the teacher's jsoniter+validator request path but
// sharing the sonic codec response encoding already uses.
func decodeAndValidate(ctx context.Context, r *http.Request, v *validator.Validate, dst any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err)
	}
	if v == nil {
		return nil
	}
	if err := v.StructCtx(ctx, dst); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
