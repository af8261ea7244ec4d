package standing

import (
	"sort"

	"github.com/matchday/league-api/internal/domain/match"
)

// Row is one team's computed position in a standings table.
type Row struct {
	TeamID         string
	TeamName       string
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// TeamNameResolver resolves a team id to its display name for the deterministic
// name-ascending tie-break.
type TeamNameResolver func(teamID string) string

// Compute folds completed matches into ranked standings rows. Ranking is
// points desc, goal difference desc, goals-for desc, team name asc.
func Compute(matches []match.Match, resolveName TeamNameResolver) []Row {
	rows := make(map[string]*Row)

	get := func(teamID string) *Row {
		r, ok := rows[teamID]
		if !ok {
			r = &Row{TeamID: teamID, TeamName: resolveName(teamID)}
			rows[teamID] = r
		}
		return r
	}

	for _, m := range matches {
		if m.Status != match.StatusCompleted || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}

		home := get(m.HomeTeamID)
		away := get(m.AwayTeamID)

		home.Played++
		away.Played++
		home.GoalsFor += *m.HomeScore
		home.GoalsAgainst += *m.AwayScore
		away.GoalsFor += *m.AwayScore
		away.GoalsAgainst += *m.HomeScore

		switch {
		case *m.HomeScore > *m.AwayScore:
			home.Won++
			home.Points += 3
			away.Lost++
		case *m.HomeScore < *m.AwayScore:
			away.Won++
			away.Points += 3
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamName < b.TeamName
	})

	return out
}
