package standing_test

import (
	"testing"
	"time"

	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/domain/standing"
)

func score(v int) *int { return &v }

func names(m map[string]string) standing.TeamNameResolver {
	return func(teamID string) string { return m[teamID] }
}

func TestCompute_OrdersByPointsThenGoalDifferenceThenGoalsForThenName(t *testing.T) {
	resolve := names(map[string]string{
		"a": "Alpha", "b": "Bravo", "c": "Charlie", "d": "Delta",
	})

	matches := []match.Match{
		{HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusCompleted, HomeScore: score(3), AwayScore: score(0)},
		{HomeTeamID: "c", AwayTeamID: "d", Status: match.StatusCompleted, HomeScore: score(1), AwayScore: score(1)},
		{HomeTeamID: "b", AwayTeamID: "c", Status: match.StatusCompleted, HomeScore: score(2), AwayScore: score(2)},
		{HomeTeamID: "d", AwayTeamID: "a", Status: match.StatusCompleted, HomeScore: score(0), AwayScore: score(0)},
	}

	rows := standing.Compute(matches, resolve)

	order := make([]string, len(rows))
	for i, r := range rows {
		order[i] = r.TeamID
	}

	// a: W(3-0) + D(0-0) = 4 pts, gd +3
	// c: D(1-1) + D(2-2) = 2 pts, gd 0, gf 3
	// d: D(1-1) + D(0-0) = 2 pts, gd 0, gf 1 — ties c on points and gd, loses the goals-for tiebreak
	// b: L(0-3) + D(2-2) = 1 pt, gd -3
	want := []string{"a", "c", "d", "b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", order, want)
		}
	}
}

func TestCompute_IgnoresIncompleteOrUnscoredMatches(t *testing.T) {
	matches := []match.Match{
		{HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled, HomeScore: score(1), AwayScore: score(0)},
		{HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusCompleted, HomeScore: nil, AwayScore: nil},
	}

	rows := standing.Compute(matches, names(nil))
	if len(rows) != 0 {
		t.Fatalf("expected no rows from incomplete/unscored matches, got %v", rows)
	}
}

func TestCompute_IsDeterministicAcrossInputOrder(t *testing.T) {
	resolve := names(map[string]string{"a": "Alpha", "b": "Bravo", "c": "Charlie"})

	forward := []match.Match{
		{HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusCompleted, HomeScore: score(2), AwayScore: score(1)},
		{HomeTeamID: "b", AwayTeamID: "c", Status: match.StatusCompleted, HomeScore: score(0), AwayScore: score(0)},
		{HomeTeamID: "c", AwayTeamID: "a", Status: match.StatusCompleted, HomeScore: score(1), AwayScore: score(3)},
	}
	reversed := make([]match.Match, len(forward))
	for i, m := range forward {
		reversed[len(forward)-1-i] = m
	}

	rowsA := standing.Compute(forward, resolve)
	rowsB := standing.Compute(reversed, resolve)

	if len(rowsA) != len(rowsB) {
		t.Fatalf("row count differs: %d vs %d", len(rowsA), len(rowsB))
	}
	for i := range rowsA {
		if rowsA[i] != rowsB[i] {
			t.Fatalf("row %d differs by input order: %+v vs %+v", i, rowsA[i], rowsB[i])
		}
	}
}

func TestCompute_PointsAndGoalDifferenceArithmetic(t *testing.T) {
	resolve := names(map[string]string{"a": "Alpha", "b": "Bravo"})
	matches := []match.Match{
		{HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusCompleted, HomeScore: score(4), AwayScore: score(2), MatchDate: time.Now()},
	}

	rows := standing.Compute(matches, resolve)
	byID := map[string]standing.Row{}
	for _, r := range rows {
		byID[r.TeamID] = r
	}

	a := byID["a"]
	if a.Played != 1 || a.Won != 1 || a.Points != 3 || a.GoalDifference != 2 {
		t.Fatalf("unexpected home row: %+v", a)
	}
	b := byID["b"]
	if b.Played != 1 || b.Lost != 1 || b.Points != 0 || b.GoalDifference != -2 {
		t.Fatalf("unexpected away row: %+v", b)
	}
}
