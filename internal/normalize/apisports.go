package normalize

import (
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// API-Sports (american-football v1) wraps every payload in a "response"
// array. Scores nest totals as {"total": n}; extractNumber handles that.

func apiSportsGames(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	rows, ok := arrayAt(m, "response")
	if !ok {
		return nil, ErrMalformedResponse
	}

	games := make([]resource.Game, 0, len(rows))
	for _, r := range rows {
		home, homeOK := strAt(r, "teams.home.name", "home_team")
		away, awayOK := strAt(r, "teams.away.name", "away_team")
		if !homeOK || !awayOK {
			continue
		}
		id, _ := strAt(r, "game.id", "id")
		start, _ := strAt(r, "game.date.date", "date")
		status, _ := strAt(r, "game.status.short", "game.status.long", "status")
		games = append(games, resource.Game{
			ID:           id,
			HomeTeamName: home,
			AwayTeamName: away,
			HomeScore:    intAt(r, "scores.home.total", "scores.home"),
			AwayScore:    intAt(r, "scores.away.total", "scores.away"),
			StartTime:    start,
			Status:       status,
			Season:       intAt(r, "league.season"),
		})
	}
	if len(games) == 0 && len(rows) > 0 {
		return nil, ErrMalformedResponse
	}
	return games, nil
}

func apiSportsInjuries(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	rows, ok := arrayAt(m, "response")
	if !ok {
		return nil, ErrMalformedResponse
	}

	out := make([]resource.Injury, 0, len(rows))
	for _, r := range rows {
		player, ok := strAt(r, "player.name", "player")
		if !ok {
			continue
		}
		status, _ := strAt(r, "status")
		out = append(out, resource.Injury{
			PlayerName: player,
			TeamName:   firstString(r, "team.name"),
			Status:     status,
			Detail:     firstString(r, "description", "reason"),
			Updated:    firstString(r, "date"),
		})
	}
	if len(out) == 0 && len(rows) > 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}

func apiSportsStandings(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	rows, ok := arrayAt(m, "response")
	if !ok {
		return nil, ErrMalformedResponse
	}

	out := make([]resource.Standing, 0, len(rows))
	for _, r := range rows {
		team, ok := strAt(r, "team.name")
		if !ok {
			continue
		}
		s := resource.Standing{
			TeamName:   team,
			Conference: firstString(r, "conference"),
			Division:   firstString(r, "division"),
		}
		if w, ok := numAt(r, "won", "wins"); ok {
			s.Wins = int(w)
		}
		if l, ok := numAt(r, "lost", "losses"); ok {
			s.Losses = int(l)
		}
		if t, ok := numAt(r, "ties"); ok {
			s.Ties = int(t)
		}
		s.PointsFor = intAt(r, "points.for")
		s.PointsAgainst = intAt(r, "points.against")
		out = append(out, s)
	}
	if len(out) == 0 && len(rows) > 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}
