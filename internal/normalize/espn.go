package normalize

import (
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// ESPN site API shapes. No auth, generous envelopes, deeply nested teams.

// espnGames maps the scoreboard response into canonical games.
func espnGames(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	events, ok := arrayAt(m, "events")
	if !ok {
		return nil, ErrMalformedResponse
	}

	games := make([]resource.Game, 0, len(events))
	for _, ev := range events {
		id, _ := strAt(ev, "id", "uid")
		var home, away string
		var homeScore, awayScore *int
		competitors, _ := arrayAt(ev, "competitions.0.competitors", "competitors")
		for _, c := range competitors {
			side, _ := strAt(c, "homeAway")
			name, nameOK := strAt(c, "team.displayName", "team.name", "team.shortDisplayName")
			if !nameOK {
				continue
			}
			switch side {
			case "home":
				home = name
				homeScore = intAt(c, "score")
			case "away":
				away = name
				awayScore = intAt(c, "score")
			}
		}
		if home == "" || away == "" {
			continue
		}
		start, _ := strAt(ev, "date", "competitions.0.date")
		status, _ := strAt(ev, "status.type.state", "status.type.description")
		games = append(games, resource.Game{
			ID:           id,
			HomeTeamName: home,
			AwayTeamName: away,
			HomeScore:    homeScore,
			AwayScore:    awayScore,
			StartTime:    start,
			Status:       status,
			Week:         intAt(ev, "week.number"),
			Season:       intAt(ev, "season.year"),
		})
	}
	if len(games) == 0 && len(events) > 0 {
		return nil, ErrMalformedResponse
	}
	return games, nil
}

// espnInjuries maps the league injuries response. Entries are grouped per
// team, each carrying its own athlete list.
func espnInjuries(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	teams, ok := arrayAt(m, "injuries", "items")
	if !ok {
		return nil, ErrMalformedResponse
	}

	var out []resource.Injury
	for _, t := range teams {
		teamName, _ := strAt(t, "displayName", "team.displayName", "team.name")
		entries, _ := arrayAt(t, "injuries", "entries")
		for _, e := range entries {
			player, ok := strAt(e, "athlete.displayName", "athlete.fullName", "playerName")
			if !ok {
				continue
			}
			status, _ := strAt(e, "status", "type.description")
			detail, _ := strAt(e, "details.type", "details.detail", "shortComment", "longComment")
			updated, _ := strAt(e, "date")
			out = append(out, resource.Injury{
				PlayerName: player,
				TeamName:   teamName,
				Position:   firstString(e, "athlete.position.abbreviation", "athlete.position.name"),
				Status:     status,
				Detail:     detail,
				Updated:    updated,
			})
		}
	}
	if len(out) == 0 && len(teams) > 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}

// espnStandings maps the standings response. The league shape nests entries
// under per-conference children; some season views return a flat entry list.
func espnStandings(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	type group struct {
		conference string
		entries    []interface{}
	}
	var groups []group
	if children, ok := arrayAt(m, "children"); ok {
		for _, c := range children {
			name, _ := strAt(c, "name", "abbreviation")
			if entries, ok := arrayAt(c, "standings.entries"); ok {
				groups = append(groups, group{conference: name, entries: entries})
			}
		}
	} else if entries, ok := arrayAt(m, "standings.entries", "entries"); ok {
		groups = append(groups, group{entries: entries})
	}
	if len(groups) == 0 {
		return nil, ErrMalformedResponse
	}

	var out []resource.Standing
	for _, g := range groups {
		for _, e := range g.entries {
			team, ok := strAt(e, "team.displayName", "team.name")
			if !ok {
				continue
			}
			s := resource.Standing{TeamName: team, Conference: g.conference}
			stats, _ := arrayAt(e, "stats")
			for _, st := range stats {
				name, _ := strAt(st, "name", "type")
				val, valOK := numAt(st, "value")
				if !valOK {
					continue
				}
				switch name {
				case "wins":
					s.Wins = int(val)
				case "losses":
					s.Losses = int(val)
				case "ties":
					s.Ties = int(val)
				case "winPercent":
					v := val
					s.WinPercent = &v
				case "pointsFor":
					n := int(val)
					s.PointsFor = &n
				case "pointsAgainst":
					n := int(val)
					s.PointsAgainst = &n
				}
			}
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}

// espnTeams maps the teams listing.
func espnTeams(body []byte) (interface{}, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	teams, ok := arrayAt(m, "sports.0.leagues.0.teams", "teams")
	if !ok {
		return nil, ErrMalformedResponse
	}

	out := make([]resource.Team, 0, len(teams))
	for _, t := range teams {
		name, ok := strAt(t, "team.displayName", "team.name", "displayName")
		if !ok {
			continue
		}
		abbr, _ := strAt(t, "team.abbreviation", "abbreviation")
		logo, _ := strAt(t, "team.logos.0.href", "logos.0.href")
		out = append(out, resource.Team{
			Abbreviation: abbr,
			Name:         name,
			LogoURL:      logo,
		})
	}
	if len(out) == 0 && len(teams) > 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}

// firstString is strAt discarding the ok flag, for optional fields.
func firstString(v interface{}, paths ...string) string {
	s, _ := strAt(v, paths...)
	return s
}
