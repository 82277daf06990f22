package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

const espnScoreboard = `{
  "events": [
    {
      "id": "401671789",
      "date": "2025-09-07T17:00Z",
      "week": {"number": 1},
      "season": {"year": 2025},
      "status": {"type": {"state": "post", "description": "Final"}},
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "score": "27", "team": {"displayName": "Kansas City Chiefs"}},
          {"homeAway": "away", "score": "20", "team": {"displayName": "Baltimore Ravens"}}
        ]
      }]
    }
  ]
}`

func TestESPNGames(t *testing.T) {
	v, err := espnGames([]byte(espnScoreboard))
	require.NoError(t, err)

	games := v.([]resource.Game)
	require.Len(t, games, 1)
	g := games[0]
	assert.Equal(t, "401671789", g.ID)
	assert.Equal(t, "Kansas City Chiefs", g.HomeTeamName)
	assert.Equal(t, "Baltimore Ravens", g.AwayTeamName)
	require.NotNil(t, g.HomeScore)
	assert.Equal(t, 27, *g.HomeScore)
	require.NotNil(t, g.AwayScore)
	assert.Equal(t, 20, *g.AwayScore)
	assert.Equal(t, "post", g.Status)
	require.NotNil(t, g.Week)
	assert.Equal(t, 1, *g.Week)
	require.NotNil(t, g.Season)
	assert.Equal(t, 2025, *g.Season)
}

func TestESPNGamesMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":        `<html>rate limited</html>`,
		"missing events":  `{"leagues": []}`,
		"teamless events": `{"events": [{"id": "1"}, {"id": "2"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := espnGames([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestESPNGamesEmptySlate(t *testing.T) {
	// A bye-week scoreboard with zero events is valid, not malformed.
	v, err := espnGames([]byte(`{"events": []}`))
	require.NoError(t, err)
	assert.Empty(t, v.([]resource.Game))
}

func TestESPNInjuries(t *testing.T) {
	body := `{
	  "injuries": [
	    {
	      "displayName": "Buffalo Bills",
	      "injuries": [
	        {
	          "status": "Questionable",
	          "date": "2025-09-04T18:30Z",
	          "athlete": {"displayName": "Josh Allen", "position": {"abbreviation": "QB"}},
	          "details": {"type": "Shoulder"}
	        }
	      ]
	    }
	  ]
	}`
	v, err := espnInjuries([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.Injury)
	require.Len(t, out, 1)
	assert.Equal(t, "Josh Allen", out[0].PlayerName)
	assert.Equal(t, "Buffalo Bills", out[0].TeamName)
	assert.Equal(t, "QB", out[0].Position)
	assert.Equal(t, "Questionable", out[0].Status)
	assert.Equal(t, "Shoulder", out[0].Detail)
}

func TestESPNStandingsConferenceChildren(t *testing.T) {
	body := `{
	  "children": [
	    {
	      "name": "American Football Conference",
	      "standings": {
	        "entries": [
	          {
	            "team": {"displayName": "Kansas City Chiefs"},
	            "stats": [
	              {"name": "wins", "value": 15},
	              {"name": "losses", "value": 2},
	              {"name": "winPercent", "value": 0.882},
	              {"name": "pointsFor", "value": 455}
	            ]
	          }
	        ]
	      }
	    }
	  ]
	}`
	v, err := espnStandings([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.Standing)
	require.Len(t, out, 1)
	s := out[0]
	assert.Equal(t, "Kansas City Chiefs", s.TeamName)
	assert.Equal(t, "American Football Conference", s.Conference)
	assert.Equal(t, 15, s.Wins)
	assert.Equal(t, 2, s.Losses)
	require.NotNil(t, s.WinPercent)
	assert.InDelta(t, 0.882, *s.WinPercent, 1e-9)
	require.NotNil(t, s.PointsFor)
	assert.Equal(t, 455, *s.PointsFor)
}

func TestESPNTeams(t *testing.T) {
	body := `{
	  "sports": [{"leagues": [{"teams": [
	    {"team": {"displayName": "Green Bay Packers", "abbreviation": "GB",
	      "logos": [{"href": "https://a.espncdn.com/gb.png"}]}}
	  ]}]}]
	}`
	v, err := espnTeams([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.Team)
	require.Len(t, out, 1)
	assert.Equal(t, "GB", out[0].Abbreviation)
	assert.Equal(t, "Green Bay Packers", out[0].Name)
	assert.Equal(t, "https://a.espncdn.com/gb.png", out[0].LogoURL)
}

func TestOddsAPIGameOdds(t *testing.T) {
	body := `[
	  {
	    "id": "abc123",
	    "commence_time": "2025-09-07T17:00:00Z",
	    "home_team": "Kansas City Chiefs",
	    "away_team": "Baltimore Ravens",
	    "bookmakers": [
	      {
	        "key": "draftkings",
	        "markets": [
	          {
	            "key": "spreads",
	            "outcomes": [
	              {"name": "Kansas City Chiefs", "price": -110, "point": -3.5},
	              {"name": "Baltimore Ravens", "price": -110, "point": 3.5}
	            ]
	          },
	          {
	            "key": "h2h",
	            "outcomes": [
	              {"name": "Kansas City Chiefs", "price": -185},
	              {"name": "Baltimore Ravens", "price": 155}
	            ]
	          }
	        ]
	      }
	    ]
	  }
	]`
	v, err := oddsAPIGameOdds([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.GameOdds)
	require.Len(t, out, 1)
	row := out[0]
	assert.Equal(t, "abc123", row.GameID)
	assert.Equal(t, "draftkings", row.Bookmaker)
	require.Len(t, row.Markets, 2)
	assert.Equal(t, "spreads", row.Markets[0].Key)
	require.Len(t, row.Markets[0].Lines, 2)
	require.NotNil(t, row.Markets[0].Lines[0].Point)
	assert.Equal(t, -3.5, *row.Markets[0].Lines[0].Point)
	assert.Equal(t, "h2h", row.Markets[1].Key)
	assert.Nil(t, row.Markets[1].Lines[0].Point)
}

func TestOddsAPIMalformed(t *testing.T) {
	_, err := oddsAPIGameOdds([]byte(`{"message": "Usage quota has been reached"}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = oddsAPIGameOdds([]byte(`[{"sport_key": "americanfootball_nfl"}]`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAPISportsGames(t *testing.T) {
	body := `{
	  "response": [
	    {
	      "game": {"id": 7553, "date": {"date": "2025-09-07"}, "status": {"short": "FT"}},
	      "league": {"season": 2025},
	      "teams": {"home": {"name": "Dallas Cowboys"}, "away": {"name": "New York Giants"}},
	      "scores": {"home": {"total": 31}, "away": {"total": 17}}
	    }
	  ]
	}`
	v, err := apiSportsGames([]byte(body))
	require.NoError(t, err)

	games := v.([]resource.Game)
	require.Len(t, games, 1)
	g := games[0]
	assert.Equal(t, "7553", g.ID)
	assert.Equal(t, "Dallas Cowboys", g.HomeTeamName)
	require.NotNil(t, g.HomeScore)
	assert.Equal(t, 31, *g.HomeScore)
	require.NotNil(t, g.AwayScore)
	assert.Equal(t, 17, *g.AwayScore)
	assert.Equal(t, "FT", g.Status)
}

func TestAPISportsStandings(t *testing.T) {
	body := `{
	  "response": [
	    {
	      "team": {"name": "Philadelphia Eagles"},
	      "conference": "National Football Conference",
	      "division": "NFC East",
	      "won": 14, "lost": 3, "ties": 0,
	      "points": {"for": 478, "against": 303}
	    }
	  ]
	}`
	v, err := apiSportsStandings([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.Standing)
	require.Len(t, out, 1)
	assert.Equal(t, "Philadelphia Eagles", out[0].TeamName)
	assert.Equal(t, 14, out[0].Wins)
	assert.Equal(t, 3, out[0].Losses)
	assert.Equal(t, "NFC East", out[0].Division)
	require.NotNil(t, out[0].PointsAgainst)
	assert.Equal(t, 303, *out[0].PointsAgainst)
}

func TestSleeperInjuries(t *testing.T) {
	body := `{
	  "4046": {"full_name": "Patrick Mahomes", "team": "KC", "position": "QB"},
	  "6794": {"full_name": "Justin Jefferson", "team": "MIN", "position": "WR",
	    "injury_status": "Questionable", "injury_body_part": "Hamstring"},
	  "2307": {"full_name": "Aaron Donald", "team": null, "position": "DT",
	    "injury_status": "Out"}
	}`
	v, err := sleeperInjuries([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.Injury)
	require.Len(t, out, 2)
	// Sorted by player name for deterministic output.
	assert.Equal(t, "Aaron Donald", out[0].PlayerName)
	assert.Equal(t, "Justin Jefferson", out[1].PlayerName)
	assert.Equal(t, "Questionable", out[1].Status)
	assert.Equal(t, "Hamstring", out[1].Detail)
}

func TestSleeperInjuriesMalformed(t *testing.T) {
	// Right container shape, but no entry matches any known player field.
	_, err := sleeperInjuries([]byte(`{"a": {"x": 1}, "b": {"y": 2}}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNFLverseTeams(t *testing.T) {
	body := `[
	  {"team_abbr": "SEA", "team_name": "Seattle Seahawks",
	   "team_conf": "NFC", "team_division": "NFC West",
	   "team_logo_espn": "https://a.espncdn.com/sea.png"}
	]`
	v, err := nflverseTeams([]byte(body))
	require.NoError(t, err)

	out := v.([]resource.Team)
	require.Len(t, out, 1)
	assert.Equal(t, "SEA", out[0].Abbreviation)
	assert.Equal(t, "NFC West", out[0].Division)
}

func TestTableNormalizeReturnsJSON(t *testing.T) {
	tbl := NewTable()

	data, err := tbl.Normalize(resource.Games, registry.ProviderESPN, []byte(espnScoreboard))
	require.NoError(t, err)

	var games []resource.Game
	require.NoError(t, json.Unmarshal(data, &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Kansas City Chiefs", games[0].HomeTeamName)
}

func TestTableUnknownPair(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Normalize(resource.Odds, registry.ProviderSleeper, []byte(`[]`))
	assert.Error(t, err)
}

func TestTableWrapsMalformed(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Normalize(resource.Games, registry.ProviderESPN, []byte(`{}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
