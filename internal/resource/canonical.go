// Canonical data shapes that all providers normalize into. These structs are
// the contract between the per-provider normalizers and API callers — the
// normalizer outputs these, the API serves them as-is.
//
// Adding a new provider means implementing mapping functions that return
// these types. The canonical schema never changes per provider.
package resource

// Game is the canonical shape for one scheduled or live game.
type Game struct {
	ID           string `json:"id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	HomeScore    *int   `json:"home_score,omitempty"`
	AwayScore    *int   `json:"away_score,omitempty"`
	StartTime    string `json:"start_time,omitempty"` // RFC 3339
	Status       string `json:"status,omitempty"`     // scheduled, in_progress, final
	Week         *int   `json:"week,omitempty"`
	Season       *int   `json:"season,omitempty"`
}

// OddsLine is one priced outcome within a market.
type OddsLine struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Market is one betting market (spreads, totals, h2h, player props).
type Market struct {
	Key   string     `json:"key"`
	Lines []OddsLine `json:"lines"`
}

// GameOdds is the canonical shape for one game's odds across books.
type GameOdds struct {
	GameID       string   `json:"game_id"`
	HomeTeamName string   `json:"home_team_name"`
	AwayTeamName string   `json:"away_team_name"`
	CommenceTime string   `json:"commence_time,omitempty"`
	Bookmaker    string   `json:"bookmaker,omitempty"`
	Markets      []Market `json:"markets,omitempty"`
}

// Injury is the canonical shape for one player injury report entry.
type Injury struct {
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name,omitempty"`
	Position   string `json:"position,omitempty"`
	Status     string `json:"status"` // questionable, doubtful, out, ir
	Detail     string `json:"detail,omitempty"`
	Updated    string `json:"updated,omitempty"`
}

// Standing is the canonical shape for one team's record within the league.
type Standing struct {
	TeamName      string   `json:"team_name"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	Ties          int      `json:"ties,omitempty"`
	WinPercent    *float64 `json:"win_percent,omitempty"`
	PointsFor     *int     `json:"points_for,omitempty"`
	PointsAgainst *int     `json:"points_against,omitempty"`
	Conference    string   `json:"conference,omitempty"`
	Division      string   `json:"division,omitempty"`
}

// Team is the canonical team profile shape.
type Team struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Conference   string `json:"conference,omitempty"`
	Division     string `json:"division,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}
