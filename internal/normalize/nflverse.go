package normalize

import (
	"encoding/json"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// nflverse publishes release artifacts as flat JSON arrays with snake_case
// team_* columns.
func nflverseTeams(body []byte) (interface{}, error) {
	var rows []interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, ErrMalformedResponse
	}

	out := make([]resource.Team, 0, len(rows))
	for _, r := range rows {
		name, ok := strAt(r, "team_name", "full_name", "name")
		if !ok {
			continue
		}
		out = append(out, resource.Team{
			Abbreviation: firstString(r, "team_abbr", "abbr"),
			Name:         name,
			Conference:   firstString(r, "team_conf", "conference"),
			Division:     firstString(r, "team_division", "division"),
			LogoURL:      firstString(r, "team_logo_espn", "team_logo_wikipedia"),
		})
	}
	if len(out) == 0 && len(rows) > 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}
