package normalize

import (
	"encoding/json"
	"sort"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// Sleeper has no injuries endpoint; the full player dump carries
// injury_status per rostered player. Players without a status are healthy
// and skipped.
func sleeperInjuries(body []byte) (interface{}, error) {
	var players map[string]json.RawMessage
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, ErrMalformedResponse
	}

	named := 0
	var out []resource.Injury
	for _, raw := range players {
		var p interface{}
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		name, ok := strAt(p, "full_name", "last_name")
		if !ok {
			continue
		}
		named++
		status, ok := strAt(p, "injury_status")
		if !ok {
			continue
		}
		out = append(out, resource.Injury{
			PlayerName: name,
			TeamName:   firstString(p, "team"),
			Position:   firstString(p, "position"),
			Status:     status,
			Detail:     firstString(p, "injury_notes", "injury_body_part"),
		})
	}
	// A dump where nothing matches any known player field path is garbage,
	// not a healthy league.
	if named == 0 && len(players) > 0 {
		return nil, ErrMalformedResponse
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}
