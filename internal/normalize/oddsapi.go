package normalize

import (
	"encoding/json"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// The Odds API v4 returns a top-level array of games, each carrying per-book
// market lists. One canonical GameOdds row is emitted per (game, bookmaker).
func oddsAPIGameOdds(body []byte) (interface{}, error) {
	var games []interface{}
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, ErrMalformedResponse
	}

	var out []resource.GameOdds
	for _, g := range games {
		home, homeOK := strAt(g, "home_team", "homeTeam")
		away, awayOK := strAt(g, "away_team", "awayTeam")
		if !homeOK || !awayOK {
			continue
		}
		gameID, _ := strAt(g, "id")
		commence, _ := strAt(g, "commence_time", "commenceTime")

		books, _ := arrayAt(g, "bookmakers")
		if len(books) == 0 {
			out = append(out, resource.GameOdds{
				GameID:       gameID,
				HomeTeamName: home,
				AwayTeamName: away,
				CommenceTime: commence,
			})
			continue
		}
		for _, b := range books {
			bookKey, _ := strAt(b, "key", "title")
			row := resource.GameOdds{
				GameID:       gameID,
				HomeTeamName: home,
				AwayTeamName: away,
				CommenceTime: commence,
				Bookmaker:    bookKey,
			}
			markets, _ := arrayAt(b, "markets")
			for _, mk := range markets {
				marketKey, _ := strAt(mk, "key")
				market := resource.Market{Key: marketKey}
				outcomes, _ := arrayAt(mk, "outcomes")
				for _, o := range outcomes {
					name, nameOK := strAt(o, "name", "description")
					price, priceOK := numAt(o, "price")
					if !nameOK || !priceOK {
						continue
					}
					line := resource.OddsLine{Name: name, Price: price}
					if pt, ok := numAt(o, "point"); ok {
						line.Point = &pt
					}
					market.Lines = append(market.Lines, line)
				}
				if len(market.Lines) > 0 {
					row.Markets = append(row.Markets, market)
				}
			}
			out = append(out, row)
		}
	}
	if len(out) == 0 && len(games) > 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}
