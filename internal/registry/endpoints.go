package registry

import (
	"strconv"
	"time"

	"github.com/ibyanalytics/nfl-gateway/internal/config"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// Provider IDs. Each maps to one upstream API and one normalizer family.
const (
	ProviderESPN      = "espn"
	ProviderOddsAPI   = "oddsapi"
	ProviderAPISports = "apisports"
	ProviderSleeper   = "sleeper"
	ProviderNFLverse  = "nflverse"
)

// Upstream base URLs.
const (
	espnBase      = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	oddsAPIBase   = "https://api.the-odds-api.com/v4/sports/americanfootball_nfl"
	apiSportsBase = "https://v1.american-football.api-sports.io"
	sleeperBase   = "https://api.sleeper.app/v1"
	nflverseBase  = "https://github.com/nflverse/nflverse-data/releases/download"
)

// Defaults builds the endpoint table for all five providers. Provider order
// per resource reflects reliability and quota cost: ESPN first (no key, no
// hard quota), keyed APIs after. Endpoints whose provider has no configured
// key are still registered — the executor rejects them up front and the
// controller moves on, so a missing key degrades rather than breaks.
func Defaults(cfg *config.Config) *Registry {
	r := New()

	apiSportsHeaders := map[string]string{
		"x-rapidapi-key":  cfg.APISportsKey,
		"x-rapidapi-host": "v1.american-football.api-sports.io",
	}

	r.MustRegister(resource.Games, []string{"date", "season", "week"},
		Endpoint{
			Provider:    ProviderESPN,
			URLTemplate: espnBase + "/scoreboard?dates={date}",
			Timeout:     cfg.RequestTimeout,
			Priority:    1,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
		Endpoint{
			Provider:    ProviderAPISports,
			URLTemplate: apiSportsBase + "/games?league=1&season={season}&week={week}",
			Headers:     apiSportsHeaders,
			Timeout:     cfg.RequestTimeout,
			Priority:    2,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
	)

	r.MustRegister(resource.Odds, []string{"markets", "regions"},
		Endpoint{
			Provider:    ProviderOddsAPI,
			URLTemplate: oddsAPIBase + "/odds?regions={regions}&markets={markets}&oddsFormat=american",
			Query:       map[string]string{"apiKey": cfg.OddsAPIKey},
			Timeout:     cfg.RequestTimeout,
			Priority:    1,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
	)

	r.MustRegister(resource.Injuries, []string{"season"},
		Endpoint{
			Provider:    ProviderESPN,
			URLTemplate: espnBase + "/injuries",
			Timeout:     cfg.RequestTimeout,
			Priority:    1,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
		Endpoint{
			Provider:    ProviderSleeper,
			URLTemplate: sleeperBase + "/players/nfl",
			Timeout:     cfg.SleeperTimeout, // full player dump, slow endpoint
			Priority:    2,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
		Endpoint{
			Provider:    ProviderAPISports,
			URLTemplate: apiSportsBase + "/injuries?league=1&season={season}",
			Headers:     apiSportsHeaders,
			Timeout:     cfg.RequestTimeout,
			Priority:    3,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
	)

	r.MustRegister(resource.Standings, []string{"season"},
		Endpoint{
			Provider:    ProviderESPN,
			URLTemplate: espnBase + "/standings?season={season}",
			Timeout:     cfg.RequestTimeout,
			Priority:    1,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
		Endpoint{
			Provider:    ProviderAPISports,
			URLTemplate: apiSportsBase + "/standings?league=1&season={season}",
			Headers:     apiSportsHeaders,
			Timeout:     cfg.RequestTimeout,
			Priority:    2,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
	)

	r.MustRegister(resource.Teams, []string{},
		Endpoint{
			Provider:    ProviderESPN,
			URLTemplate: espnBase + "/teams",
			Timeout:     cfg.RequestTimeout,
			Priority:    1,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
		Endpoint{
			Provider:    ProviderNFLverse,
			URLTemplate: nflverseBase + "/teams/teams.json",
			Timeout:     cfg.RequestTimeout,
			Priority:    2,
			MaxAttempts: cfg.MaxAttemptsPerEndpoint,
			Backoff:     cfg.RetryBackoff,
		},
	)

	return r
}

// DefaultParams fills the request parameters a bare fetch needs so that
// every registered endpoint for the resource can build its URL. Callers
// overlay their own values on top.
func DefaultParams(name string, now time.Time) resource.Params {
	params := resource.Params{}
	season := strconv.Itoa(config.CurrentSeason)
	switch name {
	case resource.Games:
		params["date"] = now.Format("20060102")
		params["season"] = season
		params["week"] = strconv.Itoa(config.CurrentWeek(now))
	case resource.Odds:
		params["regions"] = "us"
		params["markets"] = "h2h,spreads,totals"
	case resource.Standings, resource.Injuries:
		params["season"] = season
	}
	return params
}
