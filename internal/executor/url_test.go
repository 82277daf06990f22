package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   map[string]string
		want     string
		wantErr  string
	}{
		{
			name:     "substitutes placeholders",
			template: "https://x.example/games?season={season}&week={week}",
			params:   map[string]string{"season": "2025", "week": "3"},
			want:     "https://x.example/games?season=2025&week=3",
		},
		{
			name:     "missing param leaves placeholder",
			template: "https://x.example/games?week={week}",
			params:   map[string]string{},
			wantErr:  "unresolved placeholder",
		},
		{
			name:     "empty value counts as missing",
			template: "https://x.example/games?week={week}",
			params:   map[string]string{"week": ""},
			wantErr:  "unresolved placeholder",
		},
		{
			name:     "literal null query value",
			template: "https://x.example/games?team={team}",
			params:   map[string]string{"team": "null"},
			wantErr:  "placeholder token",
		},
		{
			name:     "literal undefined path segment",
			template: "https://x.example/teams/{id}/roster",
			params:   map[string]string{"id": "undefined"},
			wantErr:  "placeholder token",
		},
		{
			name:     "unsupported scheme",
			template: "ftp://x.example/games",
			params:   nil,
			wantErr:  "scheme",
		},
		{
			name:     "missing host",
			template: "https:///games",
			params:   nil,
			wantErr:  "host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.template, tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
