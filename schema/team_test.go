package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamFieldUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		shape   TeamShape
		id      TeamID
		display string
	}{
		{"string", `"Platform"`, TeamString, "platform", "Platform"},
		{"object primary", `{"primary":"platform","all":["platform","infra"]}`, TeamObject, "platform", "platform"},
		{"object falls back to all", `{"all":["  Frontend "]}`, TeamObject, "frontend", "Frontend"},
		{"empty object", `{}`, TeamObject, NoTeam, ""},
		{"null", `null`, TeamAbsent, NoTeam, ""},
		{"number", `42`, TeamAbsent, NoTeam, ""},
		{"array", `["platform"]`, TeamAbsent, NoTeam, ""},
		{"blank string", `"   "`, TeamString, NoTeam, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f TeamField
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.shape, f.Shape)
			assert.Equal(t, tt.id, f.ID())
			assert.Equal(t, tt.display, f.DisplayName())
		})
	}
}

func TestTeamFieldInsideStruct(t *testing.T) {
	var rows []struct {
		Repo string    `json:"repo"`
		Team TeamField `json:"team"`
	}
	raw := `[{"repo":"a","team":"platform"},{"repo":"b","team":{"primary":"Platform"}},{"repo":"c"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, rows[0].Team.ID(), rows[1].Team.ID())
	assert.Equal(t, NoTeam, rows[2].Team.ID())
}

func TestTeamFieldMarshalRoundTrip(t *testing.T) {
	in := TeamField{Shape: TeamObject, Primary: "platform", GitHubOrg: "acme"}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	var out TeamField
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.ID(), out.ID())
	assert.Equal(t, "acme", out.GitHubOrg)

	b, err = json.Marshal(TeamField{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestCanonicalTeamID(t *testing.T) {
	assert.Equal(t, TeamID("platform"), CanonicalTeamID(" PLATFORM "))
	assert.Equal(t, NoTeam, CanonicalTeamID(""))
	assert.Equal(t, NoTeam, CanonicalTeamID("__no_team__"))
}

func TestServiceTeamLabel(t *testing.T) {
	assert.Equal(t, NoTeamLabel, Service{}.TeamLabel())
	assert.Equal(t, NoTeam, Service{}.TeamKey())
	assert.Equal(t, "Platform", Service{Team: "platform", TeamName: "Platform"}.TeamLabel())
	assert.Equal(t, "platform", Service{Team: "platform"}.TeamLabel())
}

func FuzzTeamFieldUnmarshal(f *testing.F) {
	f.Add(`"platform"`)
	f.Add(`{"primary":"x"}`)
	f.Add(`[1,2]`)
	f.Add(`null`)
	f.Fuzz(func(t *testing.T, raw string) {
		var tf TeamField
		_ = tf.UnmarshalJSON([]byte(raw))
		id := tf.ID()
		assert.NotEmpty(t, id)
	})
}
