package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TeamID is the canonical, lowercased team identifier.
type TeamID string

// NoTeam groups services with no usable team value.
const NoTeam TeamID = "__no_team__"

// NoTeamLabel is how NoTeam is shown to people.
const NoTeamLabel = "No Team"

// TeamShape says which form the upstream team value took.
type TeamShape int

// All team shapes accepted from upstream registries.
const (
	TeamAbsent TeamShape = iota
	TeamString
	TeamObject
)

// TeamField is the team value as upstream registries write it: a bare string,
// an object naming a primary team, or nothing at all.
type TeamField struct {
	Shape      TeamShape
	Name       string
	Primary    string
	All        []string
	GitHubOrg  string
	GitHubSlug string
}

type teamObject struct {
	Primary    string   `json:"primary"`
	All        []string `json:"all"`
	GitHubOrg  string   `json:"github_org"`
	GitHubSlug string   `json:"github_slug"`
}

// UnmarshalJSON accepts every shape. Anything that is neither a string nor a team object becomes TeamAbsent.
func (t *TeamField) UnmarshalJSON(data []byte) error {
	*t = TeamField{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			t.Shape = TeamString
			t.Name = s
		}
	case '{':
		var obj teamObject
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			t.Shape = TeamObject
			t.Primary = obj.Primary
			t.All = obj.All
			t.GitHubOrg = obj.GitHubOrg
			t.GitHubSlug = obj.GitHubSlug
		}
	}
	return nil
}

// MarshalJSON writes the field back in the shape it was read in.
func (t TeamField) MarshalJSON() ([]byte, error) {
	switch t.Shape {
	case TeamString:
		return json.Marshal(t.Name)
	case TeamObject:
		return json.Marshal(teamObject{Primary: t.Primary, All: t.All, GitHubOrg: t.GitHubOrg, GitHubSlug: t.GitHubSlug})
	default:
		return []byte("null"), nil
	}
}

// DisplayName is the team name as written upstream, before canonicalization.
func (t TeamField) DisplayName() string {
	switch t.Shape {
	case TeamString:
		return strings.TrimSpace(t.Name)
	case TeamObject:
		if p := strings.TrimSpace(t.Primary); p != "" {
			return p
		}
		for _, a := range t.All {
			if a = strings.TrimSpace(a); a != "" {
				return a
			}
		}
	}
	return ""
}

// ID returns the canonical team id for the field.
func (t TeamField) ID() TeamID {
	return CanonicalTeamID(t.DisplayName())
}

// CanonicalTeamID lowercases and trims a team name. An empty name maps to NoTeam.
func CanonicalTeamID(name string) TeamID {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == string(NoTeam) {
		return NoTeam
	}
	return TeamID(n)
}
