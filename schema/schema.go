// Package schema has the domain types shared by every layer of the scorecards catalog.
package schema

import (
	"strings"
	"time"
)

// CheckResult is the outcome of one check for one service.
type CheckResult struct {
	CheckID         string      `json:"check_id"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Status          CheckStatus `json:"status"`
	Weight          float64     `json:"weight"`
	ExclusionReason string      `json:"exclusion_reason,omitempty"`
}

// InstallationPR is an open or merged pull request that installs the scorecards workflow.
type InstallationPR struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	State  string `json:"state"`
}

// Service is one catalog entry after ingestion.
type Service struct {
	Org            string          `json:"org"`
	Repo           string          `json:"repo"`
	Name           string          `json:"name"`
	Score          int             `json:"score"`
	Rank           Rank            `json:"rank"`
	Team           TeamID          `json:"team"`
	TeamName       string          `json:"team_name,omitempty"`
	HasAPI         bool            `json:"has_api"`
	Installed      bool            `json:"installed"`
	ChecksHash     string          `json:"checks_hash"`
	LastUpdated    time.Time       `json:"last_updated"`
	Checks         []CheckResult   `json:"checks"`
	InstallationPR *InstallationPR `json:"installation_pr,omitempty"`
}

// Key returns the "org/repo" identifier used across caches and outputs.
func (s Service) Key() string {
	return s.Org + "/" + s.Repo
}

// TeamKey returns the canonical team id, mapping unset teams to NoTeam.
func (s Service) TeamKey() TeamID {
	if s.Team == "" {
		return NoTeam
	}
	return s.Team
}

// TeamLabel returns the display name of the owning team.
func (s Service) TeamLabel() string {
	if s.TeamKey() == NoTeam {
		return NoTeamLabel
	}
	if s.TeamName != "" {
		return s.TeamName
	}
	return string(s.Team)
}

// Check looks up a check result by id.
func (s Service) Check(id string) (CheckResult, bool) {
	for _, c := range s.Checks {
		if c.CheckID == id {
			return c, true
		}
	}
	return CheckResult{}, false
}

// PassedChecks counts the checks with a pass status.
func (s Service) PassedChecks() int {
	n := 0
	for _, c := range s.Checks {
		if c.Status == StatusPass {
			n++
		}
	}
	return n
}

// CheckDefinition describes one check in the shared catalog.
type CheckDefinition struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Weight      float64 `json:"weight"`
}

// CheckCatalog is the set of checks known to the catalog.
type CheckCatalog struct {
	Version    string            `json:"version"`
	Checks     []CheckDefinition `json:"checks"`
	Categories []string          `json:"categories"`
}

// Lookup finds a check definition by id.
func (c CheckCatalog) Lookup(id string) (CheckDefinition, bool) {
	for _, d := range c.Checks {
		if d.ID == id {
			return d, true
		}
	}
	return CheckDefinition{}, false
}

// Team is the optional metadata for a team.
type Team struct {
	ID          TeamID   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

// Matches reports whether the lowercased query occurs in the team name or description.
func (t Team) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(string(t.ID), q)
}

// Catalog is everything loaded from one catalog directory.
type Catalog struct {
	Services    []Service       `json:"services"`
	Checks      CheckCatalog    `json:"checks"`
	Teams       map[TeamID]Team `json:"teams,omitempty"`
	CurrentHash string          `json:"current_hash"`
	GeneratedAt time.Time       `json:"generated_at"`
}
