// Package fixture holds a small scorecards catalog used across package tests.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/scorecards/schema"
)

// Org is the GitHub org that owns every fixture repo.
const Org = "feddericovonwernich"

// CurrentHash is the hash of the current check set.
const CurrentHash = "hash-v2"

// Check ids used by the fixture.
const (
	CheckReadme     = "readme"
	CheckLicense    = "license"
	CheckCI         = "ci-workflow"
	CheckCodeowners = "codeowners"
	CheckAPISpec    = "api-spec"
)

// Checks returns the check catalog.
func Checks() schema.CheckCatalog {
	return schema.CheckCatalog{
		Version: "1",
		Checks: []schema.CheckDefinition{
			{ID: CheckReadme, Name: "README", Description: "Repository has a README", Category: "documentation", Weight: 10},
			{ID: CheckLicense, Name: "License", Description: "Repository declares a license", Category: "documentation", Weight: 5},
			{ID: CheckCI, Name: "CI Workflow", Description: "A CI workflow runs on pull requests", Category: "ci", Weight: 10},
			{ID: CheckCodeowners, Name: "CODEOWNERS", Description: "Ownership is declared", Category: "ownership", Weight: 5},
			{ID: CheckAPISpec, Name: "API Spec", Description: "An OpenAPI document is published", Category: "api", Weight: 10},
		},
		Categories: []string{"documentation", "ci", "ownership", "api"},
	}
}

type repo struct {
	name      string
	score     int
	team      any
	hash      string
	hasAPI    bool
	installed bool
	updated   string
	checks    map[string]schema.CheckStatus
	excluded  map[string]string
}

const (
	p = schema.StatusPass
	f = schema.StatusFail
)

var repos = []repo{
	{"test-repo-stale", 80, "platform", "hash-v1", true, true, "2026-01-05T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: p, CheckLicense: p, CheckCI: p, CheckCodeowners: f, CheckAPISpec: p}, nil},
	{"test-repo-perfect", 76, map[string]any{"primary": "platform", "all": []string{"platform"}}, CurrentHash, false, true, "2026-01-10T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: p, CheckLicense: p, CheckCI: p, CheckCodeowners: p}, nil},
	{"test-repo-edge-cases", 63, "frontend", CurrentHash, true, true, "2026-01-03T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: p, CheckLicense: p, CheckCI: f, CheckCodeowners: f, CheckAPISpec: p}, nil},
	{"test-repo-install-test", 63, "backend", CurrentHash, false, false, "2026-01-08T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: f, CheckLicense: p, CheckCI: p, CheckCodeowners: f}, nil},
	{"test-repo-javascript", 63, "Frontend", CurrentHash, true, true, "2026-01-02T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: p, CheckLicense: p, CheckCI: f, CheckCodeowners: f, CheckAPISpec: f}, nil},
	{"test-repo-python", 63, map[string]any{"primary": "backend"}, CurrentHash, false, true, "",
		map[string]schema.CheckStatus{CheckReadme: p, CheckLicense: p, CheckCI: f, CheckCodeowners: p}, nil},
	{"test-repo-no-docs", 40, nil, CurrentHash, false, true, "2026-01-04T10:00:00Z",
		map[string]schema.CheckStatus{CheckLicense: p, CheckCI: f, CheckCodeowners: f},
		map[string]string{CheckReadme: "Documentation lives in the wiki"}},
	{"test-repo-minimal", 36, nil, "", false, true, "2026-01-01T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: f, CheckLicense: f, CheckCI: f}, nil},
	{"test-repo-empty", 23, "backend", CurrentHash, false, false, "2026-01-06T10:00:00Z",
		map[string]schema.CheckStatus{CheckReadme: f, CheckLicense: f, CheckCI: f}, nil},
}

// Services returns the nine fixture services in ingested form, in registry order.
func Services() []schema.Service {
	catalog := Checks()
	out := make([]schema.Service, 0, len(repos))
	for _, r := range repos {
		var tf schema.TeamField
		raw, _ := json.Marshal(r.team)
		_ = tf.UnmarshalJSON(raw)
		s := schema.Service{
			Org:        Org,
			Repo:       r.name,
			Name:       r.name,
			Score:      r.score,
			Rank:       schema.RankForScore(r.score),
			Team:       tf.ID(),
			TeamName:   tf.DisplayName(),
			HasAPI:     r.hasAPI,
			Installed:  r.installed,
			ChecksHash: r.hash,
		}
		if r.updated != "" {
			s.LastUpdated, _ = time.Parse(time.RFC3339, r.updated)
		}
		for _, def := range catalog.Checks {
			if reason, ok := r.excluded[def.ID]; ok {
				s.Checks = append(s.Checks, schema.CheckResult{
					CheckID: def.ID, Name: def.Name, Category: def.Category, Weight: def.Weight,
					Status: schema.StatusExcluded, ExclusionReason: reason,
				})
				continue
			}
			if st, ok := r.checks[def.ID]; ok {
				s.Checks = append(s.Checks, schema.CheckResult{
					CheckID: def.ID, Name: def.Name, Category: def.Category, Weight: def.Weight, Status: st,
				})
			}
		}
		out = append(out, s)
	}
	return out
}

// Teams returns the optional team metadata.
func Teams() map[schema.TeamID]schema.Team {
	return map[schema.TeamID]schema.Team{
		"platform": {ID: "platform", Name: "Platform", Description: "Shared infrastructure and tooling"},
		"frontend": {ID: "frontend", Name: "Frontend", Description: "Web applications"},
		"backend":  {ID: "backend", Name: "Backend", Description: "APIs and data services"},
	}
}

// Catalog returns the whole fixture as a loaded catalog.
func Catalog() *schema.Catalog {
	return &schema.Catalog{
		Services:    Services(),
		Checks:      Checks(),
		Teams:       Teams(),
		CurrentHash: CurrentHash,
		GeneratedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

// WriteCatalog lays the fixture out on disk the way the scorecards workflow publishes it.
func WriteCatalog(dir string) error {
	var services []map[string]any
	for _, r := range repos {
		checkResults := map[string]string{}
		for id, st := range r.checks {
			checkResults[id] = string(st)
		}
		entry := map[string]any{
			"org":           Org,
			"repo":          r.name,
			"name":          r.name,
			"score":         r.score,
			"rank":          string(schema.RankForScore(r.score)),
			"checks_hash":   r.hash,
			"has_api":       r.hasAPI,
			"installed":     r.installed,
			"check_results": checkResults,
		}
		if r.team != nil {
			entry["team"] = r.team
		}
		if r.updated != "" {
			entry["last_updated"] = r.updated
		}
		var excluded []map[string]string
		for id, reason := range r.excluded {
			excluded = append(excluded, map[string]string{"check": id, "reason": reason})
		}
		if len(excluded) > 0 {
			entry["excluded_checks"] = excluded
		}
		services = append(services, entry)
	}
	var checks []map[string]any
	for _, d := range Checks().Checks {
		checks = append(checks, map[string]any{
			"id": d.ID, "name": d.Name, "description": d.Description, "category": d.Category, "weight": d.Weight,
		})
	}
	teams := map[string]any{}
	for id, t := range Teams() {
		teams[string(id)] = map[string]any{"name": t.Name, "description": t.Description}
	}
	files := map[string]any{
		"registry.json":       map[string]any{"services": services, "generated_at": "2026-01-10T12:00:00Z", "checks_hash": CurrentHash},
		"current-checks.json": map[string]any{"checks_hash": CurrentHash, "checks_count": len(checks), "generated_at": "2026-01-10T12:00:00Z"},
		"checks.json":         map[string]any{"version": "1", "checks": checks, "categories": Checks().Categories},
		"teams.json":          map[string]any{"teams": teams},
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, v := range files {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
