// Package ingest loads a scorecards catalog directory into schema records.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/schema"
	"golang.org/x/sync/errgroup"
)

// Files that make up a catalog directory.
const (
	RegistryFile      = "registry.json"
	CurrentChecksFile = "current-checks.json"
	ChecksFile        = "checks.json"
	TeamsFile         = "teams.json"
	ResultsDir        = "results"
	ResultsFile       = "results.json"
)

// Loader reads catalogs from the local filesystem.
type Loader struct {
	Workers int
	Warn    func(msg string, err error)
}

var _ contract.CatalogSource = &Loader{}

// NewLoader returns a loader that reads per-repo result documents with the given parallelism.
func NewLoader(workers int) *Loader {
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	return &Loader{Workers: workers, Warn: contract.LogWarn}
}

type excludedCheck struct {
	Check  string `json:"check"`
	Reason string `json:"reason"`
}

type rawCheck struct {
	CheckID  string  `json:"check_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
	Status   string  `json:"status"`
}

// rawService is shared by registry entries and results documents.
type rawService struct {
	Org            string                 `json:"org"`
	Repo           string                 `json:"repo"`
	Name           string                 `json:"name"`
	Score          int                    `json:"score"`
	Rank           string                 `json:"rank"`
	Team           schema.TeamField       `json:"team"`
	CheckResults   map[string]string      `json:"check_results"`
	Checks         []rawCheck             `json:"checks"`
	ExcludedChecks []excludedCheck        `json:"excluded_checks"`
	ChecksHash     string                 `json:"checks_hash"`
	LastUpdated    string                 `json:"last_updated"`
	HasAPI         *bool                  `json:"has_api"`
	Installed      bool                   `json:"installed"`
	InstallationPR *schema.InstallationPR `json:"installation_pr"`
}

type registryDoc struct {
	Services    []rawService `json:"services"`
	ChecksHash  string       `json:"checks_hash"`
	GeneratedAt string       `json:"generated_at"`
}

type currentChecksDoc struct {
	ChecksHash string `json:"checks_hash"`
}

type teamsDoc struct {
	Teams map[string]struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Aliases     []string `json:"aliases"`
	} `json:"teams"`
}

// Load reads every catalog document under dir and returns the normalized catalog.
func (l *Loader) Load(ctx context.Context, dir string) (*schema.Catalog, error) {
	var reg registryDoc
	if err := readJSON(filepath.Join(dir, RegistryFile), &reg); err != nil {
		return nil, err
	}

	var checks schema.CheckCatalog
	if err := readOptionalJSON(filepath.Join(dir, ChecksFile), &checks); err != nil {
		return nil, err
	}

	var current currentChecksDoc
	if err := readOptionalJSON(filepath.Join(dir, CurrentChecksFile), &current); err != nil {
		return nil, err
	}
	currentHash := current.ChecksHash
	if currentHash == "" {
		currentHash = reg.ChecksHash
	}

	var rawTeams teamsDoc
	if err := readOptionalJSON(filepath.Join(dir, TeamsFile), &rawTeams); err != nil {
		return nil, err
	}

	results, err := l.loadResults(ctx, dir, reg.Services)
	if err != nil {
		return nil, err
	}

	catalog := &schema.Catalog{
		Services:    make([]schema.Service, 0, len(reg.Services)),
		Checks:      checks,
		Teams:       normalizeTeams(rawTeams),
		CurrentHash: currentHash,
		GeneratedAt: parseTime(reg.GeneratedAt),
	}
	for i, entry := range reg.Services {
		if res := results[i]; res != nil {
			entry = mergeResults(entry, *res)
		}
		catalog.Services = append(catalog.Services, l.normalizeService(entry, checks))
	}
	return catalog, nil
}

// loadResults reads the optional per-repo results documents, keyed by registry index.
func (l *Loader) loadResults(ctx context.Context, dir string, entries []rawService) (map[int]*rawService, error) {
	var mu sync.Mutex
	out := make(map[int]*rawService)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Workers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, ResultsDir, entry.Org, entry.Repo, ResultsFile)
			var res rawService
			if err := readJSON(path, &res); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					l.warn(fmt.Sprintf("skipping results for %s/%s", entry.Org, entry.Repo), err)
				}
				return nil
			}
			mu.Lock()
			out[i] = &res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load results documents: %w", err)
	}
	return out, nil
}

// Fingerprint summarizes the size and modification time of every catalog document.
func (l *Loader) Fingerprint(dir string) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, RegistryFile)); err != nil {
		return "", fmt.Errorf("catalog registry not found: %w", err)
	}

	var parts []string
	stamp := func(path string, info fs.FileInfo) {
		rel, _ := filepath.Rel(dir, path)
		parts = append(parts, fmt.Sprintf("%s:%d:%d", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano()))
	}
	for _, name := range []string{RegistryFile, CurrentChecksFile, ChecksFile, TeamsFile} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil {
			stamp(path, info)
		}
	}

	resultsRoot := filepath.Join(dir, ResultsDir)
	err := filepath.WalkDir(resultsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || d.Name() != ResultsFile {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stamp(path, info)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk results: %w", err)
	}

	sort.Strings(parts)
	return strings.Join(parts, "|"), nil
}

func (l *Loader) warn(msg string, err error) {
	if l.Warn != nil {
		l.Warn(msg, err)
	}
}

// mergeResults overlays the richer results document on top of the registry entry.
func mergeResults(entry, res rawService) rawService {
	if len(res.Checks) > 0 {
		entry.Checks = res.Checks
	}
	if len(res.CheckResults) > 0 {
		entry.CheckResults = res.CheckResults
	}
	if len(res.ExcludedChecks) > 0 {
		entry.ExcludedChecks = res.ExcludedChecks
	}
	if res.ChecksHash != "" {
		entry.ChecksHash = res.ChecksHash
	}
	if res.LastUpdated != "" {
		entry.LastUpdated = res.LastUpdated
	}
	if res.HasAPI != nil {
		entry.HasAPI = res.HasAPI
	}
	if entry.InstallationPR == nil {
		entry.InstallationPR = res.InstallationPR
	}
	return entry
}

// normalizeService turns a raw entry into a schema.Service.
func (l *Loader) normalizeService(raw rawService, checks schema.CheckCatalog) schema.Service {
	name := raw.Name
	if name == "" {
		name = raw.Repo
	}
	s := schema.Service{
		Org:            raw.Org,
		Repo:           raw.Repo,
		Name:           name,
		Score:          raw.Score,
		Rank:           schema.RankForScore(raw.Score),
		Team:           raw.Team.ID(),
		TeamName:       raw.Team.DisplayName(),
		Installed:      raw.Installed,
		ChecksHash:     raw.ChecksHash,
		LastUpdated:    parseTime(raw.LastUpdated),
		InstallationPR: raw.InstallationPR,
	}
	if raw.Rank != "" && schema.Rank(strings.ToLower(raw.Rank)) != s.Rank {
		l.warn(fmt.Sprintf("rank mismatch for %s", s.Key()),
			fmt.Errorf("recorded %s but score %d ranks %s", raw.Rank, raw.Score, s.Rank))
	}

	s.Checks = foldChecks(raw, checks)
	if raw.HasAPI != nil {
		s.HasAPI = *raw.HasAPI
	} else if c, ok := s.Check("api-spec"); ok {
		s.HasAPI = c.Status == schema.StatusPass
	}
	return s
}

// foldChecks produces the ordered check list for one service.
// Definition order comes first, then any checks the catalog does not know, sorted by id.
func foldChecks(raw rawService, checks schema.CheckCatalog) []schema.CheckResult {
	statuses := make(map[string]string, len(raw.CheckResults)+len(raw.Checks))
	details := make(map[string]rawCheck, len(raw.Checks))
	for id, st := range raw.CheckResults {
		statuses[id] = st
	}
	for _, c := range raw.Checks {
		details[c.CheckID] = c
		if _, ok := statuses[c.CheckID]; !ok {
			statuses[c.CheckID] = c.Status
		}
	}
	reasons := make(map[string]string, len(raw.ExcludedChecks))
	for _, e := range raw.ExcludedChecks {
		reasons[e.Check] = e.Reason
		if _, ok := statuses[e.Check]; !ok {
			statuses[e.Check] = string(schema.StatusExcluded)
		}
	}

	var ids []string
	known := make(map[string]struct{}, len(checks.Checks))
	for _, def := range checks.Checks {
		known[def.ID] = struct{}{}
		if _, ok := statuses[def.ID]; ok {
			ids = append(ids, def.ID)
		}
	}
	var unknown []string
	for id := range statuses {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	ids = append(ids, unknown...)

	out := make([]schema.CheckResult, 0, len(ids))
	for _, id := range ids {
		r := schema.CheckResult{CheckID: id, Status: foldStatus(statuses[id])}
		if d, ok := details[id]; ok {
			r.Name, r.Category, r.Weight = d.Name, d.Category, d.Weight
		}
		if def, ok := checks.Lookup(id); ok {
			if r.Name == "" {
				r.Name = def.Name
			}
			if r.Category == "" {
				r.Category = def.Category
			}
			if r.Weight == 0 {
				r.Weight = def.Weight
			}
		}
		if reason, ok := reasons[id]; ok {
			r.Status = schema.StatusExcluded
			r.ExclusionReason = reason
		}
		out = append(out, r)
	}
	return out
}

// foldStatus maps any raw status onto pass, fail or excluded.
func foldStatus(raw string) schema.CheckStatus {
	switch schema.CheckStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case schema.StatusPass:
		return schema.StatusPass
	case schema.StatusExcluded:
		return schema.StatusExcluded
	default:
		return schema.StatusFail
	}
}

func normalizeTeams(doc teamsDoc) map[schema.TeamID]schema.Team {
	if len(doc.Teams) == 0 {
		return nil
	}
	out := make(map[schema.TeamID]schema.Team, len(doc.Teams))
	for key, t := range doc.Teams {
		id := schema.CanonicalTeamID(key)
		name := t.Name
		if name == "" {
			name = key
		}
		out[id] = schema.Team{ID: id, Name: name, Description: t.Description, Aliases: t.Aliases}
	}
	return out
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readOptionalJSON(path string, v any) error {
	err := readJSON(path, v)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
