package schema

import (
	"fmt"
	"math"
	"strings"
)

// RankForScore maps a 0..100 score onto its rank.
func RankForScore(score int) Rank {
	switch {
	case score >= PlatinumThreshold:
		return RankPlatinum
	case score >= GoldThreshold:
		return RankGold
	case score >= SilverThreshold:
		return RankSilver
	default:
		return RankBronze
	}
}

// TeamRankForScore ranks a team from its rounded average score.
func TeamRankForScore(average int) Rank {
	return RankForScore(average)
}

// ParseRank reads a rank name, case-insensitively.
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidRanks[r]; !ok {
		return "", fmt.Errorf("invalid rank '%s'. Must be platinum, gold, silver or bronze", s)
	}
	return r, nil
}

// ParseSortKey reads a service sort key or one of its aliases.
func ParseSortKey(s string) (SortKey, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return SortScoreDesc, nil
	}
	if alias, ok := SortKeyAliases[v]; ok {
		return alias, nil
	}
	k := SortKey(v)
	if _, ok := ValidSortKeys[k]; !ok {
		return "", fmt.Errorf("invalid sort '%s'. Must be one of %s", s, joinKeys(AllSortKeys))
	}
	return k, nil
}

// ParseTeamSortKey reads a team sort key.
func ParseTeamSortKey(s string) (TeamSortKey, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return TeamSortScoreDesc, nil
	}
	k := TeamSortKey(v)
	if _, ok := ValidTeamSortKeys[k]; !ok {
		return "", fmt.Errorf("invalid team sort '%s'. Must be one of %s", s, joinKeys(AllTeamSortKeys))
	}
	return k, nil
}

// ParseFilterMode reads include, exclude or an empty string.
func ParseFilterMode(s string) (FilterMode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "off", "any":
		return FilterOff, nil
	}
	m := FilterMode(v)
	if _, ok := ValidFilterModes[m]; !ok {
		return FilterOff, fmt.Errorf("invalid filter mode '%s'. Must be include or exclude", s)
	}
	return m, nil
}

// ParseCheckFilter reads "id:pass" or "id:fail".
func ParseCheckFilter(s string) (string, CheckStatus, error) {
	id, status, ok := strings.Cut(strings.TrimSpace(s), ":")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", "", fmt.Errorf("invalid check filter '%s'. Must look like <check-id>:pass or <check-id>:fail", s)
	}
	st := CheckStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != StatusPass && st != StatusFail {
		return "", "", fmt.Errorf("invalid check status '%s' for '%s'. Must be pass or fail", status, id)
	}
	return id, st, nil
}

// RoundTo rounds f to the given number of decimals.
func RoundTo(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}

func joinKeys[T ~string](keys []T) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
