package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/scorecards/schema"
)

// Adoption label constants.
const (
	StrongValue  = "Strong"  // Strong adoption
	PartialValue = "Partial" // Partial adoption
	WeakValue    = "Weak"    // Weak adoption
)

// Color variables for console output.
var (
	PlatinumColor = color.New(color.FgCyan, color.Bold)   // PlatinumColor marks the top tier.
	GoldColor     = color.New(color.FgYellow, color.Bold) // GoldColor marks the second tier.
	SilverColor   = color.New(color.FgWhite)              // SilverColor marks the third tier.
	BronzeColor   = color.New(color.FgRed)                // BronzeColor marks the lowest tier.
	StaleColor    = color.New(color.FgMagenta)            // StaleColor flags scorecards computed against old checks.

	StrongColor  = color.New(color.FgGreen, color.Bold)
	PartialColor = color.New(color.FgYellow)
	WeakColor    = color.New(color.FgRed)
)

// GetRankLabel returns the display label for a rank, title-cased.
func GetRankLabel(r schema.Rank) string {
	if _, ok := schema.ValidRanks[r]; !ok {
		return "Unranked"
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// GetColorRankLabel returns a colored rank label for console output (table).
func GetColorRankLabel(r schema.Rank) string {
	text := GetRankLabel(r)
	switch r {
	case schema.RankPlatinum:
		return PlatinumColor.Sprint(text)
	case schema.RankGold:
		return GoldColor.Sprint(text)
	case schema.RankSilver:
		return SilverColor.Sprint(text)
	case schema.RankBronze:
		return BronzeColor.Sprint(text)
	default:
		return text
	}
}

// GetAdoptionLabel returns a plain label for an adoption rate in 0..1.
func GetAdoptionLabel(rate float64) string {
	switch {
	case rate >= 0.8:
		return StrongValue
	case rate >= 0.5:
		return PartialValue
	default:
		return WeakValue
	}
}

// GetColorAdoptionLabel returns a colored adoption label for console output (table).
func GetColorAdoptionLabel(rate float64) string {
	text := GetAdoptionLabel(rate)
	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case PartialValue:
		return PartialColor.Sprint(text)
	default:
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scorecards_cache.db"
	}
	return filepath.Join(homeDir, ".scorecards_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scorecards_history.db"
	}
	return filepath.Join(homeDir, ".scorecards_history.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
