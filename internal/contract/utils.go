package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Mover label constants for trend output.
const (
	SurgingValue   = "Surging"
	GrowingValue   = "Growing"
	FlatValue      = "Flat"
	DecliningValue = "Declining"
)

// Color variables for console output.
var (
	SurgingColor   = color.New(color.FgRed, color.Bold) // strong upward movement
	GrowingColor   = color.New(color.FgYellow)
	FlatColor      = color.New(color.FgCyan)
	DecliningColor = color.New(color.FgBlue)
)

// GetPlainTrendLabel returns a plain text label for a percent change value.
// This is the core logic used for CSV, JSON and table printing.
func GetPlainTrendLabel(percentChange *float64) string {
	if percentChange == nil {
		return FlatValue
	}
	switch {
	case *percentChange >= 25:
		return SurgingValue
	case *percentChange > 0:
		return GrowingValue
	case *percentChange < 0:
		return DecliningValue
	default:
		return FlatValue
	}
}

// GetColorTrendLabel returns a colored label for console table output.
func GetColorTrendLabel(percentChange *float64) string {
	text := GetPlainTrendLabel(percentChange)
	switch text {
	case SurgingValue:
		return SurgingColor.Sprint(text)
	case GrowingValue:
		return GrowingColor.Sprint(text)
	case DecliningValue:
		return DecliningColor.Sprint(text)
	default:
		return FlatColor.Sprint(text)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning.
func LogWarn(msg string) {
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

// SelectOutputFile returns the appropriate file handle for output based on the
// provided file path, falling back to os.Stdout when empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// appDirName is the per-user directory for census state files.
const appDirName = ".census"

// GetCacheDBFilePath returns the default SQLite DB file path for the result cache.
func GetCacheDBFilePath() string {
	return filepath.Join(stateDir(), "cache.db")
}

// GetQueryLogDBFilePath returns the default SQLite DB file path for query logging.
func GetQueryLogDBFilePath() string {
	return filepath.Join(stateDir(), "querylog.db")
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, appDirName)
	_ = os.MkdirAll(dir, 0o755)
	return dir
}
