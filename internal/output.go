// Package internal has output and presentation logic shared by all commands.
package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// GetMaxTableNameWidth calculates the maximum width for entity names in table
// output based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns plus borders and padding
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable name width
		return 15
	}
	if available > 70 {
		// Maximum name width to prevent overly long entity names
		return 70
	}
	return available
}

// truncateName truncates an entity name to a maximum width with ellipsis suffix.
func truncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// headerPrefix returns the emoji prefix when emojis are enabled, empty otherwise.
func headerPrefix(cfg *contract.Config, emoji string) string {
	if cfg.UseEmojis {
		return emoji + " "
	}
	return ""
}

// trendLabel returns a plain or colored trend label depending on configuration.
func trendLabel(cfg *contract.Config, percentChange *float64) string {
	if cfg.UseColors {
		return contract.GetColorTrendLabel(percentChange)
	}
	return contract.GetPlainTrendLabel(percentChange)
}

// writeIndentedJSON marshals v as two-space indented JSON to w.
func writeIndentedJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// PrintJSONPayload writes any JSON-serializable payload to the configured
// output file, falling back to stdout.
func PrintJSONPayload(payload any, cfg *contract.Config) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer func() {
		if file != os.Stdout {
			_ = file.Close()
		}
	}()

	if err := writeIndentedJSON(file, payload); err != nil {
		return fmt.Errorf("error writing JSON output: %w", err)
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%sWrote JSON to %s\n", headerPrefix(cfg, "💾"), cfg.OutputFile)
	}
	return nil
}
