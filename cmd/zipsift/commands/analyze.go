package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zipsift/zipsift/analyze"
)

func NewAnalyzeCommand() *cobra.Command {
	var (
		output     string
		reportPath string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:     "analyze <archive.zip>",
		Aliases: []string{"clean"},
		Short:   "Analyze and clean a ZIP archive locally",
		Long: `Analyze a ZIP archive and write a cleaned copy

Removes exact byte-identical duplicates (first occurrence wins),
files older than the stale threshold, and screenshot-like captures.
Files over the large-file threshold are flagged in the report but
kept in the archive.`,

		Example: `  # Clean an archive (writes cleaned_photos.zip)
  zipsift analyze photos.zip

  # Choose the output path and save the report
  zipsift analyze photos.zip -o tidy.zip --report stats.json

  # Print the report as JSON to stdout
  zipsift analyze photos.zip --json`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			fc, err := loadFromCommand(cmd)
			if err != nil {
				return err
			}
			cfg, err := fc.PipelineConfig()
			if err != nil {
				return err
			}

			verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
			if !verbose {
				cfg.Logger = quietLogger{}
			}

			raw, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read archive: %w", err)
			}

			analyzer := analyze.NewAnalyzer(cfg)
			result, err := analyzer.Analyze(raw, filepath.Base(input))
			if err != nil {
				return err
			}

			if output == "" {
				base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
				output = filepath.Join(filepath.Dir(input), "cleaned_"+base+".zip")
			}
			if err := os.WriteFile(output, result.Archive, 0644); err != nil {
				return fmt.Errorf("failed to write cleaned archive: %w", err)
			}

			if reportPath != "" {
				data, err := json.MarshalIndent(result.Report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				if err := os.WriteFile(reportPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}

			if jsonOut {
				data, err := json.MarshalIndent(result.Report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printSummary(result.Report, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "cleaned archive path (default cleaned_<name>.zip)")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the report as JSON to this path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON to stdout")

	return cmd
}

// quietLogger discards pipeline logging unless --verbose is set.
type quietLogger struct{}

func (quietLogger) Printf(format string, v ...interface{}) {}
func (quietLogger) Println(v ...interface{})               {}

func printSummary(r *analyze.Report, output string) {
	fmt.Printf("\n%s\n", r.FileName)
	fmt.Println(strings.Repeat("─", len(r.FileName)))
	fmt.Printf("  Analyzed:     %d files (%.2f MB)\n", r.TotalFilesAnalyzed, r.OriginalSizeMB)
	fmt.Printf("  Removed:      %d files\n", r.TotalFilesRemoved)
	fmt.Printf("    duplicates:  %d (%.2f MB)\n", r.DuplicatesRemoved.Count, mb(r.DuplicatesRemoved.SizeBytes))
	fmt.Printf("    stale:       %d (%.2f MB)\n", r.StaleRemoved.Count, mb(r.StaleRemoved.SizeBytes))
	fmt.Printf("    screenshots: %d (%.2f MB)\n", r.ScreenshotsRemoved.Count, mb(r.ScreenshotsRemoved.SizeBytes))
	if r.OversizedFlagged.Count > 0 {
		fmt.Printf("  Flagged large: %d (%.2f MB, kept)\n", r.OversizedFlagged.Count, mb(r.OversizedFlagged.SizeBytes))
	}
	fmt.Printf("  Cleaned:      %.2f MB (-%.1f%%)\n", r.CleanedSizeMB, r.ReductionPercent)
	fmt.Printf("  Output:       %s\n", output)

	if len(r.Categories) > 0 {
		fmt.Println("\n  Kept by category")
		printCategoryBars(r.Categories)
	}
	fmt.Println()
}

// printCategoryBars renders a proportional bar per category, sized to
// the terminal when stdout is one.
func printCategoryBars(cats []analyze.CategoryStat) {
	width := 40
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
			width = w - 36
			if width > 60 {
				width = 60
			}
		}
	}

	var max int64
	for _, c := range cats {
		if c.SizeBytes > max {
			max = c.SizeBytes
		}
	}
	if max == 0 {
		max = 1
	}

	for _, c := range cats {
		bar := int(int64(width) * c.SizeBytes / max)
		if bar == 0 && c.SizeBytes > 0 {
			bar = 1
		}
		fmt.Printf("    %-14s %4d  %8.2f MB  %s\n",
			c.Category, c.Count, c.SizeMB, strings.Repeat("█", bar))
	}
}

func mb(bytes int64) float64 {
	return float64(bytes) / 1048576
}
