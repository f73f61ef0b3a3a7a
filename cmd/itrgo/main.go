package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/itrgo/internal/calculation"
	"github.com/rgehrsitz/itrgo/internal/config"
	"github.com/rgehrsitz/itrgo/internal/filing"
	"github.com/rgehrsitz/itrgo/internal/output"
	"github.com/rgehrsitz/itrgo/internal/storage"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "itrgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "itrgo",
	Short: "Indian income tax regime calculator CLI",
	Long: `Compare the New and Old income tax regimes for a salaried individual,
audit the claim for compliance risk and produce an ITR filing payload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newEngine loads the rule set and, when dbPath is set, attaches a SQLite
// record store. The returned close func is always safe to call.
func newEngine(cmd *cobra.Command) (*calculation.Engine, func(), error) {
	rulesFile, _ := cmd.Flags().GetString("rules")
	rules, err := config.NewInputParser().LoadRules(rulesFile)
	if err != nil {
		return nil, nil, err
	}

	engine := calculation.NewEngine(rules)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}

	closeFn := func() {}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		engine.Store = store
		closeFn = func() { _ = store.Close() }
	}
	return engine, closeFn, nil
}

// printViolations lists every field violation when err is a validation error.
func printViolations(w io.Writer, err error) {
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	fmt.Fprintln(w, "❌ Profile is invalid:")
	for _, v := range verr.Violations {
		fmt.Fprintf(w, "  - %s: %s\n", v.Field, v.Message)
	}
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [profile-file]",
	Short: "Compare both regimes and audit a taxpayer profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", format,
				strings.Join(output.AvailableFormatterNames(), ", "),
				strings.Join(output.AvailableFormatAliases(), ", "))
		}

		raw, err := config.NewInputParser().LoadRawProfile(args[0])
		if err != nil {
			return err
		}

		engine, closeFn, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		assessment, err := engine.Process(context.Background(), raw)
		if err != nil {
			printViolations(cmd.ErrOrStderr(), err)
			return err
		}

		if formatter.Name() == "html" {
			filename, err := output.WriteFormatted(formatter, assessment, "html")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HTML report written to %s\n", filename)
			return nil
		}

		data, err := formatter.Format(assessment)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	},
}

var fileCmd = &cobra.Command{
	Use:   "file [profile-file]",
	Short: "Produce the ITR filing payload for a profile",
	Long: `Produce the ITR filing payload for a profile. The payload is refused when
the compliance audit blocks filing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := config.NewInputParser().LoadProfile(args[0])
		if err != nil {
			printViolations(cmd.ErrOrStderr(), err)
			return err
		}

		engine, closeFn, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		payload, err := engine.FilingFor(context.Background(), profile)
		if err != nil {
			return err
		}
		data, err := filing.Render(*payload)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Filing payload %s written to %s\n", payload.FilingMetadata.SubmissionID, outPath)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [profile-file]",
	Short: "Validate a taxpayer profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := config.NewInputParser().LoadProfile(args[0])
		if err != nil {
			printViolations(cmd.ErrOrStderr(), err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Profile is valid: %s (%s), gross income %s\n",
			profile.Name, profile.PAN, output.FormatCurrency(profile.GrossIncome()))
		return nil
	},
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules", "", "Path to a tax rules YAML file (default: built-in FY rules)")
	cmd.Flags().String("db", "", "SQLite database to record the assessment in")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, json, filing-json, csv, html)")
	addEngineFlags(calculateCmd)

	fileCmd.Flags().StringP("out", "o", "", "Write the payload to this file instead of stdout")
	addEngineFlags(fileCmd)

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
	initRecordsCommands()
	initAssistCommands()
	initServeCommand()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, calculation.ErrFilingBlocked) {
			fmt.Fprintf(os.Stderr, "⛔ %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
