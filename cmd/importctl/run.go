package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"catalog-service/internal/config"
	"catalog-service/internal/grouping"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

var (
	runFile      string
	runSchema    string
	runSupplier  string
	runStrategy  string
	runBatchSize int
	runQuiet     bool

	validateSchema string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Import a CSV or XLSX product sheet into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		var strategy grouping.Strategy
		if runStrategy != "" {
			parsed, err := grouping.ParseStrategy(runStrategy)
			if err != nil {
				return err
			}
			strategy = parsed
		}
		sheet, err := readSheet(runFile)
		if err != nil {
			return err
		}

		a, err := connect()
		if err != nil {
			return err
		}
		defer a.Close()

		schema := runSchema
		if schema == "" {
			schema = a.Config.DefaultSchema
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		req := services.ImportRequest{
			FileName:  runFile,
			Schema:    schema,
			Supplier:  runSupplier,
			Strategy:  strategy,
			BatchSize: runBatchSize,
			Headers:   sheet.Headers,
			Rows:      sheet.Rows,
		}
		if !runQuiet {
			req.OnProgress = func(state models.ImportState, p models.ImportProgress) {
				if state == models.ImportStatePersisting {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%s %d/%d (failed %d)", state, p.Processed, p.Total, p.Failed)
				}
			}
		}

		outcome, err := a.Imports.Run(ctx, req)
		if !runQuiet {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		if outcome != nil {
			printOutcome(cmd, outcome)
		}
		if err != nil {
			return err
		}
		if outcome.State == models.ImportStateValidationFailed {
			return errors.New("validation failed")
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a product sheet against a column mapping without touching the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := readSheet(runFile)
		if err != nil {
			return err
		}
		if _, err := config.LoadMappings(config.Load().MappingsFile); err != nil {
			return err
		}
		mapping, err := importer.Resolve(validateSchema)
		if err != nil {
			return err
		}
		if err := mapping.CheckHeaders(sheet.Headers); err != nil {
			return err
		}
		errs := importer.Validate(sheet.Rows, mapping)
		for _, e := range errs {
			fmt.Fprintf(cmd.OutOrStdout(), "row %d  %-15s %s\n", e.Row, e.Field, e.Message)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d validation errors", len(errs))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows OK\n", len(sheet.Rows))
		return nil
	},
}

func readSheet(path string) (*importer.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return importer.ReadFile(path, f)
}

func printOutcome(cmd *cobra.Command, o *models.ImportOutcome) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, `
=== Import Report ===
State:          %s
Masters:        %d
Successful:     %d (created %d, updated %d)
Failed:         %d
Ungrouped:      %d
Duration:       %dms
`, o.State, o.MasterCount, o.SuccessCount, o.CreatedCount, o.UpdatedCount, o.FailedCount, o.UngroupedCount, o.ProcessingMs)
	if o.LogID != nil {
		fmt.Fprintf(out, "Log:            %s\n", o.LogID)
	}
	if o.DominantError != nil {
		fmt.Fprintf(out, "Main error:     %s x%d: %s\n", o.DominantError.Code, o.DominantError.Occurrences, o.DominantError.Message)
	}
	for _, e := range o.ValidationErrors {
		fmt.Fprintf(out, "  row %d  %-15s %s\n", e.Row, e.Field, e.Message)
	}
	fmt.Fprintln(out, "=====================")
}

func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVarP(&runFile, "file", "f", "", "CSV or XLSX file (required)")
		c.MarkFlagRequired("file")
	}
	runCmd.Flags().StringVar(&runSchema, "schema", "", "Column mapping (default IMPORT_DEFAULT_SCHEMA)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", importer.SchemaLocalized, "Column mapping")
	runCmd.Flags().StringVar(&runSupplier, "supplier", "", "Supplier recorded on the import log")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "Grouping strategy: prefix-merge or similarity-class")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "Variants per chunk (default IMPORT_BATCH_SIZE)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not print progress")
	rootCmd.AddCommand(runCmd, validateCmd)
}
