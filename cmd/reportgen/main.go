package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"violation-report/config"
	"violation-report/models"
	"violation-report/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config
	var cmdRoot = &cobra.Command{
		Use:           "reportgen",
		Short:         "Violation report generator",
		Long:          `reportgen renders drone violation reports from JSON without running the HTTP service.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			level := cfg.LogLevel
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}
			config.SetupLogging(level, cfg.LogFormat)
			return nil
		},
	}
	cmdRoot.PersistentFlags().Bool("debug", false, "log debugging information")

	generator := func() *report.Generator {
		return report.NewGenerator(report.OptionsFromConfig(cfg))
	}
	cmdRoot.AddCommand(cmdRender(generator))
	cmdRoot.AddCommand(cmdPlan(generator))
	return cmdRoot
}

func cmdRender(generator func() *report.Generator) *cobra.Command {
	var inputFile string
	var outputFile = report.FileName
	var cmd = &cobra.Command{
		Use:   "render",
		Short: "render a report request to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(inputFile)
			if err != nil {
				return err
			}
			doc, err := generator().Build(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outputFile, doc.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			for id, reason := range doc.Unavailable {
				log.WithField("record_id", id).WithError(reason).Warn("Placeholder drawn")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: wrote %d pages, %d bytes\n", outputFile, doc.Pages, len(doc.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFile, "input", "i", inputFile, "report request JSON file (- for stdin)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "PDF file to write")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func cmdPlan(generator func() *report.Generator) *cobra.Command {
	var inputFile string
	var cmd = &cobra.Command{
		Use:   "plan",
		Short: "print the page plan of a report request without producing a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(inputFile)
			if err != nil {
				return err
			}
			_, err = generator().Plan(cmd.Context(), req, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&inputFile, "input", "i", inputFile, "report request JSON file (- for stdin)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readRequest(path string) (*models.ReportRequest, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var req models.ReportRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &req, nil
}
