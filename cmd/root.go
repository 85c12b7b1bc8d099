package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/price-tracker/internal/app"
	"github.com/nguyentranbao-ct/price-tracker/internal/kafka"
	"github.com/nguyentranbao-ct/price-tracker/internal/parser"
	"github.com/nguyentranbao-ct/price-tracker/internal/scheduler"
	"github.com/nguyentranbao-ct/price-tracker/internal/server"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var rootCmd = &cobra.Command{
	Use:           "price-tracker",
	Short:         "Tracks a price listing and reports what changed",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, scheduler and refresh consumer",
	Run:   serve,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one fetch cycle against the configured source and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tracker usecase.TrackerUsecase
		a := app.New(fx.Populate(&tracker), fx.Invoke(kafka.ClosePublisherOnStop))

		ctx := cmd.Context()
		if err := a.Start(ctx); err != nil {
			return err
		}
		defer func() {
			_ = a.Stop(context.WithoutCancel(ctx))
		}()

		res, err := tracker.Refresh(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var maxPrice int64

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a saved listing page and print the products with drop stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		res, err := parser.New(parser.WithMaxPrice(maxPrice)).Parse(doc)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	parseCmd.Flags().Int64Var(&maxPrice, "max-price", parser.DefaultMaxPrice, "prices above this are dropped")
	rootCmd.AddCommand(serveCmd, fetchCmd, parseCmd)
}

func serve(cmd *cobra.Command, args []string) {
	app.Invoke(
		server.StartServer,
		scheduler.StartScheduler,
		kafka.StartConsumeRefresh,
		kafka.ClosePublisherOnStop,
	).Run()
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.MustNamed("cmd").Fatal(err)
	}
}
