package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pstagner/toruscope/internal/session"
	"github.com/pstagner/toruscope/internal/store"
	"github.com/pstagner/toruscope/pkg/logger"
	"github.com/pstagner/toruscope/pkg/utils"
)

var (
	benchFrames int
	benchDB     string
	benchRunID  string
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compare controller modes over identical runs",
	Long:  "Runs the render loop three times with the controller off, in single-axis mode, and in pairwise mode, then prints the results side by side.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting benchmark", "frames", benchFrames)
		summaries, err := session.RunBenchmark(ctx, cfg, benchFrames)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODE\tFRAMES\tAVG FPS\tAVG QUALITY\tAVG SIMILARITY\tFINAL SCALE\tFINAL GAMMA\tFINAL RAMP")
		for _, sum := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.4f\t%.4f\t%.2f\t%.2f\t%d\n",
				sum.Mode, sum.Frames, sum.AvgFPS, sum.AvgQuality, sum.AvgSimilarity,
				sum.Params.ResolutionScale, sum.Params.Gamma, sum.Params.RampSize)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if benchDB != "" {
			db := store.NewSQLiteStore(benchDB)
			if err := db.Init(ctx); err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					logger.Error("failed to close database", "path", benchDB, "error", cerr)
				}
			}()
			if benchRunID == "" {
				benchRunID = utils.GenerateRunID()
			}
			if err := db.SaveSummaries(ctx, benchRunID, summaries); err != nil {
				return err
			}
			logger.Info("benchmark summaries saved", "run_id", benchRunID, "path", benchDB)
		}
		return nil
	},
}

func init() {
	benchmarkCmd.Flags().IntVar(&benchFrames, "frames", 120, "frames per mode (minimum 60)")
	benchmarkCmd.Flags().StringVar(&benchDB, "db", "", "save summaries to a SQLite database")
	benchmarkCmd.Flags().StringVar(&benchRunID, "run-id", "", "run identifier for database records (generated if empty)")
}
