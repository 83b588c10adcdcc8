package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pstagner/toruscope/internal/session"
	"github.com/pstagner/toruscope/internal/store"
	"github.com/pstagner/toruscope/pkg/logger"
	"github.com/pstagner/toruscope/pkg/utils"
)

var (
	runFrames int
	runCSV    string
	runDB     string
	runID     string
	runQuiet  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Render the torus loop, interactively or headless",
	Long:  "Renders the rotating torus. With --frames 0 it runs until interrupted, drawing to the terminal with a status line. With a frame count it runs headless and exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := session.New(cfg)

		var recorders session.MultiRecorder
		if runCSV != "" {
			csvRec, err := session.NewCSVRecorder(runCSV)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := csvRec.Close(); cerr != nil {
					logger.Error("failed to close CSV log", "path", runCSV, "error", cerr)
				}
			}()
			recorders = append(recorders, csvRec)
		}
		if runDB != "" {
			db := store.NewSQLiteStore(runDB)
			if err := db.Init(ctx); err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					logger.Error("failed to close database", "path", runDB, "error", cerr)
				}
			}()
			if runID == "" {
				runID = utils.GenerateRunID()
			}
			recorders = append(recorders, db.NewFrameRecorder(ctx, runID))
		}

		interactive := runFrames <= 0 && !runQuiet
		if interactive {
			recorders = append(recorders, &hudPrinter{session: s})
		}
		if len(recorders) > 0 {
			s.WithRecorder(recorders)
		}
		s.WithPacing(interactive)

		summary, err := s.Run(ctx, runFrames)
		if err != nil && ctx.Err() == nil {
			return err
		}

		if !interactive {
			printSummary(summary)
		}
		return nil
	},
}

// hudPrinter redraws the terminal on every frame: the ASCII buffer followed
// by a one-line status readout.
type hudPrinter struct {
	session *session.Session
}

func (h *hudPrinter) Record(rec session.FrameRecord) error {
	fmt.Print("\x1b[2J\x1b[H")
	fmt.Print(h.session.Buffer().String())
	fmt.Printf("fps=%.1f q=%.3f sim=%.3f scale=%.2f spp=%d gamma=%.2f ramp=%d ctrl=%s\n",
		h.session.SmoothedFPS, h.session.SmoothedQuality, rec.Similarity,
		rec.Params.ResolutionScale, rec.Params.SamplesPerPixel, rec.Params.Gamma,
		rec.Params.RampSize, rec.Controller)
	return nil
}

func printSummary(sum session.Summary) {
	fmt.Printf("mode=%s frames=%d avg_fps=%.2f avg_quality=%.4f avg_similarity=%.4f\n",
		sum.Mode, sum.Frames, sum.AvgFPS, sum.AvgQuality, sum.AvgSimilarity)
	fmt.Printf("final params: scale=%.2f spp=%d gamma=%.2f smooth=%.2f ramp=%d\n",
		sum.Params.ResolutionScale, sum.Params.SamplesPerPixel, sum.Params.Gamma,
		sum.Params.NormalSmooth, sum.Params.RampSize)
}

func init() {
	runCmd.Flags().IntVar(&runFrames, "frames", 0, "number of frames to render (0 = run until interrupted)")
	runCmd.Flags().StringVar(&runCSV, "log-csv", "", "write per-frame metrics to a CSV file")
	runCmd.Flags().StringVar(&runDB, "db", "", "write per-frame metrics to a SQLite database")
	runCmd.Flags().StringVar(&runID, "run-id", "", "run identifier for database records (generated if empty)")
	runCmd.Flags().BoolVar(&runQuiet, "quiet", false, "suppress the terminal display")
}
