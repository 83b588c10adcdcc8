package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pstagner/toruscope/internal/session"
	"github.com/pstagner/toruscope/internal/tuner"
)

var synergyCmd = &cobra.Command{
	Use:   "synergy",
	Short: "Probe one controller step in both modes and compare scores",
	Long:  "Evaluates a single tuning step against a fixed scene with the single-axis controller and with the pairwise controller, then prints both suggestions and their scores.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report := session.ProbeSynergy(cfg)

		fmt.Printf("base score:  %.4f\n", report.Base)
		printSuggestion("K", report.K, report.KScore)
		printSuggestion("K+H", report.KH, report.KHScore)

		if report.KHScore > report.KScore {
			fmt.Println("pairwise probing found a better step than single-axis probing")
		} else {
			fmt.Println("no pairwise synergy beyond the single-axis step")
		}
		return nil
	},
}

func printSuggestion(label string, sug tuner.StepSuggestion, score float64) {
	fmt.Printf("%-4s score: %.4f  (mode=%s scale=%.2f spp=%d gamma=%.2f smooth=%.2f ramp=%d)\n",
		label, score, sug.Mode,
		sug.Next.ResolutionScale, sug.Next.SamplesPerPixel, sug.Next.Gamma,
		sug.Next.NormalSmooth, sug.Next.RampSize)
}
