package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Reaganramsarup/dubber-poc/internal/config"
	"github.com/Reaganramsarup/dubber-poc/internal/worker"

	"github.com/spf13/cobra"
)

var dubCmd = &cobra.Command{
	Use:   "dub",
	Short: "Run the dubbing pipeline for one video",
	Long: `Dub runs the full pipeline for the video named in the job config: audio
extraction, transcription, sentence segmentation, translation, duration-fitted
speech synthesis, and the final per-language stitch. Intermediate artifacts are
kept in the output directory and completed steps are skipped on re-runs.`,
	RunE: runDub,
}

var (
	configFile string
	fresh      bool
	regenAudio bool
)

func init() {
	dubCmd.Flags().StringVarP(&configFile, "config", "c", "", "job config file (yaml/json)")
	dubCmd.Flags().BoolVar(&fresh, "fresh", false, "wipe the output directory before starting")
	dubCmd.Flags().BoolVar(&regenAudio, "regen-audio", false, "regenerate audio clips even if a language directory exists")
	dubCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(dubCmd)
}

func runDub(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if fresh {
		cfg.Job.Fresh = true
	}
	if regenAudio {
		cfg.Job.RegenerateAudio = true
	}

	if _, err := os.Stat(cfg.Job.VideoFile); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", cfg.Job.VideoFile)
	}

	// Graceful cancellation on Ctrl-C.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx, cfg); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done")
	}
	return nil
}
