package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryan595/Movie-Recommendation-System/internal/config"
	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

var version = "dev"

var (
	cfg     *config.Config
	stores  *repository.Stores
	flagFmt string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "movierec",
		Short:   "Operator tools for the movie recommendation backend",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})
			if err := cfg.Validate(); err != nil {
				return err
			}
			var err error
			stores, err = repository.Open(cmd.Context(), cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if stores != nil {
				_ = stores.Close(context.Background())
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "table", "Output format: json|table")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newSimilarCmd())
	rootCmd.AddCommand(newEvaluateCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadService builds the snapshot and the recommendation service the same
// way the API does, without the cache and without recording history.
func loadService(ctx context.Context) (*service.RecommendService, *recommend.Snapshot, error) {
	snap, err := recommend.Load(ctx, recommend.Options{
		ModelDir:       cfg.ModelDir,
		Catalog:        stores.Movies,
		LikedThreshold: cfg.LikedThreshold,
	})
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewRecommendService(snap, stores.Movies, stores.Ratings, nil, nil, service.RecommendOptions{
		DefaultK: cfg.DefaultK,
		MaxK:     cfg.MaxK,
		MinSeeds: cfg.ColdStartMinSeeds,
	})
	return svc, snap, nil
}
