package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryan595/Movie-Recommendation-System/internal/ingest"
)

func newImportCmd() *cobra.Command {
	var moviesPath, ratingsPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import MovieLens-style movies and ratings CSV files",
		Long: `Import movies (movieId,title,genres[,year,poster_url]) and ratings
(userId,movieId,rating,timestamp) into the configured store.
Movies are upserted. Ratings are appended; ratings of unknown movies and
off-scale ratings are skipped and counted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if moviesPath == "" && ratingsPath == "" {
				return fmt.Errorf("nothing to import: pass --movies and/or --ratings")
			}
			ctx := cmd.Context()
			im := &ingest.Importer{Movies: stores.Movies, Ratings: stores.Ratings}
			var res ingest.Result

			if moviesPath != "" {
				f, err := os.Open(moviesPath)
				if err != nil {
					return fmt.Errorf("opening movies: %w", err)
				}
				err = im.ImportMovies(ctx, f, &res)
				f.Close()
				if err != nil {
					return err
				}
			}
			if ratingsPath != "" {
				f, err := os.Open(ratingsPath)
				if err != nil {
					return fmt.Errorf("opening ratings: %w", err)
				}
				err = im.ImportRatings(ctx, f, &res)
				f.Close()
				if err != nil {
					return err
				}
			}

			output(res, []string{"MOVIES", "RATINGS", "SKIPPED", "UNKNOWN MOVIE"}, [][]string{{
				fmt.Sprint(res.Movies), fmt.Sprint(res.Ratings),
				fmt.Sprint(res.SkippedRatings), fmt.Sprint(res.UnknownMovies),
			}})
			return nil
		},
	}
	cmd.Flags().StringVar(&moviesPath, "movies", "", "movies.csv path")
	cmd.Flags().StringVar(&ratingsPath, "ratings", "", "ratings.csv path")
	return cmd
}
