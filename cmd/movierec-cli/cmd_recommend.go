package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

func newRecommendCmd() *cobra.Command {
	var (
		k       int
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "recommend <userId>",
		Short: "Print the top-K recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid userId %q", args[0])
			}
			svc, _, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Recommend(cmd.Context(), service.RecRequest{UserID: userID, K: k, Explain: explain})
			if err != nil {
				return err
			}
			output(res, []string{"MOVIE", "SCORE", "TITLE", "BECAUSE YOU LIKED"}, itemRows(res.Items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 10, "number of recommendations")
	cmd.Flags().BoolVar(&explain, "explain", false, "attach explanations")
	return cmd
}

func newSimilarCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "similar <movieId>",
		Short: "Print the movies with the most similar genres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid movieId %q", args[0])
			}
			svc, _, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			items, err := svc.Similar(cmd.Context(), movieID, k)
			if err != nil {
				return err
			}
			output(items, []string{"MOVIE", "SIMILARITY", "TITLE", ""}, itemRows(items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 10, "number of movies")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Report RMSE and MAE of the model on the stored ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			ev, err := svc.Evaluate(cmd.Context())
			if err != nil {
				return err
			}
			output(ev, []string{"MODEL", "EVALUATED", "SKIPPED", "RMSE", "MAE"}, [][]string{{
				ev.ModelVersion, strconv.Itoa(ev.Evaluated), strconv.Itoa(ev.Skipped),
				strconv.FormatFloat(ev.RMSE, 'f', 4, 64), strconv.FormatFloat(ev.MAE, 'f', 4, 64),
			}})
			return nil
		},
	}
}

func itemRows(items []models.RecItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		why := ""
		if it.Explanation != nil {
			why = it.Explanation.LikedTitle
		}
		rows = append(rows, []string{
			strconv.Itoa(it.MovieID),
			strconv.FormatFloat(it.Score, 'f', 3, 64),
			it.Title,
			why,
		})
	}
	return rows
}
