package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/cache"
	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/metrics"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

const (
	DefaultK        = 10
	MaxK            = 50
	DefaultMinSeeds = 5
)

// RecommendOptions tunes RecommendService. Zero values take the defaults.
type RecommendOptions struct {
	DefaultK        int
	MaxK            int
	MinSeeds        int
	SimilarCacheTTL time.Duration
}

type RecommendService struct {
	snap    *recommend.Snapshot
	movies  repository.MovieStore
	ratings repository.RatingStore
	history repository.RecommendationStore
	cache   SimilarCache
	opts    RecommendOptions
}

func NewRecommendService(
	snap *recommend.Snapshot,
	movies repository.MovieStore,
	ratings repository.RatingStore,
	history repository.RecommendationStore,
	c SimilarCache,
	opts RecommendOptions,
) *RecommendService {
	if c == nil {
		c = &cache.Cache{}
	}
	if opts.DefaultK <= 0 {
		opts.DefaultK = DefaultK
	}
	if opts.MaxK <= 0 {
		opts.MaxK = MaxK
	}
	if opts.MinSeeds <= 0 {
		opts.MinSeeds = DefaultMinSeeds
	}
	return &RecommendService{
		snap:    snap,
		movies:  movies,
		ratings: ratings,
		history: history,
		cache:   c,
		opts:    opts,
	}
}

type RecRequest struct {
	UserID  int
	K       int
	Explain bool
}

func (s *RecommendService) clampK(k int) int {
	if k <= 0 {
		return s.opts.DefaultK
	}
	if k > s.opts.MaxK {
		return s.opts.MaxK
	}
	return k
}

func seenSet(ratings []models.RatingDoc) map[int]struct{} {
	seen := make(map[int]struct{}, len(ratings))
	for _, r := range ratings {
		seen[r.MovieID] = struct{}{}
	}
	return seen
}

// Recommend serves a personalized list to raters the model knows and a
// popularity list to everyone else. Movies the user has rated never appear.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) (*models.RecommendResult, error) {
	start := time.Now()
	req.K = s.clampK(req.K)

	history, err := s.ratings.GetAllByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	seen := seenSet(history)

	res := &models.RecommendResult{UserID: req.UserID, Generation: s.snap.Generation}
	var ranked []recommend.Scored

	if dense, ok := s.snap.Identity.ToDense(identity.User, req.UserID); ok {
		res.Strategy = models.StrategyPersonalized
		ranked, err = s.snap.Ranker.Recommend(dense, seen, req.K)
		if err != nil {
			return nil, err
		}
	} else {
		res.Strategy = models.StrategyColdStartPopularity
		catalog, err := s.movies.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		ranked = recommend.Popular(catalog, seen, req.K)
	}

	res.Items, err = s.join(ctx, ranked)
	if err != nil {
		return nil, err
	}
	if req.Explain {
		s.explain(ctx, res.Items, history)
	}

	metrics.RecordRecommendation(res.Strategy, time.Since(start))
	s.record(ctx, res, req.K)
	return res, nil
}

// ColdStart ranks the catalog by genre overlap with the seed movies a new
// user picked. At least MinSeeds distinct catalog movies are required.
func (s *RecommendService) ColdStart(ctx context.Context, userID int, seeds []int, k int) (*models.RecommendResult, error) {
	start := time.Now()
	k = s.clampK(k)

	catalog, err := s.movies.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	known := make(map[int]struct{}, len(catalog))
	for _, m := range catalog {
		known[m.MovieID] = struct{}{}
	}
	distinct := make(map[int]struct{}, len(seeds))
	for _, id := range seeds {
		if _, ok := known[id]; ok {
			distinct[id] = struct{}{}
		}
	}
	if len(distinct) < s.opts.MinSeeds {
		return nil, fmt.Errorf("%w: got %d, need %d", models.ErrNotEnoughSeeds, len(distinct), s.opts.MinSeeds)
	}

	history, err := s.ratings.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	ranked := recommend.GenreOverlap(catalog, seeds, seenSet(history), k)

	res := &models.RecommendResult{
		UserID:     userID,
		Strategy:   models.StrategyGenreOverlap,
		Generation: s.snap.Generation,
	}
	res.Items, err = s.join(ctx, ranked)
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendation(res.Strategy, time.Since(start))
	s.record(ctx, res, k)
	return res, nil
}

// SeedPool lists the popular movies a new user picks seeds from.
func (s *RecommendService) SeedPool(ctx context.Context, n int) ([]models.MovieDoc, error) {
	catalog, err := s.movies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = recommend.DefaultSeedPool
	}
	return recommend.SeedPool(catalog, n), nil
}

// Similar lists movies sharing the most genre content with movieID. The
// neighbour lists are cached per snapshot generation and joined against the
// catalog on every call, so deleted movies drop out immediately.
func (s *RecommendService) Similar(ctx context.Context, movieID, k int) ([]models.RecItem, error) {
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("movie %d: %w", movieID, models.ErrUnknownEntity)
	}

	k = s.clampK(k)
	key := cache.SimilarKey(s.snap.Generation, movieID, k)

	var ranked []recommend.Scored
	ok, err := s.cache.GetJSON(ctx, key, &ranked)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("similar cache read failed")
	}
	if ok && err == nil {
		metrics.SimilarCacheHits.Inc()
		return s.join(ctx, ranked)
	}
	metrics.SimilarCacheMisses.Inc()

	neighbors, err := s.snap.Similarity.SimilarTo(movieID, k)
	if err != nil {
		return nil, err
	}
	ranked = make([]recommend.Scored, len(neighbors))
	for i, n := range neighbors {
		ranked[i] = recommend.Scored{MovieID: n.MovieID, Score: n.Similarity}
	}
	if err := s.cache.SetJSON(ctx, key, ranked, s.opts.SimilarCacheTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("similar cache write failed")
	}
	return s.join(ctx, ranked)
}

// History returns the lists previously served to the user.
func (s *RecommendService) History(ctx context.Context, userID, limit int) ([]models.Recommendation, error) {
	if s.history == nil {
		return []models.Recommendation{}, nil
	}
	return s.history.FindByUser(ctx, userID, limit)
}

// Evaluate measures the loaded model against every stored rating.
func (s *RecommendService) Evaluate(ctx context.Context) (models.ModelEvaluation, error) {
	all, err := s.ratings.ListAll(ctx)
	if err != nil {
		return models.ModelEvaluation{}, err
	}
	return s.snap.Evaluate(ctx, all)
}

// join attaches metadata in ranked order, dropping ids no longer in the
// catalog.
func (s *RecommendService) join(ctx context.Context, ranked []recommend.Scored) ([]models.RecItem, error) {
	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.MovieID
	}
	meta, err := s.movies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load movie metadata: %w", err)
	}

	items := make([]models.RecItem, 0, len(ranked))
	for _, r := range ranked {
		m, ok := meta[r.MovieID]
		if !ok {
			metrics.DanglingDropped.Inc()
			logging.Ctx(ctx).Debug().Int("movie_id", r.MovieID).Msg("ranked movie missing from catalog, dropped")
			continue
		}
		items = append(items, models.RecItem{
			MovieID:   m.MovieID,
			Title:     m.Title,
			Genres:    m.Genres,
			PosterURL: m.PosterURL,
			Score:     r.Score,
		})
	}
	return items, nil
}

// Explain annotates items in place for userID. Used when the list and its
// explanations are delivered separately.
func (s *RecommendService) Explain(ctx context.Context, userID int, items []models.RecItem) error {
	history, err := s.ratings.GetAllByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	s.explain(ctx, items, history)
	return nil
}

// explain annotates items in place. Nothing here can fail the request.
func (s *RecommendService) explain(ctx context.Context, items []models.RecItem, history []models.RatingDoc) {
	threshold := s.snap.Explainer.Threshold()
	likedIDs := make([]int, 0, len(history))
	for _, r := range history {
		if r.Rating >= threshold {
			likedIDs = append(likedIDs, r.MovieID)
		}
	}

	var liked []models.RatingDoc
	titles := map[int]models.MovieDoc{}
	if len(likedIDs) > 0 {
		var err error
		titles, err = s.movies.GetByIDs(ctx, likedIDs)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("explanations skipped: liked metadata unavailable")
			titles = map[int]models.MovieDoc{}
		}
		for _, r := range history {
			if _, ok := titles[r.MovieID]; ok {
				liked = append(liked, r)
			}
		}
	}

	for i := range items {
		exp, ok := s.snap.Explainer.Explain(items[i].MovieID, liked)
		metrics.RecordExplanation(ok)
		if !ok {
			items[i].Reason = models.NoExplanationReason
			continue
		}
		exp.LikedTitle = titles[exp.LikedMovieID].Title
		items[i].Explanation = &exp
	}
}

// record stores the served list. Failures are logged and swallowed.
func (s *RecommendService) record(ctx context.Context, res *models.RecommendResult, k int) {
	if s.history == nil {
		return
	}
	rec := &models.Recommendation{
		UserID:       res.UserID,
		Strategy:     res.Strategy,
		ModelVersion: s.snap.ModelVersion(),
		Generation:   res.Generation,
		K:            k,
		Items:        res.Items,
	}
	if err := s.history.Insert(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		logging.Ctx(ctx).Warn().Err(err).Int("user_id", res.UserID).Msg("recommendation history insert failed")
	}
}
