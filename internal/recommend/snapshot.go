package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aryan595/Movie-Recommendation-System/internal/embedding"
	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/metrics"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/similarity"
)

// CatalogSource lists every movie in the metadata store.
type CatalogSource interface {
	ListAll(ctx context.Context) ([]models.MovieDoc, error)
}

// Options for Load.
type Options struct {
	ModelDir       string
	Catalog        CatalogSource
	LikedThreshold float64
}

// Snapshot is one immutable model generation. Nothing in it is modified
// after Load returns, so it is shared by pointer without locking.
type Snapshot struct {
	Identity   *identity.Index
	Similarity *similarity.Index
	Ranker     *Ranker
	Explainer  *Explainer

	// Generation changes on every load and keys caches derived from the
	// snapshot.
	Generation string
	LoadedAt   time.Time

	scorer  Scorer
	version string
}

// Load reads the identity tables and the model from ModelDir and builds the
// similarity index from the catalog, all three concurrently.
func Load(ctx context.Context, opts Options) (*Snapshot, error) {
	start := time.Now()
	var (
		ids     *identity.Index
		model   *embedding.Model
		sim     *similarity.Index
		catalog int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ids, err = identity.Load(opts.ModelDir)
		return err
	})
	g.Go(func() error {
		var err error
		model, err = embedding.Load(opts.ModelDir)
		return err
	})
	g.Go(func() error {
		movies, err := opts.Catalog.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("list catalog: %w", err)
		}
		catalog = len(movies)
		sim, err = similarity.Build(gctx, movies)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := fits(ids, model); err != nil {
		return nil, err
	}

	snap := New(ids, model, sim, model.Version, opts.LikedThreshold)
	took := time.Since(start)
	metrics.SetSnapshotSize(ids.Len(identity.User), ids.Len(identity.Movie), catalog, sim.VocabularySize(), took)
	logging.Info().
		Str("generation", snap.Generation).
		Str("model_version", snap.version).
		Int("users", ids.Len(identity.User)).
		Int("movies", ids.Len(identity.Movie)).
		Int("catalog", catalog).
		Dur("took", took).
		Msg("snapshot loaded")
	return snap, nil
}

// New assembles a snapshot from already-built parts.
func New(ids *identity.Index, scorer Scorer, sim *similarity.Index, version string, likedThreshold float64) *Snapshot {
	return &Snapshot{
		Identity:   ids,
		Similarity: sim,
		Ranker:     NewRanker(ids, scorer),
		Explainer:  NewExplainer(ids, scorer, likedThreshold),
		Generation: uuid.NewString(),
		LoadedAt:   time.Now().UTC(),
		scorer:     scorer,
		version:    version,
	}
}

func (s *Snapshot) ModelVersion() string { return s.version }

// fits rejects identity tables that point past the model's rows.
func fits(ids *identity.Index, m *embedding.Model) error {
	for _, k := range []identity.Kind{identity.User, identity.Movie} {
		if hi := ids.MaxDense(k); hi >= m.Rows(k) {
			return fmt.Errorf("%s index %d outside model with %d rows", k, hi, m.Rows(k))
		}
	}
	return nil
}
