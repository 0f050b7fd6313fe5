// Package recommend turns the loaded model artifacts into ranked movie
// lists.
//
// A Snapshot bundles the identity index, the embedding model and the
// content similarity index of one model generation. It is built once at
// startup and shared read-only by every request:
//
//	snap, err := recommend.Load(ctx, recommend.Options{ModelDir: dir, Catalog: movies})
//	top, err := snap.Ranker.Recommend(userDense, seen, 10)
//	why, ok := snap.Explainer.Explain(top[0].MovieID, history)
//
// Raters the identity index cannot resolve never reach the Ranker; they
// are served by the cold-start functions Popular and GenreOverlap.
package recommend
