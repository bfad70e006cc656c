// Package fittrack is the composition root of a personal fitness tracker.
//
// Users log what they eat and the exercise they do; each record lands in an
// append-only per-user log kept in flat files, next to one calories
// in/out/goal summary per day. Summaries over those logs (totals, averages,
// top foods and activities, trailing 7 and 30 day windows) are derived on
// read and never stored.
//
// The domain service in pkg/core is independent of storage. The default
// adapter (pkg/adapters/fs) keeps a data directory of JSON or YAML collections
// and CSV tables, optionally versioned with git.
//
// Usage:
//
//	foods, _ := reference.OpenFood("./data/food")
//	svc, err := fittrack.New("./data",
//		fittrack.WithFoodTable(foods),
//		fittrack.WithLogger(logger),
//	)
//
//	entry, err := svc.LogFood(ctx, "alice", date.Today(), "Apple", 150)
//	week, err := svc.Overview(ctx, "alice", 7)
package fittrack
