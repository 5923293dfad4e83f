// Package snapshot saves and restores comparison results.
//
// A snapshot is a single JSON document: the format envelope ("version", "type"),
// every field of a diff.Result inlined at the top level, and an opaque
// "viewerState" object holding display preferences. Only "showMovedRows" is
// interpreted here; other keys round-trip untouched.
//
// Documents of any 1.x version are accepted. Bundles written before viewerState
// existed carry "showMovedRows" at the top level and are still understood.
//
// # Storage
//
// Store keeps snapshots in an object storage bucket under a prefix. Loads are
// cached for a TTL and de-duplicated with singleflight, so a burst of requests for
// the same snapshot downloads it once.
//
//	store := snapshot.NewStore(client, cfg.Storage.Bucket, cfg.Compare.SnapshotPrefix, ttl, log)
//	if err := store.Save(ctx, "nightly", snapshot.New(result, false)); err != nil {
//	    return err
//	}
package snapshot
