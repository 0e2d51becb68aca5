// Package catalog maintains the merged product catalog read model.
//
// Catalog data comes from several sources, each loaded independently. When a source
// changes it is refreshed and a merge is scheduled. The MergeScheduler coalesces
// bursts of invalidations into a single merge, waiting for a quiet period (debounce)
// but never longer than a staleness ceiling (max interval) since the first pending
// invalidation.
//
// The package includes:
//   - MergeScheduler: debounced, coalesced merge orchestration
//   - Merger: the merge callback producing an immutable Catalog snapshot
//   - Refresher: reloads sources on invalidation and schedules merges
//   - LocalInvalidator: in-process invalidation used without a message broker
package catalog
