// Package engine implements the in-memory query engine used by the record
// listing endpoints: filtering with a small operator grammar, single-field
// sorting, offset/limit pagination, and field projection.
//
// All functions are pure and operate on slices of [models.Record]; the engine
// has no knowledge of HTTP or storage. Stage order is fixed by [Apply]:
// filter, sort, total-count snapshot, paginate, project.
package engine
