// Package snapshot owns the process-wide object graph and its durable copy.
//
// A Store holds one models.Graph in memory and persists it, encoded by the
// codec package, as a single page of a pagestore.Store. Every
// read-modify-write cycle goes through Update, which runs the mutation on a
// private clone under an exclusive lock and publishes the clone only after
// it has been written. Concurrent callers therefore never lose each other's
// updates, and a mutation that fails or is cancelled leaves no trace.
//
// Read reloads the graph from disk and discards the in-memory one. View
// gives shared, read-only access to the current graph.
package snapshot
