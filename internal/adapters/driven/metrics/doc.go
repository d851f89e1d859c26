// Package metrics provides Prometheus counters for instance generation.
//
// Metrics live in a private registry so several recorders can coexist in one
// process. A recorder created with a textfile path writes the registry in the
// node_exporter textfile format on Flush; without a path Flush is a no-op.
package metrics
