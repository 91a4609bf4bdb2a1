/*
Package observability provides lifecycle hooks for monitoring a SUL adapter.

Hooks are plain domain.LifecycleHooks values and can be merged with others
(for example the Prometheus collectors of the CLI) through Merge.
*/
package observability
