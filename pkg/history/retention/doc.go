// Package retention prunes stored fixture runs by age and by count.
//
// Pruner runs once, as in "trigon history prune". Scheduler runs a Pruner on
// a standard 5-field cron expression while the service is up.
package retention
