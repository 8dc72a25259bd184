// Package timeouts provides the timeout values handlers use with
// context.WithTimeout for database and external-service calls.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-document reads
//   - Medium: list queries, simple writes
//   - Long: cascading deletes, multi-collection writes, external calls
package timeouts

import "time"

func Ping() time.Duration   { return 2 * time.Second }
func Short() time.Duration  { return 5 * time.Second }
func Medium() time.Duration { return 10 * time.Second }
func Long() time.Duration   { return 30 * time.Second }
