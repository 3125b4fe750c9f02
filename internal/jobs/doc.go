// Package jobs persists composer jobs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages the database connection, schema initialization, status
// transitions (queued, running, finished, failed), stats queries, and
// recovery of jobs that were left running by a crashed process. Jobs carry
// their submission arguments and, once finished, the serialized track
// descriptor produced by the composer.
//
// The database is transient storage for in-flight and recent jobs rather than
// an archive. Schema changes bump schemaVersion in schema.go; users clear the
// database to adopt the new schema.
package jobs
