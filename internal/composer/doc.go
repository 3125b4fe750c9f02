// Package composer is the compute service that produces new tracks.
//
// A Service resolves encoding profiles, accepts mux and encode submissions,
// and blocks on job completion. Local is the in-process implementation: it
// persists every job in the jobs store, runs jobs on a bounded worker pool,
// and reports results by polling the store. Completed jobs carry a serialized
// track descriptor whose identifier and flavor are empty; callers assign both
// when they add the track to a media package.
package composer
