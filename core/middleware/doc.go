// Package middleware groups the Fiber middleware installed in front of the
// report and integrity features.
//
//   - rayid: tags every request with an X-Ray-ID, reusing the caller's id when present.
//   - auth: rejects requests without the configured X-API-Key. An empty key disables it.
//
// The start command installs rayid first so that auth failures are logged with an id.
package middleware
