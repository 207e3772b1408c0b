// Package logger builds the zap logger used by the server and the CLI.
//
// Level "debug" selects zap's development preset; any other level the
// production preset at that level. Format "console" switches to the colored
// console encoder without stack traces, which is what the CLI uses to report
// a failed command.
//
// WithRayID derives a request-scoped logger from the id stored by the rayid
// middleware:
//
//	l := logger.WithRayID(h.service.logger, c)
//	l.Warn("Report unavailable", zap.String("area", name), zap.Error(err))
package logger
