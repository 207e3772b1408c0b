// Package loader registers HTTP features with the Fiber application.
//
// A Feature names itself, decides whether it is enabled, and mounts its
// routes in Load. The Manager loads enabled features in registration order and
// aborts on the first failure, so a misconfigured feature stops startup instead
// of serving a partial API.
package loader
