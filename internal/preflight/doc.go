// Package preflight provides readiness checks for the external services
// and filesystem paths enrichment depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and logs any failures before
//     accepting work, so a misconfigured install surfaces immediately.
//   - The CLI status command uses individual check functions
//     (CheckModelFromConfig, CheckSystemDeps) to display service health.
package preflight
