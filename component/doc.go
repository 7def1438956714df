// Package component defines the services an application installs before it
// starts serving, and the registry that installs them.
//
//   - Service: Name and Install, the only required capability
//   - Stopper: release resources on shutdown
//   - HealthReporter: report status for the /health endpoint
//   - Describable: contribute a line to the startup summary
package component
