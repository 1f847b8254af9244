// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - SSH serving mode with Prometheus session metrics, YAML/env config
// 0.2.0 - Catalog table view, nebula style with sqrt projection, headless render
// 0.1.0 - Initial release: interactive star map, hover tooltips, fly-to focus
