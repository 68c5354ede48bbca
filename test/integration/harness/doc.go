// Package harness provides utilities for integration testing the gancho CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - GANCHO_HOME: Isolated per test (temp directory) so settings and debug
//     logs never touch the real home
//   - GANCHO_DEBUG: Disabled to reduce noise
//   - CLAUDE_CONFIG_DIR: Isolated per test so user-level routing and hooks
//     never leak into a test project
package harness
