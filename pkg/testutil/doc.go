// Package testutil provides fakes for testing devsetup components.
//
// Key components:
//   - FakeRunner: records commands and replays canned results
//   - FakeTerminator: records process-termination requests
//   - FailingFs: afero filesystem that injects errors for chosen operations
//
// Usage guidelines:
//   - Prefer afero.NewMemMapFs over real directories
//   - Only pkg/runner tests should start real processes
package testutil
