// Package filesystem provides the afero filesystems devsetup works against
// and a few helpers on top of them.
//
// Production code uses OS(); tests substitute afero.NewMemMapFs or a
// wrapper that injects failures.
package filesystem
