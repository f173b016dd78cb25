// Package cmake configures and builds a CMake project against the
// toolchain file Conan generated, and explains configure failures.
package cmake
