// Package config handles configuration management for devsetup.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the project file (.devsetup.toml or devsetup.toml in the project
//     root, or an explicit path)
//  3. DEVSETUP_ environment variables, where the first underscore after the
//     prefix separates section from key (DEVSETUP_BUILD_TYPE is build.type)
//  4. command-line overrides
package config
