// Package config loads boardkit configuration.
//
// Values are resolved in order of precedence:
//   - Command-line flags
//   - BOARDKIT_* environment variables
//   - The .boardkit.yaml file in the working directory, or the file given by --config
//   - Built-in defaults
package config
