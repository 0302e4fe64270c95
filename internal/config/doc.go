// Package config resolves pstree's options.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--ascii, --depth, --branch-color, ...)
//  2. Environment variables (PSTREE_ASCII, PSTREE_DEPTH, PSTREE_BRANCH_COLOR, ...)
//  3. YAML config file (--config, else .pstree.yaml in the working directory,
//     else pstree/config.yaml under the user config directory)
//  4. Hardcoded defaults
//
// Keys are the long flag names. In the environment they take the PSTREE_
// prefix with dashes turned into underscores.
//
// # Glyph Overrides
//
// Only the config file can replace branch glyphs:
//
//	glyphs:
//	  tee: "+"
//	  corner: "\\"
//
// Unset glyphs keep the value from the active set (ASCII or Unicode). Every
// glyph must be exactly one terminal column wide.
//
// # Environment Variables
//
//   - PSTREE_<FLAG>: any option, e.g. PSTREE_UNIQUE=true
//   - PSTREE_CONFIG: path of the config file
//   - PSTREE_DEBUG: any true value enables debug logging
//   - NO_COLOR, CLICOLOR_FORCE: honored by --color auto
package config
