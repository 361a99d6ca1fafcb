// Package config provides configuration for the tidescan CLI.
//
// Configuration comes from two places: CLI flags populate the runtime
// options (property retrieval, output destination, report format), and
// a credentials file supplies the platform endpoint and API key. The
// credentials file is INI by default (config.ini, matching the
// platform's conventional credential format) with an equivalent YAML
// form selected by file extension.
//
// Design decision: Configuration is an explicit struct populated once
// after CLI parsing and passed through the application by dependency
// injection. There is no global configuration state.
package config
