package config

import "github.com/spf13/pflag"

// Configuration keys. Each is also a flag name and, upper-cased with "-"
// replaced by "_", the suffix of its DECKGEN_ environment variable.
const (
	KeyConfig    = "config"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyNoColor   = "no-color"
	KeyTempDir   = "temp-dir"
	KeyCheckFit  = "check-fit"
	KeyFontDir   = "font-dir"
	KeyStrict    = "strict"
)

// RegisterCommon adds the flags every tool accepts.
func RegisterCommon(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "config file (default ./deckgen.yaml if present)")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(KeyLogFormat, "text", "log format: text or json")
	fs.Bool(KeyNoColor, false, "disable colored report output")
}

// RegisterRender adds the flags of render_pptx.
func RegisterRender(fs *pflag.FlagSet) {
	fs.String(KeyTempDir, "", "directory for the template working copy (default: output directory)")
	fs.Bool(KeyCheckFit, false, "warn about text likely to overflow its box")
	fs.StringSlice(KeyFontDir, nil, "extra font directories for --check-fit")
}

// RegisterTune adds the flags of tune_plan.
func RegisterTune(fs *pflag.FlagSet) {
	fs.Bool(KeyStrict, false, "exit 1 when any entry has warnings")
}
