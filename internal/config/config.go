package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/internal/detect"
	"github.com/dkoosis/pstree/pkg/color"
	"github.com/dkoosis/pstree/pkg/render"
)

// ErrInvalid is returned for option values that cannot be used.
var ErrInvalid = zerr.New("invalid option")

// Option keys. They double as long flag names.
const (
	KeyASCII          = "ascii"
	KeyBranchColor    = "branch-color"
	KeyNodeColor      = "node-color"
	KeyBackground     = "background"
	KeyDepth          = "depth"
	KeyIndent         = "indent"
	KeyPadding        = "padding"
	KeyShowPID        = "show-pid"
	KeyRootPID        = "root-pid"
	KeyUnique         = "unique"
	KeyHighlight      = "highlight"
	KeyHighlightColor = "highlight-color"
	KeyColor          = "color"
	KeyFormat         = "format"
	KeyConfig         = "config"
	KeyDebug          = "debug"
	KeyGlyphs         = "glyphs"
)

// Defaults.
const (
	DefaultIndent         = 3
	DefaultPadding        = 1
	DefaultHighlightColor = "yellow"
	DefaultFormat         = FormatText
)

// EnvPrefix is prepended to option keys to form environment variable names.
const EnvPrefix = "PSTREE"

// Format selects the output renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Options is the fully resolved option set.
type Options struct {
	ASCII   bool
	ShowPID bool
	Unique  bool
	Debug   bool

	BranchColor    string
	NodeColor      string
	Background     string
	HighlightColor string

	Depth   int // render.Unlimited when not set
	Indent  int
	Padding int
	RootPID int

	Highlight int // 0 disables highlighting

	ColorMode detect.Mode
	Format    Format

	// Glyphs is the active glyph set with file overrides applied, or nil.
	Glyphs *render.GlyphSet

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// RegisterFlags defines every option flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP(KeyASCII, "A", false, "draw branches with ASCII characters")
	fs.StringP(KeyBranchColor, "b", "", "color of branch lines (name or r,g,b)")
	fs.StringP(KeyNodeColor, "c", "", "color of process names (name or r,g,b)")
	fs.StringP(KeyBackground, "g", "", "background color of process names (name or r,g,b)")
	fs.UintP(KeyDepth, "d", 0, "show at most this many levels below the root (default unlimited)")
	fs.UintP(KeyIndent, "I", DefaultIndent, "columns per tree level")
	fs.UintP(KeyPadding, "P", DefaultPadding, "blank columns between branch and name")
	fs.BoolP(KeyShowPID, "p", false, "show process ids")
	fs.IntP(KeyRootPID, "r", 0, "start the tree at this pid (0 shows every top-level process)")
	fs.BoolP(KeyUnique, "u", false, "collapse identical adjacent leaf processes")
	fs.IntP(KeyHighlight, "H", 0, "highlight this pid and its ancestors")
	fs.String(KeyHighlightColor, DefaultHighlightColor, "color used by --highlight")
	fs.String(KeyColor, string(detect.Auto), "when to use color: auto, always or never")
	fs.StringP(KeyFormat, "f", string(DefaultFormat), "output format: text, json or yaml")
	fs.String(KeyConfig, "", "config file (default .pstree.yaml, then the user config directory)")
	fs.Bool(KeyDebug, false, "log diagnostics to stderr")
}

// Loader resolves options from flags, environment and a config file.
type Loader struct {
	// SearchPaths are tried in order when no config file is named.
	SearchPaths []string
}

// DefaultSearchPaths returns the config files looked for when none is named.
func DefaultSearchPaths() []string {
	paths := []string{".pstree.yaml"}
	configHome, err := os.UserConfigDir()
	if err == nil && configHome != "" && configHome != "/" {
		paths = append(paths, filepath.Join(configHome, "pstree", "config.yaml"))
	}
	return paths
}

// Load resolves options. fs must carry the flags from RegisterFlags and be
// parsed already.
func (l Loader) Load(fs *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindPFlags(fs); err != nil {
		return nil, zerr.Wrap(err, "bind flags")
	}

	path, err := l.configPath(v.GetString(KeyConfig))
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, invalid("config file "+path+": "+err.Error(), KeyConfig, path)
		}
	}

	opts := &Options{
		ASCII:          v.GetBool(KeyASCII),
		ShowPID:        v.GetBool(KeyShowPID),
		Unique:         v.GetBool(KeyUnique),
		Debug:          v.GetBool(KeyDebug),
		BranchColor:    v.GetString(KeyBranchColor),
		NodeColor:      v.GetString(KeyNodeColor),
		Background:     v.GetString(KeyBackground),
		HighlightColor: v.GetString(KeyHighlightColor),
		Depth:          render.Unlimited,
		Indent:         v.GetInt(KeyIndent),
		Padding:        v.GetInt(KeyPadding),
		RootPID:        v.GetInt(KeyRootPID),
		Highlight:      v.GetInt(KeyHighlight),
		Format:         Format(strings.ToLower(v.GetString(KeyFormat))),
		ConfigFile:     path,
	}
	if v.IsSet(KeyDepth) {
		opts.Depth = v.GetInt(KeyDepth)
		if opts.Depth < 0 {
			return nil, invalid("depth must not be negative", KeyDepth, opts.Depth)
		}
	}

	mode, err := detect.ParseMode(v.GetString(KeyColor))
	if err != nil {
		return nil, invalid(err.Error(), KeyColor, v.GetString(KeyColor))
	}
	opts.ColorMode = mode

	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := opts.loadGlyphs(v); err != nil {
		return nil, err
	}
	return opts, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyIndent, DefaultIndent)
	v.SetDefault(KeyPadding, DefaultPadding)
	v.SetDefault(KeyHighlightColor, DefaultHighlightColor)
	v.SetDefault(KeyColor, string(detect.Auto))
	v.SetDefault(KeyFormat, string(DefaultFormat))
}

// configPath picks the file to read. A named file must exist; search paths
// are skipped when missing.
func (l Loader) configPath(named string) (string, error) {
	if named != "" {
		if _, err := os.Stat(named); err != nil {
			return "", invalid("config file "+named+": "+err.Error(), KeyConfig, named)
		}
		return named, nil
	}
	for _, p := range l.SearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", invalid("config file "+p+": "+err.Error(), KeyConfig, p)
		}
	}
	return "", nil
}

func (o *Options) validate() error {
	switch o.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return invalid("format "+string(o.Format)+" (want text, json or yaml)", KeyFormat, o.Format)
	}
	for _, f := range []struct {
		key string
		val int
	}{
		{KeyIndent, o.Indent},
		{KeyPadding, o.Padding},
		{KeyRootPID, o.RootPID},
		{KeyHighlight, o.Highlight},
	} {
		if f.val < 0 {
			return invalid(f.key+" must not be negative", f.key, f.val)
		}
	}
	return nil
}

func (o *Options) loadGlyphs(v *viper.Viper) error {
	if !v.IsSet(KeyGlyphs) {
		return nil
	}
	var overrides render.GlyphSet
	if err := v.UnmarshalKey(KeyGlyphs, &overrides); err != nil {
		return invalid("glyphs: "+err.Error(), KeyGlyphs, nil)
	}

	base := render.UnicodeGlyphs()
	if o.ASCII {
		base = render.ASCIIGlyphs()
	}
	g := base.Merge(overrides)
	if err := g.Validate(); err != nil {
		return invalid("glyphs: "+err.Error(), KeyGlyphs, nil)
	}
	o.Glyphs = &g
	return nil
}

// RenderConfig converts the options to a renderer configuration, resolving
// color specs. Errors wrap color.ErrInvalidSpec.
func (o *Options) RenderConfig() (render.Config, error) {
	cfg := render.DefaultConfig()
	cfg.ASCII = o.ASCII
	cfg.Indent = o.Indent
	cfg.Padding = o.Padding
	cfg.MaxDepth = o.Depth
	cfg.ShowPID = o.ShowPID
	cfg.Glyphs = o.Glyphs

	for _, f := range []struct {
		spec string
		dst  **color.Color
	}{
		{o.BranchColor, &cfg.BranchColor},
		{o.NodeColor, &cfg.NodeColor},
		{o.Background, &cfg.BackgroundColor},
	} {
		if f.spec == "" {
			continue
		}
		c, err := color.Resolve(f.spec)
		if err != nil {
			return render.Config{}, err
		}
		*f.dst = &c
	}
	return cfg, nil
}

// HighlightSpec resolves the highlight color.
func (o *Options) HighlightSpec() (color.Color, error) {
	return color.Resolve(o.HighlightColor)
}

func invalid(msg, key string, value any) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrInvalid, msg), "key", key), "value", value)
}
