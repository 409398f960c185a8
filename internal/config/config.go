// Package config loads mimic.toml, the per-project settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"mimic/internal/diag"
	"mimic/internal/driver"
	"mimic/internal/source"
	"mimic/internal/trace"
)

// FileName is the settings file looked up from the working directory upwards.
const FileName = "mimic.toml"

var (
	// ErrNotFound means no mimic.toml exists in the directory or any parent.
	ErrNotFound = errors.New("no " + FileName + " found")
	// ErrUnknownKey reports keys the decoder did not map onto Config.
	ErrUnknownKey = errors.New("unknown key")
)

// Config mirrors mimic.toml.
type Config struct {
	Extract  ExtractConfig     `toml:"extract"`
	Aliases  map[string]string `toml:"aliases"`
	Bindings map[string]string `toml:"bindings"`
	Trace    TraceConfig       `toml:"trace"`

	// Path is the file the config was read from; "" for Default().
	Path string `toml:"-"`
	// Root is the directory holding Path. Relative include roots are joined to it.
	Root string `toml:"-"`

	file *source.File
}

type ExtractConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Nested  bool     `toml:"nested"`
	Jobs    int      `toml:"jobs"`
	Cache   bool     `toml:"cache"`

	// CacheDir overrides the user cache directory.
	CacheDir string `toml:"cache_dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// Default is the configuration used when no mimic.toml exists.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Include: slices.Clone(driver.DefaultInclude),
			Cache:   true,
		},
		Trace: TraceConfig{Level: "off", Format: "auto"},
	}
}

// Load reads and decodes path. The file is registered in fs (when non-nil)
// so that Validate can point diagnostics into it. Keys missing from the file
// keep their Default values.
func Load(fs *source.FileSet, path string) (*Config, error) {
	if fs == nil {
		fs = source.NewFileSet()
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file := fs.Get(id)

	cfg := Default()
	var raw Config
	meta, err := toml.NewDecoder(bytes.NewReader(file.Content)).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}

	if meta.IsDefined("extract", "include") {
		cfg.Extract.Include = raw.Extract.Include
	}
	if meta.IsDefined("extract", "exclude") {
		cfg.Extract.Exclude = raw.Extract.Exclude
	}
	if meta.IsDefined("extract", "nested") {
		cfg.Extract.Nested = raw.Extract.Nested
	}
	if meta.IsDefined("extract", "jobs") {
		if raw.Extract.Jobs < 0 {
			return nil, fmt.Errorf("%s: [extract].jobs must not be negative, got %d", path, raw.Extract.Jobs)
		}
		cfg.Extract.Jobs = raw.Extract.Jobs
	}
	if meta.IsDefined("extract", "cache") {
		cfg.Extract.Cache = raw.Extract.Cache
	}
	cfg.Extract.CacheDir = raw.Extract.CacheDir
	cfg.Aliases = raw.Aliases
	cfg.Bindings = raw.Bindings

	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(raw.Trace.Level); err != nil {
			return nil, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
		cfg.Trace.Level = raw.Trace.Level
	}
	if meta.IsDefined("trace", "format") {
		if _, err := trace.ParseFormat(raw.Trace.Format); err != nil {
			return nil, fmt.Errorf("%s: [trace].format: %w", path, err)
		}
		cfg.Trace.Format = raw.Trace.Format
	}
	cfg.Trace.Output = raw.Trace.Output

	cfg.Path = file.Path
	cfg.Root = filepath.Dir(file.Path)
	cfg.file = file
	return cfg, nil
}

// Discover finds mimic.toml from startDir upwards and loads it. Without a
// file it returns Default() together with an error matching ErrNotFound.
func Discover(fs *source.FileSet, startDir string) (*Config, error) {
	path, err := Find(startDir)
	if err != nil {
		return Default(), err
	}
	return Load(fs, path)
}

// Validate reports every include/exclude pattern that does not compile as a
// CfgInvalidPattern error and returns false when there was any.
func (c *Config) Validate(r diag.Reporter) bool {
	ok := true
	check := func(section string, patterns []string) {
		for _, p := range patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				ok = false
				diag.ReportError(r, diag.CfgInvalidPattern, c.spanOf(p),
					fmt.Sprintf("[extract].%s: invalid pattern %q: %v", section, p, err)).Emit()
			}
		}
	}
	check("include", c.Extract.Include)
	check("exclude", c.Extract.Exclude)
	return ok
}

// spanOf locates the quoted value in the config source; the empty span of
// file 0 when the config was not loaded from disk or the text is not found.
func (c *Config) spanOf(value string) source.Span {
	if c.file == nil {
		return source.Span{}
	}
	needle := []byte(strconv.Quote(value))
	idx := bytes.Index(c.file.Content, needle)
	if idx < 0 {
		idx = bytes.Index(c.file.Content, []byte("'"+value+"'"))
	}
	if idx < 0 {
		return source.At(c.file.ID, 0)
	}
	start, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("config offset overflow: %w", err))
	}
	n, err := safecast.Conv[uint32](len(needle))
	if err != nil {
		panic(fmt.Errorf("config length overflow: %w", err))
	}
	return source.Span{File: c.file.ID, Start: start, End: start + n}
}

// Apply copies the config into opts. Explicit command-line values are
// applied afterwards by the caller and win.
func (c *Config) Apply(opts *driver.ExtractOptions) {
	opts.Include = slices.Clone(c.Extract.Include)
	opts.Exclude = slices.Clone(c.Extract.Exclude)
	opts.Nested = c.Extract.Nested
	opts.Jobs = c.Extract.Jobs
	if len(c.Aliases) > 0 {
		opts.Aliases = maps.Clone(c.Aliases)
	}
	if len(c.Bindings) > 0 {
		opts.Bindings = maps.Clone(c.Bindings)
	}
}

// OpenCache returns the model cache selected by [extract].cache and
// [extract].cache_dir, or nil when caching is off.
func (c *Config) OpenCache() (*driver.ModelCache, error) {
	if !c.Extract.Cache {
		return nil, nil
	}
	var (
		disk *driver.DiskCache
		err  error
	)
	if c.Extract.CacheDir != "" {
		dir := c.Extract.CacheDir
		if !filepath.IsAbs(dir) && c.Root != "" {
			dir = filepath.Join(c.Root, dir)
		}
		disk, err = driver.NewDiskCache(dir)
	} else {
		disk, err = driver.OpenDiskCache("mimic")
	}
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return driver.NewModelCache(256, disk), nil
}
