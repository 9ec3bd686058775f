package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/meanfield/internal/model"
	"github.com/roach88/meanfield/internal/vb"
)

//go:embed schema.cue
var schemaSrc string

// Defaults shared with the schema.
const (
	DefaultLabel = "default"
	DefaultN     = 4
	DefaultSeed  = 42
)

// Truth is the generating distribution of synthetic data.
type Truth struct {
	Mean      float64 `json:"mean"`
	Precision float64 `json:"precision"`
}

// Config is a fully resolved run configuration.
type Config struct {
	Label  string       `json:"label"`
	Priors model.Priors `json:"priors"`
	Truth  Truth        `json:"truth"`
	N      int          `json:"n"`
	Seed   uint64       `json:"seed"`

	// Data holds fixed observations. Nil means "sample N points from Truth";
	// a non-nil empty slice means zero observations.
	Data []float64 `json:"-"`

	MaxIter   int     `json:"max_iter"`
	Tolerance float64 `json:"tolerance"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Label:     DefaultLabel,
		Priors:    model.DefaultPriors(),
		Truth:     Truth{Mean: 5, Precision: 1},
		N:         DefaultN,
		Seed:      DefaultSeed,
		MaxIter:   vb.DefaultMaxIter,
		Tolerance: vb.DefaultTolerance,
	}
}

// Load reads and validates the configuration file at path. The format is
// chosen by extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}
	cfg, errs := Parse(data, path)
	if len(errs) > 0 {
		return Config{}, errs[0]
	}
	return cfg, nil
}

// Validate checks a configuration file and returns every problem found.
func Validate(path string) []*Error {
	data, err := os.ReadFile(path)
	if err != nil {
		return []*Error{{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading config: %v", err)}}
	}
	_, errs := Parse(data, path)
	return errs
}

// Parse validates src against the schema and decodes it. filename selects
// the format and is used in error positions.
func Parse(src []byte, filename string) (Config, []*Error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fromCUE(ErrCodeInvalid, fmt.Errorf("compiling schema: %w", err))
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	var input cue.Value
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".cue":
		input = ctx.CompileBytes(src, cue.Filename(filename))
		if err := input.Err(); err != nil {
			return Config{}, fromCUE(ErrCodeParseFailed, err)
		}
	case ".yaml", ".yml":
		doc, err := decodeYAML(src)
		if err != nil {
			return Config{}, []*Error{{Code: ErrCodeParseFailed, Message: fmt.Sprintf("%s: %v", filename, err)}}
		}
		input = ctx.Encode(doc)
		if err := input.Err(); err != nil {
			return Config{}, fromCUE(ErrCodeParseFailed, err)
		}
	default:
		return Config{}, []*Error{{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported config format %q (want .cue, .yaml or .yml)", ext),
		}}
	}

	v := def.Unify(input)
	if err := v.Validate(); err != nil {
		return Config{}, fromCUE(ErrCodeInvalid, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, fromCUE(ErrCodeInvalid, err)
	}
	return cfg, nil
}

// decodeYAML reads a single YAML document as a generic map. An empty document
// is an empty configuration.
func decodeYAML(src []byte) (map[string]any, error) {
	var doc map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func decode(v cue.Value) (Config, error) {
	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, err
	}

	dv, _ := v.LookupPath(cue.ParsePath("data")).Default()
	if dv.Null() != nil {
		var xs []float64
		if err := dv.Decode(&xs); err != nil {
			return Config{}, err
		}
		if xs == nil {
			xs = []float64{}
		}
		cfg.Data = xs
		cfg.N = len(xs)
	}
	return cfg, nil
}

// Dataset returns the fixed observations or draws the seeded sample.
func (c Config) Dataset() (model.Dataset, error) {
	if c.Data != nil {
		return model.NewDataset(c.Data), nil
	}
	return model.Sample(c.N, c.Truth.Mean, c.Truth.Precision, c.Seed)
}

// Options returns the stopping rule for the update loop.
func (c Config) Options() vb.Options {
	return vb.Options{MaxIter: c.MaxIter, Tolerance: c.Tolerance}
}

// Problem resolves the dataset and pairs it with the priors.
func (c Config) Problem() (vb.Problem, error) {
	data, err := c.Dataset()
	if err != nil {
		return vb.Problem{}, fmt.Errorf("building dataset: %w", err)
	}
	return vb.Problem{Priors: c.Priors, Data: data}, nil
}
