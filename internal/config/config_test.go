package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meanfield/internal/model"
	"github.com/roach88/meanfield/internal/vb"
)

func TestSchemaDefaultsMatchDefault(t *testing.T) {
	for _, name := range []string{"empty.cue", "empty.yaml", "empty.yml"} {
		t.Run(name, func(t *testing.T) {
			cfg, errs := Parse(nil, name)
			require.Empty(t, errs)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, model.DefaultPriors(), cfg.Priors)
	assert.Equal(t, Truth{Mean: 5, Precision: 1}, cfg.Truth)
	assert.Equal(t, 4, cfg.N)
	assert.Nil(t, cfg.Data)
	assert.Equal(t, vb.Options{MaxIter: 1000, Tolerance: 1e-8}, cfg.Options())
}

func TestLoadCUE(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "informative.cue"))
	require.NoError(t, err)

	assert.Equal(t, "informative", cfg.Label)
	assert.Equal(t, model.Priors{AlphaPrior: 2, BetaPrior: 0.5, MuPrior: 4.5, TauPrior: 0.1}, cfg.Priors)
	assert.Equal(t, Truth{Mean: 3, Precision: 1}, cfg.Truth, "unset fields keep their defaults")
	assert.Equal(t, 10, cfg.N)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 50, cfg.MaxIter)
	assert.Equal(t, 1e-10, cfg.Tolerance)
	assert.Nil(t, cfg.Data)

	data, err := cfg.Dataset()
	require.NoError(t, err)
	assert.Equal(t, 10, data.N())
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "fixed.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "fixed data", cfg.Label)
	assert.Equal(t, []float64{4.2, 5.9, 3.8, 6.1}, cfg.Data)
	assert.Equal(t, 4, cfg.N)

	problem, err := cfg.Problem()
	require.NoError(t, err)
	assert.Equal(t, cfg.Data, problem.Data.Values())
	assert.Equal(t, cfg.Priors, problem.Priors)
}

func TestEmptyDataMeansNoObservations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"fixed.cue", "data: []\nn: 9\n"},
		{"fixed.yaml", "data: []\nn: 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := Parse([]byte(tt.src), tt.name)
			require.Empty(t, errs)
			require.NotNil(t, cfg.Data)
			assert.Empty(t, cfg.Data)
			assert.Equal(t, 0, cfg.N)

			data, err := cfg.Dataset()
			require.NoError(t, err)
			assert.Equal(t, 0, data.N())
		})
	}
}

func TestSampledDatasetIsReproducible(t *testing.T) {
	cfg := Default()
	a, err := cfg.Dataset()
	require.NoError(t, err)
	b, err := cfg.Dataset()
	require.NoError(t, err)
	assert.Equal(t, a.Values(), b.Values())
	assert.Equal(t, DefaultN, a.N())
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		src      string
		code     string
		contains string
	}{
		{"unknown field cue", "c.cue", "bogus: 1\n", ErrCodeInvalid, "not allowed"},
		{"unknown field yaml", "c.yaml", "bogus: 1\n", ErrCodeInvalid, "not allowed"},
		{"unknown nested field", "c.yaml", "priors:\n  gamma: 1\n", ErrCodeInvalid, "not allowed"},
		{"negative alpha", "c.cue", "priors: alpha_prior: -1\n", ErrCodeInvalid, ""},
		{"zero tau", "c.yaml", "priors:\n  tau_prior: 0\n", ErrCodeInvalid, ""},
		{"zero max_iter", "c.cue", "max_iter: 0\n", ErrCodeInvalid, ""},
		{"zero tolerance", "c.yaml", "tolerance: 0\n", ErrCodeInvalid, ""},
		{"negative n", "c.yaml", "n: -2\n", ErrCodeInvalid, ""},
		{"non-numeric data", "c.yaml", "data: [1, two]\n", ErrCodeInvalid, ""},
		{"cue syntax", "c.cue", "priors: {\n", ErrCodeParseFailed, ""},
		{"yaml syntax", "c.yaml", "priors: [\n", ErrCodeParseFailed, ""},
		{"unsupported extension", "c.toml", "n = 3\n", ErrCodeUnsupported, ".toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse([]byte(tt.src), tt.filename)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.code, errs[0].Code)
			if tt.contains != "" {
				assert.Contains(t, errs[0].Error(), tt.contains)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrCodeReadFailed, cerr.Code)
	assert.Equal(t, 0, cerr.Line())
}

func TestValidateReportsPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("label: \"x\"\npriors: {\n"), 0644))

	errs := Validate(path)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrCodeParseFailed, errs[0].Code)
	assert.Greater(t, errs[0].Line(), 0)
	assert.Contains(t, errs[0].Error(), "bad.cue")
}

func TestValidateAcceptsTestdata(t *testing.T) {
	for _, name := range []string{"informative.cue", "fixed.yaml"} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, Validate(filepath.Join("testdata", name)))
		})
	}
}
