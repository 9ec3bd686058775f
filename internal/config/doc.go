// Package config loads and validates run configurations.
//
// A configuration fixes everything that determines a run: the priors, the
// dataset (either explicit observations or the parameters of a seeded
// synthetic sample) and the stopping rule.
//
// Configurations are written in CUE (.cue) or YAML (.yaml, .yml). Both are
// checked against the same embedded CUE schema, which supplies defaults and
// rejects unknown fields and out-of-support hyperparameters. YAML documents are
// decoded with gopkg.in/yaml.v3 and encoded into the CUE context before
// unification, so there is exactly one set of rules.
package config
