// Package fingerprint derives a stable identity for a run configuration.
//
// Two configurations with the same fingerprint produce the same dataset and
// the same sequence of iterates. Labels are NFC-normalized first, so visually
// identical labels typed on different systems agree.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/meanfield/internal/config"
)

// DomainConfig separates configuration hashes from any other hash input.
// The version suffix allows the encoding to change later.
const DomainConfig = "meanfield/config/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Canonical returns the canonical JSON encoding of the parts of cfg that
// influence a run.
func Canonical(cfg config.Config) ([]byte, error) {
	obj := map[string]any{
		"label": cfg.Label,
		"priors": map[string]any{
			"alpha_prior": cfg.Priors.AlphaPrior,
			"beta_prior":  cfg.Priors.BetaPrior,
			"mu_prior":    cfg.Priors.MuPrior,
			"tau_prior":   cfg.Priors.TauPrior,
		},
		"max_iter":  cfg.MaxIter,
		"tolerance": cfg.Tolerance,
	}
	// Sampling parameters only matter when the data is not fixed.
	if cfg.Data != nil {
		obj["data"] = cfg.Data
	} else {
		obj["sample"] = map[string]any{
			"n":              cfg.N,
			"seed":           cfg.Seed,
			"true_mean":      cfg.Truth.Mean,
			"true_precision": cfg.Truth.Precision,
		}
	}

	return MarshalCanonical(obj)
}

// Of returns the hex fingerprint of cfg.
func Of(cfg config.Config) (string, error) {
	canonical, err := Canonical(cfg)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainConfig, canonical), nil
}

// Short is the first 12 hex characters of a fingerprint, for display.
func Short(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}
