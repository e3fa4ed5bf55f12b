package am

import (
	"slices"
	"strings"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/score"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional, empty falls back to DefaultDatabasePath

	if c.Matching.MinOverlap < 0 || c.Matching.MinOverlap > 1 {
		return errors.Newf("matching.min_overlap must be in [0, 1], got %g", c.Matching.MinOverlap)
	}

	if err := validateGraphName("integration.graph", c.Integration.Graph, false); err != nil {
		return err
	}
	if strings.TrimSpace(c.Integration.DefaultParentLabel) != c.Integration.DefaultParentLabel {
		return errors.Newf("integration.default_parent_label has surrounding whitespace: %q", c.Integration.DefaultParentLabel)
	}
	for label, variant := range c.Integration.Variants {
		if _, err := document.ParseVariant(variant); err != nil {
			return errors.Wrapf(err, "integration.variants.%s", label)
		}
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Integration.Workers < 0 {
		return errors.Newf("integration.workers must be >= 0, got %d", c.Integration.Workers)
	}
	if c.Scoring.Workers < 0 {
		return errors.Newf("scoring.workers must be >= 0, got %d", c.Scoring.Workers)
	}

	if c.Scoring.Format != "" && !slices.Contains(score.Formats, c.Scoring.Format) {
		return errors.Newf("scoring.format must be one of %s, got %q", strings.Join(score.Formats, ", "), c.Scoring.Format)
	}
	// empty scoring graph = every edge of the stored document
	if err := validateGraphName("scoring.graph", c.Scoring.Graph, true); err != nil {
		return err
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}

func validateGraphName(key, name string, allowEmpty bool) error {
	if name == "" {
		if allowEmpty {
			return nil
		}
		return errors.Newf("%s cannot be empty", key)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }) {
		return errors.Newf("%s cannot contain whitespace, got %q", key, name)
	}
	return nil
}
