package entitlement

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSource implements Source by reading a YAML policy document from disk.
type fileSource struct {
	path string
}

// NewYAMLSource returns a Source that loads the policy document from the
// given YAML file on every Load call. Expected shape:
//
//	version: 3
//	features:
//	  - id: practice_session
//	    cadence: daily
//	    lifecycle: active
//	    category: learning
//	    limits:
//	      guest: 3
//	      free: 10
//	      premium_monthly: -1
//	      premium_yearly: -1
func NewYAMLSource(path string) Source {
	return &fileSource{path: path}
}

// Load reads and parses the policy document.
func (s *fileSource) Load(_ context.Context) (PolicyDocument, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return PolicyDocument{}, errors.Join(ErrFailedToLoadPolicy,
			fmt.Errorf("read policy file %s: %w", s.path, err))
	}

	var doc PolicyDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return PolicyDocument{}, errors.Join(ErrFailedToLoadPolicy,
			fmt.Errorf("parse policy file %s: %w", s.path, err))
	}

	return doc, nil
}
