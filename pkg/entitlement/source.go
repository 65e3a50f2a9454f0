package entitlement

import (
	"context"
	"errors"
	"maps"

	"github.com/gatekit/gatekit/pkg/feature"
	"github.com/gatekit/gatekit/pkg/period"
)

// PolicyDocument is the externally-loaded, versioned configuration that
// feeds both the feature registry and the policy table. The engine
// consumes it as already-parsed data; producing and validating the raw
// document is the host application's concern.
type PolicyDocument struct {
	Version  int             `yaml:"version" json:"version"`
	Features []PolicyFeature `yaml:"features" json:"features"`
}

// PolicyFeature is one feature entry in a PolicyDocument. Limits use the
// Unlimited sentinel (-1) for plans without a ceiling. An empty lifecycle
// defaults to active.
type PolicyFeature struct {
	ID        feature.ID        `yaml:"id" json:"id"`
	Cadence   period.Cadence    `yaml:"cadence" json:"cadence"`
	Lifecycle feature.Lifecycle `yaml:"lifecycle,omitempty" json:"lifecycle,omitempty"`
	Category  feature.Category  `yaml:"category,omitempty" json:"category,omitempty"`
	Limits    map[Plan]int64    `yaml:"limits,omitempty" json:"limits,omitempty"`
}

// Source defines how policy documents are loaded into the engine.
type Source interface {
	Load(ctx context.Context) (PolicyDocument, error)
}

// staticSource implements Source over an in-memory document.
type staticSource struct {
	doc PolicyDocument
}

// NewStaticSource returns a Source serving a deep copy of the given document.
func NewStaticSource(doc PolicyDocument) Source {
	return &staticSource{doc: cloneDocument(doc)}
}

// Load returns a copy of the document so callers cannot mutate the source.
func (s *staticSource) Load(_ context.Context) (PolicyDocument, error) {
	return cloneDocument(s.doc), nil
}

func cloneDocument(doc PolicyDocument) PolicyDocument {
	features := make([]PolicyFeature, len(doc.Features))
	for i, f := range doc.Features {
		f.Limits = maps.Clone(f.Limits)
		features[i] = f
	}
	return PolicyDocument{
		Version:  doc.Version,
		Features: features,
	}
}

// Build turns a policy document into the registry and policy table the
// Evaluator needs, validating both in one step.
func Build(doc PolicyDocument) (*feature.Registry, *PolicyTable, error) {
	defs := make([]feature.Definition, 0, len(doc.Features))
	limits := make(map[feature.ID]map[Plan]int64, len(doc.Features))

	for _, f := range doc.Features {
		lifecycle := f.Lifecycle
		if lifecycle == "" {
			lifecycle = feature.LifecycleActive
		}

		defs = append(defs, feature.Definition{
			ID:        f.ID,
			Cadence:   f.Cadence,
			Lifecycle: lifecycle,
			Category:  f.Category,
		})

		if len(f.Limits) > 0 {
			limits[f.ID] = maps.Clone(f.Limits)
		}
	}

	registry, err := feature.NewRegistry(defs)
	if err != nil {
		return nil, nil, err
	}

	policy, err := NewPolicyTable(doc.Version, limits)
	if err != nil {
		return nil, nil, err
	}

	return registry, policy, nil
}

// NewEvaluatorFromSource loads a policy document from the source and
// builds a ready-to-use Evaluator from it.
func NewEvaluatorFromSource(ctx context.Context, src Source) (*Evaluator, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPolicy, err)
	}

	registry, policy, err := Build(doc)
	if err != nil {
		return nil, err
	}

	return NewEvaluator(registry, policy)
}
