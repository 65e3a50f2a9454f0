// Package feature provides an immutable catalog of gated product features.
//
// Each feature is described by a Definition: a stable identifier, the
// cadence of its quota window, a lifecycle state, and a category used for
// grouping in admin tooling. Definitions are loaded once at startup from
// external configuration and never change afterwards, so the Registry is
// safe for concurrent use without locking.
//
// Lifecycle states let the product hide or deprecate a feature in the UI
// while existing sessions and overrides that reference it keep evaluating:
// Get resolves every known id regardless of lifecycle, while Active only
// enumerates features in the "active" state.
//
// Basic usage:
//
//	registry, err := feature.NewRegistry([]feature.Definition{
//	    {ID: "practice_session", Cadence: period.Daily, Lifecycle: feature.LifecycleActive},
//	    {ID: "deck_export", Cadence: period.Monthly, Lifecycle: feature.LifecycleActive},
//	})
//	if err != nil {
//	    // invalid or duplicate definitions
//	}
//
//	def, err := registry.Get("practice_session")
//	if errors.Is(err, feature.ErrUnknownFeature) {
//	    // caller passed an id that was never configured
//	}
package feature
