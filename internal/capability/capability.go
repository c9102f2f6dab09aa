// Package capability maps the optional device capability tags accepted at
// device creation onto gputypes feature flags.
//
// A Set is fixed when a device is created and never changes afterwards.
// Lookups have no failure modes: an absent tag is simply not present.
package capability

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Recognized capability tags.
const (
	// PipelineStatisticsQuery enables query sets of type PipelineStatistics.
	PipelineStatisticsQuery = "pipeline_statistics_query"

	// TimestampQuery enables query sets of type Timestamp and WriteTimestamp.
	TimestampQuery = "timestamp_query"
)

// ErrUnknown is returned by Parse for a tag that is not recognized.
var ErrUnknown = errors.New("capability: unknown capability tag")

// QueryFeatures is the union of every feature a tag can enable.
const QueryFeatures = gputypes.Features(gputypes.FeatureTimestampQuery) |
	gputypes.Features(gputypes.FeaturePipelineStatisticsQuery)

// tags resolves a tag to its feature flag.
var tags = newTagRegistry()

func newTagRegistry() *gpucontext.Registry[gputypes.Feature] {
	r := gpucontext.NewRegistry[gputypes.Feature]()
	r.Register(PipelineStatisticsQuery, func() gputypes.Feature { return gputypes.FeaturePipelineStatisticsQuery })
	r.Register(TimestampQuery, func() gputypes.Feature { return gputypes.FeatureTimestampQuery })
	return r
}

// Known returns every recognized tag, sorted.
func Known() []string {
	names := tags.Available()
	slices.Sort(names)
	return names
}

// Feature returns the feature flag behind tag.
// The boolean is false when the tag is not recognized.
func Feature(tag string) (gputypes.Feature, bool) {
	if !tags.Has(tag) {
		return 0, false
	}
	return tags.Get(tag), true
}

// Parse converts a list of tags into a feature set.
// Duplicate tags are accepted; an unrecognized tag fails the whole list.
func Parse(list []string) (gputypes.Features, error) {
	var features gputypes.Features
	for _, tag := range list {
		f, ok := Feature(tag)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknown, tag)
		}
		features.Insert(f)
	}
	return features, nil
}

// Set is an immutable set of enabled capabilities.
type Set struct {
	features gputypes.Features
}

// NewSet wraps a feature set. Features outside QueryFeatures are kept but
// have no tag.
func NewSet(features gputypes.Features) Set {
	return Set{features: features}
}

// Has reports whether the capability named by tag is enabled.
func (s Set) Has(tag string) bool {
	f, ok := Feature(tag)
	return ok && s.features.Contains(f)
}

// HasFeature reports whether the feature flag is enabled.
func (s Set) HasFeature(f gputypes.Feature) bool {
	return s.features.Contains(f)
}

// Features returns the underlying feature flags.
func (s Set) Features() gputypes.Features {
	return s.features
}

// Tags returns the enabled tags, sorted.
func (s Set) Tags() []string {
	var out []string
	for _, tag := range Known() {
		if s.Has(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// String returns the enabled tags as a bracketed list.
func (s Set) String() string {
	return fmt.Sprint(s.Tags())
}
