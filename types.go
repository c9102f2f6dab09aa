package gpuquery

import "fmt"

// QueryType is the kind of query a QuerySet holds. The zero value is
// Occlusion; any value past Timestamp is invalid and matches no case.
type QueryType uint32

const (
	// QueryTypeOcclusion counts samples passing depth/stencil in a render pass.
	QueryTypeOcclusion QueryType = iota

	// QueryTypePipelineStatistics counts pipeline events across a measured range.
	// Requires the pipeline_statistics_query capability.
	QueryTypePipelineStatistics

	// QueryTypeTimestamp records a GPU clock value in the command stream.
	// Requires the timestamp_query capability.
	QueryTypeTimestamp
)

// IsValid reports whether t is one of the three recognized query types.
func (t QueryType) IsValid() bool {
	return t <= QueryTypeTimestamp
}

// String returns the query type name.
func (t QueryType) String() string {
	switch t {
	case QueryTypeOcclusion:
		return "Occlusion"
	case QueryTypePipelineStatistics:
		return "PipelineStatistics"
	case QueryTypeTimestamp:
		return "Timestamp"
	default:
		return fmt.Sprintf("QueryType(%#x)", uint32(t))
	}
}

// PipelineStatisticName selects one pipeline statistics counter.
type PipelineStatisticName uint32

const (
	VertexShaderInvocations PipelineStatisticName = iota
	ClipperInvocations
	ClipperPrimitivesOut
	FragmentShaderInvocations
	ComputeShaderInvocations
)

// IsValid reports whether n is one of the five recognized counters.
func (n PipelineStatisticName) IsValid() bool {
	return n <= ComputeShaderInvocations
}

// String returns the counter name.
func (n PipelineStatisticName) String() string {
	switch n {
	case VertexShaderInvocations:
		return "VertexShaderInvocations"
	case ClipperInvocations:
		return "ClipperInvocations"
	case ClipperPrimitivesOut:
		return "ClipperPrimitivesOut"
	case FragmentShaderInvocations:
		return "FragmentShaderInvocations"
	case ComputeShaderInvocations:
		return "ComputeShaderInvocations"
	default:
		return fmt.Sprintf("PipelineStatisticName(%#x)", uint32(n))
	}
}

// QuerySetDescriptor describes a query set to create.
type QuerySetDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Type is the kind of queries in the set.
	Type QueryType

	// Count is the number of query slots. Zero is accepted and yields a set
	// that accepts no index.
	Count uint32

	// PipelineStatistics lists the counters of a PipelineStatistics set.
	// It must be empty for every other type. Order is not significant.
	PipelineStatistics []PipelineStatisticName
}

// MaxQueryCount is the default upper bound on QuerySetDescriptor.Count.
const MaxQueryCount = 4096
