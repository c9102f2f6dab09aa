package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gpuquery"
)

// Scenario is a scripted sequence of query set operations with expected
// outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden traces are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend names the backend to request adapters from. Empty means the
	// default backend.
	Backend string `yaml:"backend,omitempty"`

	// Devices are created before the first step, in order.
	Devices []DeviceSpec `yaml:"devices"`

	// Steps run in order against the devices.
	Steps []Step `yaml:"steps"`
}

// DeviceSpec describes one device to create.
type DeviceSpec struct {
	Name          string   `yaml:"name"`
	Capabilities  []string `yaml:"capabilities,omitempty"`
	MaxQueryCount uint32   `yaml:"max_query_count,omitempty"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op string `yaml:"op"`

	Device  string `yaml:"device,omitempty"`
	Set     string `yaml:"set,omitempty"`
	Encoder string `yaml:"encoder,omitempty"`
	Pass    string `yaml:"pass,omitempty"`
	Buffer  string `yaml:"buffer,omitempty"`

	// Buffers lists the command buffers of a submit step.
	Buffers []string `yaml:"buffers,omitempty"`

	// Type and Statistics accept names ("timestamp", "VertexShaderInvocations")
	// or raw numbers ("0xFFFFFFFF").
	Type       string   `yaml:"type,omitempty"`
	Count      uint32   `yaml:"count,omitempty"`
	Statistics []string `yaml:"statistics,omitempty"`

	Index uint32 `yaml:"index,omitempty"`

	// Expect is the error code the step must return. Empty means success
	// for steps that return an error and is ignored for the others.
	Expect string `yaml:"expect,omitempty"`

	// Reported, when set, lists the codes the step must deliver to device
	// error callbacks, in order.
	Reported []string `yaml:"reported,omitempty"`
}

// Operations.
const (
	OpCreateQuerySet   = "create_query_set"
	OpDestroy          = "destroy"
	OpCreateEncoder    = "create_encoder"
	OpWriteTimestamp   = "write_timestamp"
	OpBeginComputePass = "begin_compute_pass"
	OpBeginRenderPass  = "begin_render_pass"
	OpEndPass          = "end_pass"
	OpFinish           = "finish"
	OpSubmit           = "submit"
)

// ErrInvalid is returned for scenarios that are structurally malformed.
var ErrInvalid = errors.New("scenario: invalid")

// Load reads and parses a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario and checks its structure. Unknown fields are
// rejected so typos do not silently disable a check.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Devices) == 0 {
		return errors.New("devices list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}

	devices := make(map[string]bool, len(s.Devices))
	for i, d := range s.Devices {
		if d.Name == "" {
			return fmt.Errorf("devices[%d]: name is required", i)
		}
		if devices[d.Name] {
			return fmt.Errorf("devices[%d]: duplicate name %q", i, d.Name)
		}
		devices[d.Name] = true
	}

	for i, st := range s.Steps {
		if err := st.validate(devices); err != nil {
			return fmt.Errorf("steps[%d] (%s): %w", i, st.Op, err)
		}
	}
	return nil
}

func (st *Step) validate(devices map[string]bool) error {
	need := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}

	var err error
	switch st.Op {
	case OpCreateQuerySet:
		err = errors.Join(need("device", st.Device), need("set", st.Set), need("type", st.Type))
		if err == nil {
			_, err = ParseQueryType(st.Type)
		}
		for _, name := range st.Statistics {
			if err == nil {
				_, err = ParseStatistic(name)
			}
		}
	case OpCreateEncoder:
		err = errors.Join(need("device", st.Device), need("encoder", st.Encoder))
	case OpDestroy:
		err = need("set", st.Set)
	case OpWriteTimestamp:
		if st.Pass == "" {
			err = need("encoder", st.Encoder)
		}
	case OpBeginComputePass, OpBeginRenderPass:
		err = errors.Join(need("encoder", st.Encoder), need("pass", st.Pass))
	case OpEndPass:
		err = need("pass", st.Pass)
	case OpFinish:
		err = need("encoder", st.Encoder)
	case OpSubmit:
		err = need("device", st.Device)
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	if err != nil {
		return err
	}

	if st.Expect != "" && !st.returnsError() {
		return errors.New("expect applies only to create_query_set, finish and submit")
	}
	if st.Device != "" && !devices[st.Device] {
		return fmt.Errorf("unknown device %q", st.Device)
	}
	if st.Expect != "" {
		if _, ok := gpuquery.ParseErrorCode(st.Expect); !ok {
			return fmt.Errorf("unknown error code %q", st.Expect)
		}
	}
	for _, code := range st.Reported {
		if _, ok := gpuquery.ParseErrorCode(code); !ok {
			return fmt.Errorf("unknown error code %q", code)
		}
	}
	return nil
}

// returnsError reports whether the step's operation has an error result.
func (st *Step) returnsError() bool {
	switch st.Op {
	case OpCreateQuerySet, OpFinish, OpSubmit:
		return true
	}
	return false
}

var queryTypeNames = map[string]gpuquery.QueryType{
	"occlusion":           gpuquery.QueryTypeOcclusion,
	"pipeline_statistics": gpuquery.QueryTypePipelineStatistics,
	"timestamp":           gpuquery.QueryTypeTimestamp,
}

// ParseQueryType accepts a query type name or a raw 32-bit number. Raw
// numbers are passed through unchecked so invalid values reach the
// validator.
func ParseQueryType(s string) (gpuquery.QueryType, error) {
	if t, ok := queryTypeNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("query type %q: not a name or 32-bit number", s)
	}
	return gpuquery.QueryType(n), nil
}

// ParseStatistic accepts a pipeline statistic name or a raw 32-bit number.
func ParseStatistic(s string) (gpuquery.PipelineStatisticName, error) {
	for n := gpuquery.VertexShaderInvocations; n.IsValid(); n++ {
		if n.String() == s {
			return n, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("pipeline statistic %q: not a name or 32-bit number", s)
	}
	return gpuquery.PipelineStatisticName(n), nil
}
