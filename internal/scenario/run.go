package scenario

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gogpu/gpuquery"
)

// Runner executes scenarios against a backend.
type Runner struct {
	// Backend overrides Scenario.Backend when set.
	Backend string
}

// passEncoder is the part of compute and render passes a scenario drives.
type passEncoder interface {
	WriteTimestamp(qs *gpuquery.QuerySet, index uint32)
	EndPass()
}

// run holds the named objects of one scenario execution.
type run struct {
	devices  map[string]*gpuquery.Device
	sets     map[string]*gpuquery.QuerySet
	encoders map[string]*gpuquery.CommandEncoder
	passes   map[string]passEncoder
	buffers  map[string]*gpuquery.CommandBuffer

	// reported collects callback deliveries of the current step.
	reported []Report
}

// Run executes s and returns its trace. Expectation mismatches are recorded
// in Result.Failures; the error result is reserved for scenarios that
// cannot run at all, such as an unknown backend or object name.
func (r Runner) Run(s *Scenario) (*Result, error) {
	backendName := r.Backend
	if backendName == "" {
		backendName = s.Backend
	}
	adapter, err := gpuquery.RequestAdapter(backendName)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	x := &run{
		devices:  make(map[string]*gpuquery.Device),
		sets:     make(map[string]*gpuquery.QuerySet),
		encoders: make(map[string]*gpuquery.CommandEncoder),
		passes:   make(map[string]passEncoder),
		buffers:  make(map[string]*gpuquery.CommandBuffer),
	}
	for _, ds := range s.Devices {
		name := ds.Name
		dev, err := adapter.CreateDevice(ds.Capabilities,
			gpuquery.WithLabel(name),
			gpuquery.WithMaxQueryCount(ds.MaxQueryCount),
			gpuquery.WithErrorCallback(func(code gpuquery.ErrorCode, _ string) {
				x.reported = append(x.reported, Report{Device: name, Code: code.String()})
			}))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: device %q: %w", s.Name, name, err)
		}
		x.devices[name] = dev
	}

	res := &Result{
		RunID:    uuid.Must(uuid.NewV7()),
		Scenario: s.Name,
		Backend:  backendName,
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		x.reported = nil

		ev, err := x.step(st)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d (%s): %w", s.Name, i+1, st.Op, err)
		}
		ev.Seq = i + 1
		ev.Op = st.Op
		ev.Reported = x.reported
		res.Events = append(res.Events, ev)
		res.Failures = append(res.Failures, check(ev, st)...)
	}
	return res, nil
}

// check compares an executed step against its expectations.
func check(ev Event, st *Step) []string {
	var failures []string
	if st.returnsError() {
		want := st.Expect
		if want == "" {
			want = OutcomeOK
		}
		if ev.Outcome != want {
			failures = append(failures, fmt.Sprintf("step %d (%s): got %s, want %s", ev.Seq, st.Op, ev.Outcome, want))
		}
	}
	if st.Reported != nil {
		got := make([]string, len(ev.Reported))
		for i, rep := range ev.Reported {
			got[i] = rep.Code
		}
		if strings.Join(got, ",") != strings.Join(st.Reported, ",") {
			failures = append(failures, fmt.Sprintf("step %d (%s): reported %v, want %v", ev.Seq, st.Op, got, st.Reported))
		}
	}
	return failures
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if code := gpuquery.CodeOf(err); code != 0 {
		return code.String()
	}
	return err.Error()
}

func (x *run) step(st *Step) (Event, error) {
	switch st.Op {
	case OpCreateQuerySet:
		return x.createQuerySet(st)

	case OpDestroy:
		qs, err := x.set(st.Set)
		if err != nil {
			return Event{}, err
		}
		qs.Destroy()
		return Event{Detail: st.Set, Outcome: OutcomeNone}, nil

	case OpCreateEncoder:
		x.encoders[st.Encoder] = x.devices[st.Device].CreateCommandEncoder(st.Encoder)
		return Event{Detail: st.Device + " " + st.Encoder, Outcome: OutcomeOK}, nil

	case OpWriteTimestamp:
		qs, err := x.set(st.Set)
		if err != nil {
			return Event{}, err
		}
		target := st.Encoder
		if st.Pass != "" {
			p, ok := x.passes[st.Pass]
			if !ok {
				return Event{}, fmt.Errorf("unknown pass %q", st.Pass)
			}
			p.WriteTimestamp(qs, st.Index)
			target = st.Pass
		} else {
			enc, err := x.encoder(st.Encoder)
			if err != nil {
				return Event{}, err
			}
			enc.WriteTimestamp(qs, st.Index)
		}
		return Event{Detail: fmt.Sprintf("%s %s[%d]", target, st.Set, st.Index), Outcome: OutcomeNone}, nil

	case OpBeginComputePass, OpBeginRenderPass:
		enc, err := x.encoder(st.Encoder)
		if err != nil {
			return Event{}, err
		}
		if st.Op == OpBeginComputePass {
			x.passes[st.Pass] = enc.BeginComputePass(st.Pass)
		} else {
			x.passes[st.Pass] = enc.BeginRenderPass(&gpuquery.RenderPassDescriptor{Label: st.Pass})
		}
		return Event{Detail: st.Encoder + " " + st.Pass, Outcome: OutcomeNone}, nil

	case OpEndPass:
		p, ok := x.passes[st.Pass]
		if !ok {
			return Event{}, fmt.Errorf("unknown pass %q", st.Pass)
		}
		p.EndPass()
		return Event{Detail: st.Pass, Outcome: OutcomeNone}, nil

	case OpFinish:
		enc, err := x.encoder(st.Encoder)
		if err != nil {
			return Event{}, err
		}
		name := st.Buffer
		if name == "" {
			name = st.Encoder
		}
		cb, err := enc.Finish()
		x.buffers[name] = cb
		return Event{Detail: st.Encoder + " " + name, Outcome: outcome(err)}, nil

	case OpSubmit:
		cbs := make([]*gpuquery.CommandBuffer, len(st.Buffers))
		for i, name := range st.Buffers {
			cb, ok := x.buffers[name]
			if !ok {
				return Event{}, fmt.Errorf("unknown buffer %q", name)
			}
			cbs[i] = cb
		}
		err := x.devices[st.Device].Queue().Submit(cbs...)
		detail := fmt.Sprintf("%s [%s]", st.Device, strings.Join(st.Buffers, " "))
		return Event{Detail: detail, Outcome: outcome(err)}, nil
	}
	return Event{}, fmt.Errorf("unknown op %q", st.Op)
}

func (x *run) createQuerySet(st *Step) (Event, error) {
	typ, err := ParseQueryType(st.Type)
	if err != nil {
		return Event{}, err
	}
	desc := &gpuquery.QuerySetDescriptor{Label: st.Set, Type: typ, Count: st.Count}
	for _, name := range st.Statistics {
		n, err := ParseStatistic(name)
		if err != nil {
			return Event{}, err
		}
		desc.PipelineStatistics = append(desc.PipelineStatistics, n)
	}

	qs, err := x.devices[st.Device].CreateQuerySet(desc)
	x.sets[st.Set] = qs

	detail := fmt.Sprintf("%s %s type=%s count=%d", st.Device, st.Set, typ, st.Count)
	if len(desc.PipelineStatistics) > 0 {
		detail += fmt.Sprintf(" statistics=%v", desc.PipelineStatistics)
	}
	return Event{Detail: detail, Outcome: outcome(err)}, nil
}

// set returns a named query set. A set whose creation failed is returned as
// nil, the invalid handle.
func (x *run) set(name string) (*gpuquery.QuerySet, error) {
	qs, ok := x.sets[name]
	if !ok {
		return nil, fmt.Errorf("unknown query set %q", name)
	}
	return qs, nil
}

func (x *run) encoder(name string) (*gpuquery.CommandEncoder, error) {
	enc, ok := x.encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoder %q", name)
	}
	return enc, nil
}
