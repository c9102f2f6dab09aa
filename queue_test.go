package gpuquery

import (
	"slices"
	"testing"
	"weak"
)

func finishWrite(t *testing.T, dev *Device, qs *QuerySet, index uint32) *CommandBuffer {
	t.Helper()
	enc := dev.CreateCommandEncoder("")
	enc.WriteTimestamp(qs, index)
	cb, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return cb
}

func TestSubmit_Success(t *testing.T) {
	var rec errorRecorder
	dev := newCapableDevice(t, rec.callback())
	qs := newTimestampSet(t, dev, 2)

	cb := finishWrite(t, dev, qs, 1)
	if err := dev.Queue().Submit(cb); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !cb.Submitted() {
		t.Error("Submitted() = false after Submit")
	}
	if dev.Queue().LastSubmissionIndex() != 1 {
		t.Errorf("LastSubmissionIndex() = %d, want 1", dev.Queue().LastSubmissionIndex())
	}
	if dev.Queue().Device() != dev {
		t.Error("Queue().Device() is not the owning device")
	}
	if len(rec.codes) != 0 {
		t.Errorf("callback fired: %v", rec.codes)
	}
}

func TestSubmit_DestroyBeforeSubmit(t *testing.T) {
	for _, r := range recorders {
		t.Run(r.name, func(t *testing.T) {
			var rec errorRecorder
			dev := newCapableDevice(t, rec.callback())
			qs := newTimestampSet(t, dev, 1)

			enc := dev.CreateCommandEncoder(r.name)
			write, end := r.begin(enc)
			write(qs, 0)
			end()
			cb, err := enc.Finish()
			if err != nil {
				t.Fatalf("Finish: %v", err)
			}
			qs.Destroy()

			err = dev.Queue().Submit(cb)
			if CodeOf(err) != UseAfterDestroyAtSubmit {
				t.Fatalf("Submit code = %v, want UseAfterDestroyAtSubmit", CodeOf(err))
			}
			if !slices.Equal(rec.codes, []ErrorCode{UseAfterDestroyAtSubmit}) {
				t.Errorf("callback codes = %v, want [UseAfterDestroyAtSubmit]", rec.codes)
			}
			if dev.Queue().LastSubmissionIndex() != 0 {
				t.Errorf("work was enqueued: LastSubmissionIndex() = %d", dev.Queue().LastSubmissionIndex())
			}
		})
	}
}

func TestSubmit_NothingEnqueuedOnFailure(t *testing.T) {
	dev := newCapableDevice(t)
	good := newTimestampSet(t, dev, 1)
	bad := newTimestampSet(t, dev, 1)

	ok := finishWrite(t, dev, good, 0)
	stale := finishWrite(t, dev, bad, 0)
	bad.Destroy()

	if err := dev.Queue().Submit(ok, stale); CodeOf(err) != UseAfterDestroyAtSubmit {
		t.Fatalf("Submit code = %v, want UseAfterDestroyAtSubmit", CodeOf(err))
	}
	if dev.Queue().LastSubmissionIndex() != 0 {
		t.Errorf("LastSubmissionIndex() = %d, want 0", dev.Queue().LastSubmissionIndex())
	}
	if !ok.Submitted() {
		t.Error("valid buffer of a rejected submission should be consumed")
	}
}

func TestSubmit_Checks(t *testing.T) {
	devA := newCapableDevice(t)
	devB := newCapableDevice(t)
	qsA := newTimestampSet(t, devA, 1)
	qsB := newTimestampSet(t, devB, 1)

	tests := []struct {
		name  string
		build func(t *testing.T) []*CommandBuffer
		want  ErrorCode
	}{
		{
			name:  "empty submit",
			build: func(*testing.T) []*CommandBuffer { return nil },
		},
		{
			name: "buffer without queries",
			build: func(t *testing.T) []*CommandBuffer {
				cb, err := devA.CreateCommandEncoder("idle").Finish()
				if err != nil {
					t.Fatalf("Finish: %v", err)
				}
				return []*CommandBuffer{cb}
			},
		},
		{
			name:  "nil buffer",
			build: func(*testing.T) []*CommandBuffer { return []*CommandBuffer{nil} },
			want:  InvalidObject,
		},
		{
			name:  "buffer from other device",
			build: func(t *testing.T) []*CommandBuffer { return []*CommandBuffer{finishWrite(t, devB, qsB, 0)} },
			want:  CrossDeviceUse,
		},
		{
			name: "resubmitted buffer",
			build: func(t *testing.T) []*CommandBuffer {
				cb := finishWrite(t, devA, qsA, 0)
				if err := devA.Queue().Submit(cb); err != nil {
					t.Fatalf("first Submit: %v", err)
				}
				return []*CommandBuffer{cb}
			},
			want: CommandBufferReused,
		},
		{
			name: "same buffer twice",
			build: func(t *testing.T) []*CommandBuffer {
				cb := finishWrite(t, devA, qsA, 0)
				return []*CommandBuffer{cb, cb}
			},
			want: CommandBufferReused,
		},
		{
			name: "referenced set on other device",
			build: func(t *testing.T) []*CommandBuffer {
				// Bypass record-time validation to exercise the submit recheck.
				refs := []queryRef{{id: qsB.id, set: weak.Make(qsB)}}
				return []*CommandBuffer{devA.newCommandBuffer("forged", nil, refs)}
			},
			want: CrossDeviceUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := devA.Queue().Submit(tt.build(t)...)
			if tt.want == 0 {
				if err != nil {
					t.Fatalf("Submit: %v", err)
				}
				return
			}
			if CodeOf(err) != tt.want {
				t.Errorf("Submit code = %v, want %v", CodeOf(err), tt.want)
			}
		})
	}
}

func TestSubmit_ReleasesDestroyedBackend(t *testing.T) {
	fake := &fakeDevice{}
	dev := newFakeDevice(t, fake, nil)
	qs := newTimestampSet(t, dev, 1)

	cb1 := finishWrite(t, dev, qs, 0)
	cb2 := finishWrite(t, dev, qs, 0)
	if err := dev.Queue().Submit(cb1); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	qs.Destroy()
	if got := fake.destroyed.Load(); got != 0 {
		t.Fatalf("backend released with cb2 pending")
	}
	if err := dev.Queue().Submit(cb2); CodeOf(err) != UseAfterDestroyAtSubmit {
		t.Fatalf("Submit code = %v, want UseAfterDestroyAtSubmit", CodeOf(err))
	}
	if got := fake.destroyed.Load(); got != 1 {
		t.Errorf("backend sets destroyed = %d, want 1", got)
	}
}

func TestSubmit_FreesBackendBuffers(t *testing.T) {
	fake := &fakeDevice{}
	dev := newFakeDevice(t, fake, nil)
	qs := newTimestampSet(t, dev, 1)

	if err := dev.Queue().Submit(finishWrite(t, dev, qs, 0), finishWrite(t, dev, qs, 0)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := fake.freed.Load(); got != 2 {
		t.Errorf("buffers freed after completion = %d, want 2", got)
	}

	stale := finishWrite(t, dev, qs, 0)
	qs.Destroy()
	_ = dev.Queue().Submit(stale)
	if got := fake.freed.Load(); got != 3 {
		t.Errorf("buffers freed after rejection = %d, want 3", got)
	}
}

func TestSubmit_BackendFailure(t *testing.T) {
	var rec errorRecorder
	dev := newFakeDevice(t, &fakeDevice{}, &failingQueue{}, rec.callback())
	qs := newTimestampSet(t, dev, 1)

	err := dev.Queue().Submit(finishWrite(t, dev, qs, 0))
	if CodeOf(err) != Internal {
		t.Errorf("Submit code = %v, want Internal", CodeOf(err))
	}
	if !slices.Equal(rec.codes, []ErrorCode{Internal}) {
		t.Errorf("callback codes = %v, want [Internal]", rec.codes)
	}
}
