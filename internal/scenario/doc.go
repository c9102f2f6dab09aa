// Package scenario runs scripted query set scenarios against a gpuquery
// backend and records what happened.
//
// A scenario is a YAML file naming the devices to create and a list of
// steps. Each step performs one operation (create_query_set, destroy,
// create_encoder, write_timestamp, begin_compute_pass, begin_render_pass,
// end_pass, finish, submit) and may state the error code it must return
// and the codes it must deliver to device error callbacks:
//
//	name: destroy_before_submit
//	devices:
//	  - name: gpu
//	    capabilities: [timestamp_query]
//	steps:
//	  - {op: create_query_set, device: gpu, set: ts, type: timestamp, count: 1}
//	  - {op: create_encoder, device: gpu, encoder: enc}
//	  - {op: write_timestamp, encoder: enc, set: ts, index: 0}
//	  - {op: finish, encoder: enc, buffer: cb}
//	  - {op: destroy, set: ts}
//	  - {op: submit, device: gpu, buffers: [cb], expect: UseAfterDestroyAtSubmit}
//
// Runner executes a scenario and returns a Result. Mismatched expectations
// become Result.Failures; only scenarios that cannot run at all produce an
// error. WriteText renders the deterministic trace stored in golden files.
package scenario
