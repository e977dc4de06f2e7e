// Package harness runs scripted HTTP conversations against the phonebook
// service and records them as golden transcripts.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	ids: [c-1, c-2]          # handed to created records, in order
//	setup:
//	  - method: POST
//	    path: /contacts
//	    body: '{"name": "Ada", "phone_number": "+44 1"}'
//	flow:
//	  - method: GET
//	    path: /contacts/c-1
//	    expect:
//	      status: 200
//	      contains: ["Ada"]
//	assertions:
//	  - type: record_count
//	    kind: contacts
//	    count: 1
//	  - type: record_state
//	    kind: contacts
//	    id: c-1
//	    expect: { phone_number: "+44 1" }
//
// # Assertion Types
//
//   - record_count: the kind holds exactly count records
//   - record_state: the record with id exists and its JSON fields match expect (subset)
//   - record_absent: no record with id exists
//   - list_order: listing the kind yields exactly names, in order
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store. Record ids come
// from the scenario's ids list instead of random UUIDs, so transcripts are
// identical across runs and can be compared with golden files.
//
// Setup steps must succeed (2xx) and are not part of the transcript. Flow
// steps are recorded whether or not their expectations hold.
package harness
