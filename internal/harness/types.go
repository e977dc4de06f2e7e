package harness

import (
	"bytes"
	"fmt"
	"strings"
)

// Exchange is one recorded request and its response.
type Exchange struct {
	Seq    int    `json:"seq"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds the flow exchanges in execution order.
	Trace []Exchange `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []Exchange{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddExchange appends an exchange to the trace, numbering it.
func (r *Result) AddExchange(method, path string, status int, body string) Exchange {
	ex := Exchange{
		Seq:    len(r.Trace) + 1,
		Method: method,
		Path:   path,
		Status: status,
		Body:   body,
	}
	r.Trace = append(r.Trace, ex)
	return ex
}

// Transcript renders the trace as text: a "METHOD path -> status" line,
// the response body, and a blank line per exchange.
func (r *Result) Transcript() []byte {
	var buf bytes.Buffer
	for _, ex := range r.Trace {
		fmt.Fprintf(&buf, "%s %s -> %d\n", ex.Method, ex.Path, ex.Status)
		buf.WriteString(ex.Body)
		if !strings.HasSuffix(ex.Body, "\n") {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
