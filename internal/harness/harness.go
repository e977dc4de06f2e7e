package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roach88/phonebook/internal/api"
	"github.com/roach88/phonebook/internal/record"
	"github.com/roach88/phonebook/internal/store"
)

// Harness is the scenario execution engine.
type Harness struct {
	store   *store.Store
	handler http.Handler
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and server
// 2. Execute setup steps (each must succeed)
// 3. Execute flow steps, recording and checking each response
// 4. Evaluate assertions against the store
//
// Returns an error only if the scenario could not be executed; failed
// expectations are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	srv := api.NewServer(st, zerolog.Nop(),
		api.WithIDGenerator(record.NewFixedGenerator(scenario.IDs...)))

	h := &Harness{store: st, handler: srv.Handler()}
	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Setup {
		status, body, err := h.do(step)
		if err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
		if status < 200 || status > 299 {
			return nil, fmt.Errorf("setup[%d]: %s %s returned %d: %s", i, step.Method, step.Path, status, body)
		}
	}

	for i, step := range scenario.Flow {
		status, body, err := h.do(step)
		if err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
		ex := result.AddExchange(step.Method, step.Path, status, body)
		checkExpect(result, i, ex, step.Expect)
	}

	for i, assertion := range scenario.Assertions {
		if err := h.evaluate(ctx, assertion); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// do sends one request through the handler in-process.
func (h *Harness) do(step Step) (status int, body string, err error) {
	// A FixedGenerator panics once the scenario's ids run out.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s %s: %v (declare more ids)", step.Method, step.Path, r)
		}
	}()

	var reader io.Reader
	if step.Body != "" {
		reader = strings.NewReader(step.Body)
	}
	req := httptest.NewRequest(step.Method, step.Path, reader)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	return rec.Code, rec.Body.String(), nil
}

func checkExpect(result *Result, index int, ex Exchange, expect *Expect) {
	if expect == nil {
		return
	}
	if ex.Status != expect.Status {
		result.AddError(fmt.Sprintf("flow[%d]: %s %s: expected status %d, got %d",
			index, ex.Method, ex.Path, expect.Status, ex.Status))
	}
	if expect.Body != "" && ex.Body != expect.Body {
		result.AddError(fmt.Sprintf("flow[%d]: %s %s: expected body %q, got %q",
			index, ex.Method, ex.Path, expect.Body, ex.Body))
	}
	for _, want := range expect.Contains {
		if !strings.Contains(ex.Body, want) {
			result.AddError(fmt.Sprintf("flow[%d]: %s %s: body does not contain %q",
				index, ex.Method, ex.Path, want))
		}
	}
}
