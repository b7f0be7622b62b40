// Package testsupport holds fixtures shared by the package tests.
package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-formdesk/pkg/schema"
)

// Registry returns the built-in form registry, failing the test on error.
func Registry(t *testing.T) *schema.Registry {
	t.Helper()

	registry, err := schema.Default()
	if err != nil {
		t.Fatalf("load default registry: %v", err)
	}
	return registry
}

// SequentialIDs returns a goroutine-safe id generator yielding prefix-1,
// prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedClock returns a clock that always reports ts.
func FixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
