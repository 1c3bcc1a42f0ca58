package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	var out syncBuffer
	s := Start(&out, "generating with qwen")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "generating with qwen")
	}, 2*time.Second, 10*time.Millisecond)

	s.Update("screening 3/10")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "screening 3/10")
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.True(t, strings.HasSuffix(out.String(), "\r"))
}
