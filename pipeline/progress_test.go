package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "parse", 100, 10)

	tracker.Start()
	tracker.Increment(25)
	tracker.Increment(25)
	tracker.Increment(50)

	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
	assert.Equal(t, 100, tracker.Current())

	output := buf.String()
	assert.Contains(t, output, "parse: 100/100")
	assert.Contains(t, output, "100.0%")
}

func TestProgressTracker_Interval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "expand", 10, 5)

	tracker.Start()
	for i := 0; i < 4; i++ {
		tracker.Increment(1)
	}
	assert.Empty(t, buf.String(), "no report before the interval")

	tracker.Increment(1)
	assert.Equal(t, 1, strings.Count(buf.String(), "\r"))
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "parse", 100, 10)

	tracker.Start()
	tracker.Increment(75)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestProgressTracker_IncrementBeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "parse", 100, 10)

	tracker.Start()
	tracker.Increment(150)

	assert.Equal(t, 100, tracker.Current())
	assert.NotContains(t, buf.String(), "150")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "parse", 100, 10)

	tracker.Increment(50)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
