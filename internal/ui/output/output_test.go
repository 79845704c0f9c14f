package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/weave/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	out := output.Plain(&buf)

	assert.Equal(t, termenv.Ascii, out.Profile)
	_, err := out.WriteString("hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestNew_NilWriter(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := output.New(nil)
	assert.Equal(t, termenv.Ascii, out.Profile)
}
