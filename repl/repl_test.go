package repl

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/rubiojr/sagepp/preprocess"
	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	s := NewSession(preprocess.New(preprocess.DefaultOptions()), &out)

	assert.Equal(t, Prompt, s.Prompt())
	assert.True(t, s.Handle("R.<x> = QQ[]"))
	assert.Equal(t, "R = QQ['x']; (x,) = R._first_ngens(1)\n", out.String())

	out.Reset()
	assert.True(t, s.Handle(`s = """2x`))
	assert.Equal(t, ContinuationPrompt, s.Prompt())
	assert.True(t, s.Handle(`exit"""`))
	assert.Equal(t, Prompt, s.Prompt())
	assert.Equal(t, "s = \"\"\"2x\nexit\"\"\"\n", out.String())

	out.Reset()
	assert.True(t, s.Handle(":mul 1"))
	assert.True(t, s.Handle("2x"))
	assert.Equal(t, "Integer(2)*x\n", out.String())

	out.Reset()
	assert.True(t, s.Handle(":mul"))
	assert.Equal(t, "implicit multiplication level: 1\n", out.String())

	out.Reset()
	assert.True(t, s.Handle("a..b"))
	assert.Contains(t, out.String(), "ellipsis range outside brackets")

	out.Reset()
	assert.True(t, s.Handle(":bogus"))
	assert.Equal(t, "unknown command :bogus (try :help)\n", out.String())

	assert.False(t, s.Handle("quit"))
}

func TestSession_CommandInsideLiteral(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(preprocess.New(preprocess.DefaultOptions()), &out)
	s.Handle("s = '''")
	assert.Equal(t, ContinuationPrompt, s.Prompt())
	s.Handle(":reset")
	// the command is literal text while the string is open
	assert.Equal(t, ContinuationPrompt, s.Prompt())
}
