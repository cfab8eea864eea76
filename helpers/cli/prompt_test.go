package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLines(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		expect []string
	}{
		{"empty", "", nil},
		{"trim", "  show \n\n\tquantity 5\n", []string{"show", "quantity 5"}},
		{"exit", "deposit 5 1\nexit\nshow\n", []string{"deposit 5 1"}},
		{"no-newline", "show", []string{"show"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			var lines []string
			err := RunLines(strings.NewReader(c.input), func(line string) { lines = append(lines, line) })
			require.NoError(t, err)
			assert.Equal(t, c.expect, lines)
		})
	}
}

func TestIsExit(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit(" exit "))
	assert.False(t, IsExit("exit now"))
	assert.False(t, IsExit(""))
}
