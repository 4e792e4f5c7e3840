package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		reply GenerationReply
		want  Identifier
	}{
		{name: "double quoted", reply: `"CoolUser"`, want: "CoolUser"},
		{name: "label and extra line", reply: "Generated Username: Nova Star\nExtra line", want: "Nova-Star"},
		{name: "whitespace runs", reply: "  multi   space  name  ", want: "multi-space-name"},
		{name: "quoted label", reply: `'Here's a username: Deep-Wanderer'`, want: "Deep-Wanderer"},
		{name: "quotes inside", reply: `Pixel"s Ghost`, want: "Pixels-Ghost"},
		{name: "crlf", reply: "Zephyr\r\nsecond", want: "Zephyr"},
		{name: "tabs", reply: "Lunar\tFox", want: "Lunar-Fox"},
		{name: "only one label removed", reply: "Username: Username: Echo", want: "Username:-Echo"},
		{name: "label is case sensitive", reply: "username: Echo", want: "username:-Echo"},
		{name: "label mid line kept", reply: "Try Username: Echo", want: "Try-Username:-Echo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeEmpty(t *testing.T) {
	for _, reply := range []GenerationReply{"", "   ", "\n\t", `""`, `" ' "`, "Username: ", "\nNova"} {
		_, err := Sanitize(reply)
		assert.ErrorIs(t, err, ErrEmptyResult, "reply %q", reply)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	replies := []GenerationReply{
		`"CoolUser"`,
		"Generated Username: Nova Star\nExtra line",
		"  multi   space  name  ",
		`'Here's a username: Deep-Wanderer'`,
		"Username: Username: Echo",
	}
	for _, reply := range replies {
		first, err := Sanitize(reply)
		require.NoError(t, err)
		second, err := Sanitize(GenerationReply(first))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
