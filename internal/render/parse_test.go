package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want ParsedLine
	}{
		{"Hello", ParsedLine{Text: "Hello"}},
		{"---", ParsedLine{Separator: true}},
		{"-----", ParsedLine{Depth: 1, Separator: true}},
		{"--Mean: 1 tok/s", ParsedLine{Depth: 1, Text: "Mean: 1 tok/s"}},
		{"Start | bash=/bin/x param1=do_start terminal=false", ParsedLine{
			Text:   "Start",
			Params: map[string]string{"bash": "/bin/x", "param1": "do_start", "terminal": "false"},
		}},
		{`x | bash="/My App/bin" color=red`, ParsedLine{
			Text:   "x",
			Params: map[string]string{"bash": "/My App/bin", "color": "red"},
		}},
		{"| image=abc", ParsedLine{Params: map[string]string{"image": "abc"}}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLine(tt.line))
		})
	}
}

func TestParseLineRoundTrip(t *testing.T) {
	it := (&Item{Text: "Open Logs", Depth: 2}).Action("/Applications/Llama Bar/llamabar", "open_logs")
	p := ParseLine(it.String())

	assert.Equal(t, 2, p.Depth)
	assert.Equal(t, "Open Logs", p.Text)
	assert.Equal(t, "/Applications/Llama Bar/llamabar", p.Params["bash"])
	assert.Equal(t, "open_logs", p.Params["param1"])
	assert.Equal(t, "true", p.Params["refresh"])
}

func TestParseLineDeepSubmenu(t *testing.T) {
	p := ParseLine("----Mean: 1")
	assert.Equal(t, 2, p.Depth)
	assert.Equal(t, "Mean: 1", p.Text)
	assert.False(t, p.Separator)
}
