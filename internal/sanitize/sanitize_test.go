package sanitize

import (
	"strings"
	"testing"
)

func TestHTMLStripsActiveContent(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		keep    []string
		dropped []string
	}{
		{
			name:    "script tags",
			in:      `<p>ok</p><script>alert(1)</script>`,
			keep:    []string{"<p>ok</p>"},
			dropped: []string{"<script", "alert(1)"},
		},
		{
			name:    "event handlers",
			in:      `<p onclick="steal()">text</p>`,
			keep:    []string{"text"},
			dropped: []string{"onclick", "steal"},
		},
		{
			name:    "inline styles",
			in:      `<b style="position:fixed">bold</b>`,
			keep:    []string{"<b>bold</b>"},
			dropped: []string{"style="},
		},
		{
			name:    "javascript urls",
			in:      `<a href="javascript:evil()">link</a>`,
			keep:    []string{"link"},
			dropped: []string{"javascript:"},
		},
		{
			name: "formatting survives",
			in:   `<h2>Heading</h2><ul><li>one</li></ul><table><tr><td>cell</td></tr></table>`,
			keep: []string{"<h2>Heading</h2>", "<li>one</li>", "<td>cell</td>"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HTML(tc.in)
			for _, want := range tc.keep {
				if !strings.Contains(got, want) {
					t.Fatalf("missing %q in %q", want, got)
				}
			}
			for _, bad := range tc.dropped {
				if strings.Contains(got, bad) {
					t.Fatalf("unsafe fragment %q survived in %q", bad, got)
				}
			}
		})
	}
}
