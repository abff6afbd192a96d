package display

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestWrap(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		exp   string
	}{
		"short": {
			text:  "You died.",
			width: 20,
			exp:   "You died.",
		},
		"wrapped": {
			text:  "You died and lost 40 gold.",
			width: 12,
			exp:   "You died and\nlost 40\ngold.",
		},
		"default width": {
			text:  "You died and lost 40 gold.",
			width: 0,
			exp:   "You died and lost 40 gold.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "wrapped", Wrap(tt.text, tt.width), tt.exp)
		})
	}
}

func TestCapitalize(t *testing.T) {
	testutil.AssertEqual(t, "empty", Capitalize(""), "")
	testutil.AssertEqual(t, "word", Capitalize("lydia"), "Lydia")
}

func TestExpandTemplate(t *testing.T) {
	data := struct {
		Username string
		PlayerId uint32
	}{Username: "dovah", PlayerId: 7}

	tests := map[string]struct {
		tmpl   string
		exp    string
		expErr string
	}{
		"plain": {
			tmpl: "Player",
			exp:  "Player",
		},
		"field": {
			tmpl: "{{ .Username }}",
			exp:  "dovah",
		},
		"sprig": {
			tmpl: "{{ .Username | upper }} #{{ .PlayerId }}",
			exp:  "DOVAH #7",
		},
		"parse error": {
			tmpl:   "{{ .Username ",
			expErr: "parsing template",
		},
		"execute error": {
			tmpl:   "{{ .Missing }}",
			expErr: "executing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ExpandTemplate(tt.tmpl, data)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "expanded", got, tt.exp)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"ascii":      {in: "dovah", exp: "dovah"},
		"decomposed": {in: "Jo\u0301n", exp: "J\u00f3n"},
		"control":    {in: "bad\x00\nname", exp: "badname"},
		"spaces":     {in: "  kin  ", exp: "kin"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "name", NormalizeName(tt.in), tt.exp)
		})
	}
}
