package textutil

import "testing"

func TestParseVTTStripsStructure(t *testing.T) {
	content := `WEBVTT
Kind: captions
Language: es

1
00:00:00.000 --> 00:00:02.500
<c>Hola a todos</c> bienvenidos

2
00:00:02.500 --> 00:00:05.000
Hola a todos bienvenidos
hoy hablamos de finanzas personales [Música]

3
00:00:05.000 --> 00:00:08.000
y cómo ahorrar dinero cada mes
`
	got := ParseVTT(content)
	want := "Hola a todos bienvenidos hoy hablamos de finanzas personales y cómo ahorrar dinero cada mes"
	if got != want {
		t.Fatalf("ParseVTT = %q, want %q", got, want)
	}
}

func TestParseVTTRejectsTooShort(t *testing.T) {
	content := `WEBVTT

1
00:00:00.000 --> 00:00:01.000
[Música]
`
	if got := ParseVTT(content); got != "" {
		t.Fatalf("expected empty result for noise-only subtitles, got %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  hola \t mundo \n  "); got != "hola mundo" {
		t.Fatalf("CollapseWhitespace = %q", got)
	}
}

func TestTitleLabel(t *testing.T) {
	cases := map[string]string{
		"  desarrollo   personal ": "Desarrollo Personal",
		"FINANZAS":                 "Finanzas",
		"":                         "",
	}
	for input, want := range cases {
		if got := TitleLabel(input); got != want {
			t.Fatalf("TitleLabel(%q) = %q, want %q", input, got, want)
		}
	}
}
