package session

import "testing"

func TestParseSlashCommand(t *testing.T) {
	cases := []struct {
		line string
		kind SlashCommandKind
		arg  string
	}{
		{"hello there", SlashNone, ""},
		{"/new", SlashNew, ""},
		{"/continue", SlashContinue, ""},
		{"/resume", SlashResume, ""},
		{"/resume 3", SlashResume, "3"},
		{"  /resume   2  ", SlashResume, "2"},
		{"/resume ~/sessions/abc.json", SlashResume, "~/sessions/abc.json"},
		{"/session", SlashSession, ""},
		{"/help", SlashHelp, ""},
		{"/exit", SlashExit, ""},
		{"/quit", SlashExit, ""},
		{"/bogus", SlashNone, ""},
	}

	for _, c := range cases {
		got := ParseSlashCommand(c.line)
		if got.Kind != c.kind {
			t.Errorf("ParseSlashCommand(%q).Kind = %v, want %v", c.line, got.Kind, c.kind)
		}
		if got.Arg != c.arg {
			t.Errorf("ParseSlashCommand(%q).Arg = %q, want %q", c.line, got.Arg, c.arg)
		}
	}
}

func TestParseSlashCommandUnrecognizedIsPlainPrompt(t *testing.T) {
	got := ParseSlashCommand("/resume-all-the-things")
	if got.Kind != SlashNone {
		t.Errorf("unrecognized slash word should fall through to SlashNone, got %v", got.Kind)
	}
}
