package session

import "strings"

// SlashCommandKind identifies which of spec.md §6's recognized slash
// commands a submitted line names. Any other leading-"/" token, or input
// without a leading slash at all, is treated as a plain prompt.
type SlashCommandKind int

const (
	SlashNone SlashCommandKind = iota
	SlashNew
	SlashContinue
	SlashResume
	SlashSession
	SlashHelp
	SlashExit
)

// SlashCommand is a parsed slash-command invocation: its kind plus any
// trailing argument text (used only by /resume).
type SlashCommand struct {
	Kind SlashCommandKind
	Arg  string
}

// ParseSlashCommand classifies a submitted input line. Leading/trailing
// whitespace is trimmed before matching.
func ParseSlashCommand(line string) SlashCommand {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return SlashCommand{Kind: SlashNone}
	}

	word, rest, _ := strings.Cut(line, " ")
	arg := strings.TrimSpace(rest)

	switch word {
	case "/new":
		return SlashCommand{Kind: SlashNew}
	case "/continue":
		return SlashCommand{Kind: SlashContinue}
	case "/resume":
		return SlashCommand{Kind: SlashResume, Arg: arg}
	case "/session":
		return SlashCommand{Kind: SlashSession}
	case "/help":
		return SlashCommand{Kind: SlashHelp}
	case "/exit", "/quit":
		return SlashCommand{Kind: SlashExit}
	default:
		// Unrecognized leading-"/" token: treated as a plain prompt per
		// spec.md §6 ("any other leading-/ token is treated as a prompt").
		return SlashCommand{Kind: SlashNone}
	}
}
