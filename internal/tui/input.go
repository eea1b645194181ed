package tui

import "unicode/utf8"

// pageSize is the default number of rows fetched per list call.
const pageSize = 50

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a one-line text input with a prompt. Masked inputs
// show bullets instead of their text.
func renderInput(prompt, text, placeholder string, focused, masked bool) string {
	shown := text
	if masked {
		shown = ""
		for range text {
			shown += "•"
		}
	}
	line := inputPromptStyle.Render(prompt)
	switch {
	case shown == "" && !focused:
		line += inputPlaceholderStyle.Render(placeholder)
	case focused:
		line += selectedStyle.Render(shown) + accentStyle.Render("█")
	default:
		line += normalStyle.Render(shown)
	}
	return line
}
