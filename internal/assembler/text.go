package assembler

import "strings"

var textReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\t", "    ",
	"\u00a0", " ",
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2013", "-",
	"\u2014", "-",
	"\u2026", "...",
)

// normalizeText replaces characters the core fonts render poorly.
func normalizeText(text string) string {
	return textReplacer.Replace(text)
}
