package services

import (
	"regexp"
	"strings"
)

var (
	mdHeader     = regexp.MustCompile(`(?m)^#+\s*`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	mdBold       = regexp.MustCompile(`\*\*([^\*]+)\*\*`)
	mdItalic     = regexp.MustCompile(`\*([^\*]+)\*`)
	mdUnderBold  = regexp.MustCompile(`__([^_]+)__`)
	mdUnderEm    = regexp.MustCompile(`_([^_]+)_`)
	mdCodeBlock  = regexp.MustCompile("(?s)```[^`]*```")
	mdInlineCode = regexp.MustCompile("`[^`]+`")
)

// SearchText strips markdown formatting from article content and prepends
// the title, producing the normalized string handed to the search index on
// every content change.
func SearchText(content, title string) string {
	text := mdHeader.ReplaceAllString(content, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	text = mdUnderBold.ReplaceAllString(text, "$1")
	text = mdUnderEm.ReplaceAllString(text, "$1")
	text = mdCodeBlock.ReplaceAllString(text, " ")
	text = mdInlineCode.ReplaceAllString(text, " ")

	if title != "" {
		text = title + " " + text
	}

	return strings.Join(strings.Fields(text), " ")
}
