package utils

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// htmlTag only recognises real element names so that plain text such
	// as "cost<revenue and growth>inflation" is left alone.
	htmlTag = regexp.MustCompile(`(?i)<(?:/?(?:a|abbr|article|aside|b|blockquote|body|br|code|div|em|figure|font|footer|h[1-6]|head|header|hr|html|i|img|li|link|main|meta|ol|p|pre|section|small|span|strong|style|script|sub|sup|table|tbody|td|th|thead|title|tr|u|ul)(?:\s[^<>]*)?/?|!--.*?--|!doctype[^<>]*)>`)
	blockEnd = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|tr|blockquote)>|<br\s*/?>`)
)

// LooksLikeHTML reports whether s contains at least one known HTML element,
// comment or doctype.
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// CleanHTML strips HTML tags from a string using goquery. Block elements
// become paragraphs separated by a blank line; scripts and styles are
// dropped.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + blockEnd.ReplaceAllString(s, "$0\n\n") + "</body>"))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	return collapseBlankLines(doc.Text())
}

// collapseBlankLines trims every line and folds runs of blank lines into a
// single paragraph break.
func collapseBlankLines(text string) string {
	var b strings.Builder
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if blank {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(line)
		blank = false
	}
	return b.String()
}
