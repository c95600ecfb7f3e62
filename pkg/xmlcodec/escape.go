package xmlcodec

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		// Parsers normalize literal whitespace in attribute values to spaces.
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

// escapeText escapes character data.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
