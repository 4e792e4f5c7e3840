package pipeline

import "strings"

// Identifier is a sanitized, single-token username.
type Identifier string

// labelPrefixes are matched case-sensitively after quotes have been removed,
// so they are stored in their quote-stripped form by init.
var labelPrefixes = []string{
	"Generated Username: ",
	"Generated username: ",
	"Here's a username: ",
	"Here is a username: ",
	"Username: ",
}

var strippedLabels []string

func init() {
	strippedLabels = make([]string, len(labelPrefixes))
	for i, p := range labelPrefixes {
		strippedLabels[i] = stripQuotes(p)
	}
}

// Sanitize normalizes provider text into an Identifier. The steps run in a
// fixed order: quotes go before labels because labels may be quoted, and
// whitespace collapsing runs last.
func Sanitize(r GenerationReply) (Identifier, error) {
	s := string(r)
	if strings.TrimSpace(s) == "" {
		return "", EmptyResult("provider returned no text")
	}

	s = firstLine(s)
	s = stripQuotes(s)
	for _, label := range strippedLabels {
		if strings.HasPrefix(s, label) {
			s = s[len(label):]
			break
		}
	}
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), "-")

	if s == "" {
		return "", EmptyResult("reply was empty after sanitizing")
	}
	return Identifier(s), nil
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

func stripQuotes(s string) string {
	return strings.NewReplacer(`"`, "", "'", "").Replace(s)
}
