package instruction

import (
	"regexp"
	"sort"
	"strings"
)

// Tag is one directive tag located inside a cell's text.
type Tag struct {
	Kind Kind
	// Close is set for closing tags such as </jx:forEach>.
	Close bool
	Attrs Params
	// Start and End are byte offsets of the tag within the cell text.
	Start, End int
	// Text is the matched tag text.
	Text string
}

const (
	names = `(foreach|if|out|area|multisheet)`
	attr  = `[\w:.-]+\s*=\s*(?:"[^"]*"|'[^']*')`
)

var (
	// <jx:forEach items="a" var="b">, </forEach>, <out select="x"/>
	tagPattern = regexp.MustCompile(`(?i)<\s*(/)?\s*(?:jx:)?` + names + `((?:[\s,]+` + attr + `)*)[\s,]*/?\s*>`)
	// jx:area(lastCell="E5")
	callPattern = regexp.MustCompile(`(?i)\bjx:` + names + `\s*\(((?:[\s,]*` + attr + `)*)[\s,]*\)`)
	// jx:area lastCell="E5"
	barePattern = regexp.MustCompile(`(?i)\bjx:` + names + `((?:[\s,]+` + attr + `)+)`)
	// /jx:forEach
	bareClosePattern = regexp.MustCompile(`(?i)/\s*jx:(foreach|if)\b`)

	attrPattern = regexp.MustCompile(`([\w:.-]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Tokenize returns the directive tags found in text, ordered by offset.
// Overlapping matches keep the earliest, longest one.
func Tokenize(text string) []Tag {
	if !strings.ContainsAny(text, "<:/") {
		return nil
	}
	var tags []Tag
	collect := func(re *regexp.Regexp, closeGroup, nameGroup, attrGroup int) {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			kind, ok := kindFromName(group(text, m, nameGroup))
			if !ok {
				continue
			}
			t := Tag{
				Kind:  kind,
				Start: m[0],
				End:   m[1],
				Text:  text[m[0]:m[1]],
			}
			if closeGroup < 0 {
				t.Close = true
			} else if closeGroup > 0 {
				t.Close = group(text, m, closeGroup) != ""
			}
			if attrGroup > 0 {
				t.Attrs = parseAttrs(group(text, m, attrGroup))
			}
			tags = append(tags, t)
		}
	}
	collect(tagPattern, 1, 2, 3)
	collect(callPattern, 0, 1, 2)
	collect(barePattern, 0, 1, 2)
	collect(bareClosePattern, -1, 1, 0)

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Start != tags[j].Start {
			return tags[i].Start < tags[j].Start
		}
		return tags[i].End > tags[j].End
	})
	out := tags[:0]
	end := -1
	for _, t := range tags {
		if t.Start < end {
			continue
		}
		out = append(out, t)
		end = t.End
	}
	return out
}

// Strip removes the given tags from text and trims the remainder.
func Strip(text string, tags []Tag) string {
	if len(tags) == 0 {
		return text
	}
	var b strings.Builder
	pos := 0
	for _, t := range tags {
		if t.Start < pos {
			continue
		}
		b.WriteString(text[pos:t.Start])
		pos = t.End
	}
	b.WriteString(text[pos:])
	return strings.TrimSpace(b.String())
}

func parseAttrs(s string) Params {
	var out Params
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		out = append(out, Param{Name: m[1], Value: v})
	}
	return out
}

func group(text string, m []int, g int) string {
	if 2*g+1 >= len(m) || m[2*g] < 0 {
		return ""
	}
	return text[m[2*g]:m[2*g+1]]
}
