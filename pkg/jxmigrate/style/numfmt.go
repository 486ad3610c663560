package style

import (
	"strings"

	"github.com/xuri/nfp"
)

// maxBuiltinNumFmt is the highest built-in number format index.
const maxBuiltinNumFmt = 49

// ParseNumFmt validates a number format code. It returns the tokenised
// sections, or ok=false when the code yields nothing usable.
func ParseNumFmt(code string) (sections []nfp.Section, ok bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false
	}
	ps := nfp.NumberFormatParser()
	sections = ps.Parse(code)
	if len(sections) == 0 {
		return nil, false
	}
	for _, s := range sections {
		for _, tok := range s.Items {
			if tok.TType == nfp.TokenTypeUnknown {
				return nil, false
			}
		}
	}
	return sections, true
}

// IsGeneral reports whether the code is the plain General format.
func IsGeneral(code string) bool {
	sections, ok := ParseNumFmt(code)
	if !ok || len(sections) != 1 || len(sections[0].Items) != 1 {
		return false
	}
	return sections[0].Items[0].TType == nfp.TokenTypeGeneral
}

// IsDateFormat reports whether a format id or code displays a date or time.
func IsDateFormat(id int, code string) bool {
	if code == "" {
		return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
	}
	sections, ok := ParseNumFmt(code)
	if !ok {
		return false
	}
	for _, tok := range sections[0].Items {
		if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
			return true
		}
	}
	return false
}

// translateNumFmt resolves a format index and optional code into a spec.
func translateNumFmt(id *int, code string) (spec numFmt, warn *Warning) {
	if code != "" {
		if IsGeneral(code) {
			return numFmt{}, nil
		}
		if _, ok := ParseNumFmt(code); ok {
			return numFmt{Code: code}, nil
		}
		return numFmt{}, &Warning{Attribute: "number format", Value: code, Fallback: "General"}
	}
	if id == nil {
		return numFmt{}, nil
	}
	if *id >= 0 && *id <= maxBuiltinNumFmt {
		return numFmt{ID: *id}, nil
	}
	return numFmt{}, &Warning{Attribute: "number format", Value: itoa(*id), Fallback: "General"}
}
