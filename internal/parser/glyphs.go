package parser

// nagGlyphs maps Numeric Annotation Glyph codes to their display glyphs.
// Codes with no mapping are silently dropped.
var nagGlyphs = map[int]string{
	1:  "!",
	2:  "?",
	3:  "!!",
	4:  "??",
	5:  "!?",
	6:  "?!",
	10: "=",
	13: "∞",
	14: "⩲",
	15: "⩱",
	16: "±",
	17: "∓",
	18: "+-",
	19: "-+",
}

// annotationNAGCodes maps suffix annotation spellings (which some sources
// write directly instead of $n codes) to their NAG codes.
var annotationNAGCodes = map[string]int{
	"!":  1,
	"?":  2,
	"!!": 3,
	"??": 4,
	"!?": 5,
	"?!": 6,
}

// evalGlyphs maps evaluation-symbol spellings to display glyphs.
// Spellings not in this table are noise and are dropped.
var evalGlyphs = map[string]string{
	"=":       "=",
	"∞":       "∞",
	"+/=":     "⩲",
	"=/+":     "⩱",
	"+/-":     "±",
	"-/+":     "∓",
	"+-":      "+-",
	"-+":      "-+",
	"unclear": "∞",
}

// NAGGlyph returns the display glyph for a NAG code, if one is mapped.
func NAGGlyph(code int) (string, bool) {
	glyph, ok := nagGlyphs[code]
	return glyph, ok
}

// EvalGlyph returns the display glyph for an evaluation spelling, if one
// is mapped.
func EvalGlyph(spelling string) (string, bool) {
	glyph, ok := evalGlyphs[spelling]
	return glyph, ok
}
