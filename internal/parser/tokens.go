// Package parser provides PGN movetext lexing and game-tree building.
// The lexer classifies raw text into tokens; the builder consumes them,
// consulting the external rules engine for move legality and resulting
// positions.
package parser

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Tokens returned to the builder
	EOFToken TokenType = iota
	MoveNumberToken
	SanToken
	CommentToken
	VariationStart
	VariationEnd
	NAGToken
	EvalToken
	CheckToken
	ResultToken

	// Internal classifications used by the lexer's character table
	Whitespace
	TagStart
	TagEnd
	CommentOpen
	CommentClose
	Annotate
	Dot
	VarOpen
	VarClose
	Symbolic
	Alpha
	Digit
	Star
	EOS
	NoToken
	OtherChar
)

// tokenTypeNames maps token types to their string representations.
var tokenTypeNames = [...]string{
	EOFToken:        "EOF",
	MoveNumberToken: "MOVE_NUMBER",
	SanToken:        "SAN",
	CommentToken:    "COMMENT",
	VariationStart:  "VARIATION_START",
	VariationEnd:    "VARIATION_END",
	NAGToken:        "NAG",
	EvalToken:       "EVAL",
	CheckToken:      "CHECK",
	ResultToken:     "RESULT",
	Whitespace:      "WHITESPACE",
	TagStart:        "TAG_START",
	TagEnd:          "TAG_END",
	CommentOpen:     "COMMENT_OPEN",
	CommentClose:    "COMMENT_CLOSE",
	Annotate:        "ANNOTATE",
	Dot:             "DOT",
	VarOpen:         "VAR_OPEN",
	VarClose:        "VAR_CLOSE",
	Symbolic:        "SYMBOLIC",
	Alpha:           "ALPHA",
	Digit:           "DIGIT",
	Star:            "STAR",
	EOS:             "EOS",
	NoToken:         "NO_TOKEN",
	OtherChar:       "OTHER",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) && tokenTypeNames[t] != "" {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token is a classified span of movetext. Tokens are consumed strictly
// left to right and never re-ordered.
type Token struct {
	Type TokenType

	// Text is the token's display text: the authored move text for
	// SanToken, the comment body for CommentToken, the mapped glyph for
	// NAGToken and EvalToken, the result string for ResultToken.
	Text string

	// Line is the input line the token started on, for diagnostics.
	Line uint
}
