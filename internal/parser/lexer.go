package parser

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pgnview/pgnview/internal/config"
)

// Lexer tokenizes PGN movetext. It is line oriented and fail-soft: noise
// is skipped, unterminated constructs consume to end of input, and nothing
// the lexer encounters is fatal.
type Lexer struct {
	reader   *bufio.Reader
	line     string
	pos      int
	lineNum  uint
	varLevel uint
	eof      bool
	log      *zap.Logger
}

// Character classification table
var chTab [256]TokenType

func init() {
	initLexTable()
}

// initLexTable initializes the character classification table.
func initLexTable() {
	for i := range chTab {
		chTab[i] = OtherChar
	}

	for _, c := range []byte{' ', '\t', '\r', '\n'} {
		chTab[c] = Whitespace
	}

	chTab['['] = TagStart
	chTab[']'] = TagEnd
	chTab['{'] = CommentOpen
	chTab['}'] = CommentClose
	chTab['$'] = NAGToken
	chTab['!'] = Annotate
	chTab['?'] = Annotate
	chTab['.'] = Dot
	chTab['('] = VarOpen
	chTab[')'] = VarClose
	chTab['*'] = Star
	chTab[0] = EOS

	// Check marks, evaluation spellings, and dashed castling share a
	// symbolic run class; the run's text decides which it is.
	for _, c := range []byte{'+', '#', '-', '=', '/'} {
		chTab[c] = Symbolic
	}

	// Multi-byte glyphs such as the infinity sign arrive as high bytes
	// and gather into symbolic runs.
	for c := 0x80; c < 0x100; c++ {
		chTab[c] = Symbolic
	}

	for c := byte('0'); c <= '9'; c++ {
		chTab[c] = Digit
	}
	for c := byte('A'); c <= 'Z'; c++ {
		chTab[c] = Alpha
		chTab[c+32] = Alpha
	}
	chTab['_'] = Alpha
}

// NewLexer creates a lexer reading movetext from r.
// If opts is nil, defaults are used.
func NewLexer(r io.Reader, opts *config.Options) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		log:    opts.Log(),
	}
}

// Tokenize fully materializes the token stream for text. The stream is
// finite and recomputed per call; use NewLexer directly for lazy scanning.
func Tokenize(text string, opts *config.Options) []Token {
	if opts == nil {
		opts = config.NewOptions()
	}
	l := NewLexer(strings.NewReader(text), opts)
	var tokens []Token
	for {
		tok := l.Next()
		if tok.Type == EOFToken {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// readLine reads the next line from input.
func (l *Lexer) readLine() bool {
	line, err := l.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			l.line = line
			l.pos = 0
			l.lineNum++
			return true
		}
		l.eof = true
		return false
	}
	l.line = line
	l.pos = 0
	l.lineNum++
	return true
}

// currentChar returns the current character or 0 if at end of line.
func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

// advance moves to the next character.
func (l *Lexer) advance() {
	if l.pos < len(l.line) {
		l.pos++
	}
}

// Next returns the next token from the input.
func (l *Lexer) Next() Token {
	for {
		tok := l.nextSymbol()
		if tok.Type != NoToken {
			tok.Line = l.lineNum
			return tok
		}
	}
}

// nextSymbol identifies the next symbol, returning NoToken for spans that
// carry no information for the builder.
func (l *Lexer) nextSymbol() Token {
	if l.line == "" || l.pos >= len(l.line) {
		if !l.readLine() {
			return Token{Type: EOFToken}
		}
		return Token{Type: NoToken}
	}

	ch := l.currentChar()
	symbolStart := l.pos
	l.advance()

	switch chTab[ch] {
	case Whitespace:
		for l.pos < len(l.line) && chTab[l.currentChar()] == Whitespace {
			l.advance()
		}
		return Token{Type: NoToken}

	case TagStart:
		return l.skipBracketed()

	case TagEnd:
		return Token{Type: NoToken}

	case CommentOpen:
		return l.gatherComment()

	case CommentClose:
		l.log.Debug("unmatched comment end", zap.Uint("line", l.lineNum))
		return Token{Type: NoToken}

	case NAGToken:
		return l.gatherNAG()

	case Annotate:
		for l.pos < len(l.line) && chTab[l.currentChar()] == Annotate {
			l.advance()
		}
		text := l.line[symbolStart:l.pos]
		if code, ok := annotationNAGCodes[text]; ok {
			glyph, _ := NAGGlyph(code)
			return Token{Type: NAGToken, Text: glyph}
		}
		l.log.Debug("unmapped annotation", zap.String("text", text))
		return Token{Type: NoToken}

	case Symbolic:
		return l.gatherSymbolic(symbolStart)

	case Dot:
		for l.pos < len(l.line) && chTab[l.currentChar()] == Dot {
			l.advance()
		}
		return Token{Type: NoToken}

	case VarOpen:
		l.varLevel++
		return Token{Type: VariationStart}

	case VarClose:
		if l.varLevel > 0 {
			l.varLevel--
			return Token{Type: VariationEnd}
		}
		l.log.Debug("too many ')'", zap.Uint("line", l.lineNum))
		return Token{Type: NoToken}

	case Alpha:
		return l.gatherSan(symbolStart)

	case Digit:
		return l.gatherNumeric(ch, symbolStart)

	case Star:
		return Token{Type: ResultToken, Text: "*"}

	case EOS:
		if !l.readLine() {
			return Token{Type: EOFToken}
		}
		return Token{Type: NoToken}

	default:
		// '%' starts an escape line in PGN; anything else is noise.
		if ch == '%' {
			l.pos = len(l.line)
		}
		return Token{Type: NoToken}
	}
}

// skipBracketed discards a bracketed span: an inline [%...] directive or a
// tag pair, which this core skips without interpreting. Tag pairs are line
// oriented; an unclosed bracket consumes to end of line.
func (l *Lexer) skipBracketed() Token {
	inString := false
	for l.pos < len(l.line) {
		ch := l.currentChar()
		l.advance()
		if ch == '"' {
			inString = !inString
			continue
		}
		if ch == ']' && !inString {
			return Token{Type: NoToken}
		}
	}
	return Token{Type: NoToken}
}

// directiveRegex matches inline [%...] directives (clock and eval
// annotations embedded by some tools) inside comment text.
var directiveRegex = regexp.MustCompile(`\[%[^\]]*\]`)

// gatherComment gathers a brace-delimited comment. An unterminated comment
// consumes to end of input.
func (l *Lexer) gatherComment() Token {
	var sb strings.Builder
	for {
		for l.pos < len(l.line) {
			ch := l.currentChar()
			l.advance()
			if ch == '}' {
				return makeCommentToken(sb.String())
			}
			sb.WriteByte(ch)
		}
		if !l.readLine() {
			break
		}
		sb.WriteByte('\n')
	}
	l.log.Debug("missing end of comment")
	return makeCommentToken(sb.String())
}

func makeCommentToken(text string) Token {
	text = directiveRegex.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	return Token{Type: CommentToken, Text: text}
}

// gatherNAG gathers digits after '$' and maps the code to its glyph.
// Unmapped codes are dropped.
func (l *Lexer) gatherNAG() Token {
	start := l.pos
	for l.pos < len(l.line) && chTab[l.currentChar()] == Digit {
		l.advance()
	}
	code, err := strconv.Atoi(l.line[start:l.pos])
	if err != nil {
		return Token{Type: NoToken}
	}
	if glyph, ok := NAGGlyph(code); ok {
		return Token{Type: NAGToken, Text: glyph}
	}
	l.log.Debug("unmapped NAG", zap.Int("code", code))
	return Token{Type: NoToken}
}

// gatherSymbolic gathers a run of symbolic characters: check marks, which
// decorate the preceding move, or an evaluation spelling mapped through
// the glyph table. Anything else in this class is dropped.
func (l *Lexer) gatherSymbolic(symbolStart int) Token {
	for l.pos < len(l.line) && chTab[l.currentChar()] == Symbolic {
		l.advance()
	}
	text := l.line[symbolStart:l.pos]

	if strings.Trim(text, "+#") == "" {
		return Token{Type: CheckToken, Text: text}
	}
	if glyph, ok := EvalGlyph(text); ok {
		return Token{Type: EvalToken, Text: glyph}
	}
	l.log.Debug("unmapped symbol run", zap.String("text", text))
	return Token{Type: NoToken}
}

// isSanChar reports whether c can continue a candidate move token.
// Validity of the gathered run is decided by the rules engine, never here.
func isSanChar(c byte) bool {
	switch chTab[c] {
	case Alpha, Digit:
		return true
	}
	return c == '-' || c == '='
}

// gatherSan gathers a candidate move token. Decorations such as check
// marks and suffix annotations are separate tokens; the run keeps only the
// move body, verbatim.
func (l *Lexer) gatherSan(symbolStart int) Token {
	for l.pos < len(l.line) && isSanChar(l.currentChar()) {
		l.advance()
	}
	text := l.line[symbolStart:l.pos]
	// Evaluation words spelled out in letters, such as "unclear", lex the
	// same way moves do and resolve through the glyph table instead.
	if glyph, ok := EvalGlyph(text); ok {
		return Token{Type: EvalToken, Text: glyph}
	}
	return Token{Type: SanToken, Text: text}
}

// gatherNumeric handles digit-initial tokens: game results, zero-style
// castling, and move-number markers.
func (l *Lexer) gatherNumeric(initialDigit byte, symbolStart int) Token {
	remaining := l.line[l.pos:]

	switch initialDigit {
	case '0':
		if strings.HasPrefix(remaining, "-1") {
			l.pos += 2
			return Token{Type: ResultToken, Text: "0-1"}
		}
		if strings.HasPrefix(remaining, "-0-0") {
			l.pos += 4
			return Token{Type: SanToken, Text: "0-0-0"}
		}
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return Token{Type: SanToken, Text: "0-0"}
		}
	case '1':
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return Token{Type: ResultToken, Text: "1-0"}
		}
		if strings.HasPrefix(remaining, "/2") {
			l.pos += 2
			if strings.HasPrefix(l.line[l.pos:], "-1/2") {
				l.pos += 4
			}
			return Token{Type: ResultToken, Text: "1/2-1/2"}
		}
	}

	// A move-number marker: digits followed by dots. It carries nothing
	// that ply does not, so the builder discards it.
	for l.pos < len(l.line) && chTab[l.currentChar()] == Digit {
		l.advance()
	}
	number := l.line[symbolStart:l.pos]
	for l.pos < len(l.line) && l.currentChar() == '.' {
		l.advance()
	}
	return Token{Type: MoveNumberToken, Text: number}
}

// LineNumber returns the current input line number.
func (l *Lexer) LineNumber() uint {
	return l.lineNum
}
