package parser

import (
	"bufio"
	"io"
	"strings"
)

// SplitGames performs simple splitting of a PGN stream into per-game
// chunks: a new game starts at a tag-pair line that follows movetext.
// Each chunk keeps its tag section (the builder skips tags as a block).
// Anything beyond this simple split is out of scope.
func SplitGames(r io.Reader) ([]string, error) {
	var games []string
	var current strings.Builder
	inMovetext := false

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			games = append(games, text)
		}
		current.Reset()
		inMovetext = false
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && inMovetext {
			flush()
		}
		if trimmed != "" && !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "%") {
			inMovetext = true
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return games, err
	}
	flush()
	return games, nil
}
