// Package questionbank parses the raw question-bank text format: repeated
// blocks, each terminated by the literal token ANSWER: followed by the correct
// label on the next non-blank line.
package questionbank

import (
	"regexp"
	"strings"

	"sprint-quiz-service/internal/domain"
)

var (
	answerToken = regexp.MustCompile(`\bANSWER:`)
	choiceLine  = regexp.MustCompile(`^[A-E]\)`)
)

// Parse converts raw bank text into questions. Within a block, lines matching
// ^[A-E]) are choices (kept verbatim), bare single letters A-E are skipped,
// and the first remaining non-empty line becomes the question text. Blocks
// missing either question text or at least one choice are dropped.
func Parse(raw string) []domain.Question {
	blocks := answerToken.Split(raw, -1)
	questions := make([]domain.Question, 0, len(blocks))

	for i := 0; i+1 < len(blocks); i++ {
		text, choices := scanBlock(blocks[i])
		if text == "" || len(choices) == 0 {
			continue
		}
		questions = append(questions, domain.Question{
			Text:    text,
			Choices: choices,
			Answer:  answerLabel(blocks[i+1]),
		})
	}
	return questions
}

func scanBlock(block string) (string, []string) {
	var text string
	var choices []string

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case choiceLine.MatchString(line):
			choices = append(choices, line)
		case len(line) == 1 && strings.Contains("ABCDE", strings.ToUpper(line)):
			// stray label left over from the preceding ANSWER: token
		case text == "":
			text = line
		}
	}
	return text, choices
}

// answerLabel extracts the label from the text following an ANSWER: token:
// the first non-blank line, uppercased.
func answerLabel(rest string) string {
	trimmed := strings.TrimSpace(rest)
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(trimmed))
}
