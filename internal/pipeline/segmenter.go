package pipeline

import (
	"strings"

	"github.com/Reaganramsarup/dubber-poc/internal/config"
)

// sentenceGapSeconds is the pause length that force-closes a sentence even
// when the speaker has not changed.
const sentenceGapSeconds = 1.0

// sentenceBuilder accumulates words into an in-progress sentence. It is a
// two-state machine: empty until openWith, accumulating until close.
type sentenceBuilder struct {
	open    bool
	tokens  []string
	speaker int
	start   float64
	end     float64
}

func (b *sentenceBuilder) openWith(token string, w Word) {
	b.open = true
	b.tokens = append(b.tokens[:0], token)
	b.speaker = w.SpeakerTag
	b.start = w.Start
	b.end = w.End
}

func (b *sentenceBuilder) add(token string, w Word) {
	b.tokens = append(b.tokens, token)
	b.end = w.End
}

// close finalizes the open sentence onto sentences and resets the builder.
// A no-op when nothing is open.
func (b *sentenceBuilder) close(lang string, sentences []Sentence) []Sentence {
	if !b.open {
		return sentences
	}
	sentences = append(sentences, Sentence{
		Text:    map[string]string{lang: strings.Join(b.tokens, " ")},
		Speaker: b.speaker,
		Start:   b.start,
		End:     b.end,
	})
	b.open = false
	return sentences
}

// Segment groups a word-timed transcript into speaker-homogeneous,
// pause-delimited sentences, the atomic units used for dubbing. A sentence
// closes when the speaker tag changes or when a >=1s pause follows the current
// word; the pause check only looks at the next word within the same section,
// so a gap spanning a section boundary never triggers it. Sections flush any
// open sentence at their end.
func Segment(sections []Section, lang string) []Sentence {
	var sentences []Sentence
	var b sentenceBuilder

	for _, sec := range sections {
		for i, w := range sec.Words {
			token := displayToken(w.Text, lang)

			switch {
			case !b.open:
				b.openWith(token, w)
			case w.SpeakerTag != b.speaker:
				sentences = b.close(lang, sentences)
				b.openWith(token, w)
			default:
				b.add(token, w)
			}

			if i+1 < len(sec.Words) && sec.Words[i+1].Start-w.End >= sentenceGapSeconds {
				sentences = b.close(lang, sentences)
			}
		}
		sentences = b.close(lang, sentences)
	}

	return sentences
}

// displayToken strips the reading annotation from word|reading tokens for
// languages that carry them; all other languages use the raw token.
func displayToken(text, lang string) string {
	if config.HasAnnotatedReadings(lang) {
		if i := strings.IndexByte(text, '|'); i >= 0 {
			return text[:i]
		}
	}
	return text
}
