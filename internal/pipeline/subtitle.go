package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerLine is the cue width that comfortably fits one line at
// 1920x1080 with a 40pt font.
const DefaultCharsPerLine = 60

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// cueBuilder accumulates words into the current cue line.
type cueBuilder struct {
	open  bool
	line  strings.Builder
	start float64
}

func (b *cueBuilder) add(w Word) {
	if !b.open {
		b.open = true
		b.start = w.Start
	}
	b.line.WriteByte(' ')
	b.line.WriteString(w.Text)
}

func (b *cueBuilder) close(end float64, cues []Cue) []Cue {
	if !b.open {
		return cues
	}
	cues = append(cues, Cue{
		Index: len(cues) + 1,
		Start: b.start,
		End:   end,
		Text:  strings.TrimSpace(b.line.String()),
	})
	b.open = false
	b.line.Reset()
	return cues
}

// BuildCues repacks the raw word stream into fixed-width subtitle cues,
// ignoring speakers. A cue closes on the word whose addition pushes the line
// past maxCharsPerLine; any trailing partial line becomes a final cue ending
// at the last word's end time.
func BuildCues(sections []Section, maxCharsPerLine int) []Cue {
	var cues []Cue
	var b cueBuilder
	var lastEnd float64

	for _, sec := range sections {
		for _, w := range sec.Words {
			b.add(w)
			lastEnd = w.End
			if utf8.RuneCountInString(b.line.String()) > maxCharsPerLine {
				cues = b.close(w.End, cues)
			}
		}
	}

	return b.close(lastEnd, cues)
}

// RenderSRT serializes cues in SRT format: index line, timestamp line, text,
// cues separated by a blank line.
func RenderSRT(cues []Cue) string {
	var sb strings.Builder
	for i, c := range cues {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s", c.Index, srtTimestamp(c.Start), srtTimestamp(c.End), c.Text)
	}
	return sb.String()
}

// srtTimestamp formats seconds as HH:MM:SS,mmm by successive division of
// total milliseconds.
func srtTimestamp(seconds float64) string {
	ms := int64(seconds * 1000)
	sec, ms := ms/1000, ms%1000
	min, sec := sec/60, sec%60
	hour, min := min/60, min%60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hour, min, sec, ms)
}
