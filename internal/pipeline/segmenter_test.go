package pipeline

import (
	"testing"
)

func word(text string, start, end float64, speaker int) Word {
	return Word{Text: text, Start: start, End: end, SpeakerTag: speaker}
}

func TestSegment_Empty(t *testing.T) {
	if got := Segment(nil, "en"); got != nil {
		t.Errorf("Segment(nil) = %v, want nil", got)
	}
	if got := Segment([]Section{{Transcript: ""}}, "en"); got != nil {
		t.Errorf("Segment(empty section) = %v, want nil", got)
	}
}

func TestSegment_SingleSpeaker(t *testing.T) {
	sections := []Section{{
		Transcript: "hello world",
		Words: []Word{
			word("hello", 0.0, 0.5, 1),
			word("world", 0.5, 1.0, 1),
		},
	}}

	got := Segment(sections, "en")
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1", len(got))
	}
	s := got[0]
	if s.Text["en"] != "hello world" {
		t.Errorf("text = %q, want 'hello world'", s.Text["en"])
	}
	if s.Speaker != 1 || s.Start != 0.0 || s.End != 1.0 {
		t.Errorf("sentence = %+v, want speaker 1, 0.0-1.0", s)
	}
}

func TestSegment_SpeakerChange(t *testing.T) {
	// Speaker 1 from 0.0-3.0 with a 0.2s internal gap (no forced close),
	// then speaker 2 from 3.0-4.0. Expect exactly 2 sentences.
	sections := []Section{{
		Words: []Word{
			word("one", 0.0, 2.0, 1),
			word("two", 2.2, 3.0, 1),
			word("three", 3.0, 4.0, 2),
		},
	}}

	got := Segment(sections, "en")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2", len(got))
	}
	if got[0].Speaker != 1 || got[0].Start != 0.0 || got[0].End != 3.0 {
		t.Errorf("sentence[0] = %+v, want speaker 1, 0.0-3.0", got[0])
	}
	if got[0].Text["en"] != "one two" {
		t.Errorf("sentence[0] text = %q, want 'one two'", got[0].Text["en"])
	}
	if got[1].Speaker != 2 || got[1].Start != 3.0 || got[1].End != 4.0 {
		t.Errorf("sentence[1] = %+v, want speaker 2, 3.0-4.0", got[1])
	}
}

func TestSegment_GapClosesSameSpeaker(t *testing.T) {
	// A >=1s pause between words of the same speaker always yields two sentences.
	sections := []Section{{
		Words: []Word{
			word("before", 0.0, 1.0, 1),
			word("after", 2.0, 2.5, 1),
		},
	}}

	got := Segment(sections, "en")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2", len(got))
	}
	if got[0].Text["en"] != "before" || got[1].Text["en"] != "after" {
		t.Errorf("texts = %q, %q", got[0].Text["en"], got[1].Text["en"])
	}
}

func TestSegment_GapJustUnderThreshold(t *testing.T) {
	sections := []Section{{
		Words: []Word{
			word("a", 0.0, 1.0, 1),
			word("b", 1.99, 2.5, 1),
		},
	}}

	got := Segment(sections, "en")
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1", len(got))
	}
}

func TestSegment_GapNotCheckedAcrossSections(t *testing.T) {
	// The pause check only looks within a section; the section-end flush closes
	// the sentence anyway, so a long inter-section gap still yields two.
	sections := []Section{
		{Words: []Word{word("first", 0.0, 1.0, 1)}},
		{Words: []Word{word("second", 10.0, 11.0, 1)}},
	}

	got := Segment(sections, "en")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2", len(got))
	}
}

func TestSegment_SpeakerChangeThenGap(t *testing.T) {
	// A word can both open a new sentence (speaker change) and immediately
	// close it (gap); only one sentence results from that word.
	sections := []Section{{
		Words: []Word{
			word("a", 0.0, 1.0, 1),
			word("b", 1.0, 2.0, 2),
			word("c", 3.5, 4.0, 2),
		},
	}}

	got := Segment(sections, "en")
	if len(got) != 3 {
		t.Fatalf("got %d sentences, want 3", len(got))
	}
	if got[1].Text["en"] != "b" || got[1].Speaker != 2 {
		t.Errorf("sentence[1] = %+v, want single word 'b' by speaker 2", got[1])
	}
}

func TestSegment_NonOverlap(t *testing.T) {
	sections := []Section{{
		Words: []Word{
			word("a", 0.0, 0.4, 1),
			word("b", 0.5, 0.9, 2),
			word("c", 2.0, 2.4, 2),
			word("d", 2.5, 3.0, 1),
		},
	}}

	got := Segment(sections, "en")
	for i := 0; i+1 < len(got); i++ {
		if got[i].End > got[i+1].Start {
			t.Errorf("sentence[%d].End = %f overlaps sentence[%d].Start = %f",
				i, got[i].End, i+1, got[i+1].Start)
		}
	}
}

func TestSegment_AnnotatedReadingTokens(t *testing.T) {
	sections := []Section{{
		Words: []Word{
			word("東京|とうきょう", 0.0, 0.5, 1),
			word("です|です", 0.5, 1.0, 1),
		},
	}}

	got := Segment(sections, "ja")
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1", len(got))
	}
	if got[0].Text["ja"] != "東京 です" {
		t.Errorf("text = %q, want '東京 です'", got[0].Text["ja"])
	}
}

func TestSegment_PipeKeptForOtherLanguages(t *testing.T) {
	sections := []Section{{
		Words: []Word{word("a|b", 0.0, 0.5, 1)},
	}}

	got := Segment(sections, "en")
	if got[0].Text["en"] != "a|b" {
		t.Errorf("text = %q, want 'a|b'", got[0].Text["en"])
	}
}
