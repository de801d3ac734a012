package extract_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/ielts-speaking/backend/internal/extract"
)

func bandContract(band string) extract.Contract {
	return extract.Contract{
		Sections: []extract.Section{
			{Key: "band" + band, Label: "Band " + band + " Answer"},
			{Key: "comment" + band, Label: "Band " + band + " Comment"},
		},
		VocabKey: "vocab" + band,
	}
}

func TestExtract_SingleBandReply(t *testing.T) {
	raw := "Band 6 Answer:\nI went to...\n\nBand 6 Comment:\nGood fluency.\n\nVocabulary Highlights:\n1. scenic\n..."

	got := bandContract("6").Extract(raw)
	want := map[string]string{
		"band6":    "I went to...",
		"comment6": "Good fluency.",
		"vocab6":   "1. scenic\n...",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestExtract_TrimsAnswer(t *testing.T) {
	raw := "Band 5 Answer:\n   I like reading books at night.   \nBand 5 Comment: ok"

	got := bandContract("5").Extract(raw)
	if got["band5"] != "I like reading books at night." {
		t.Errorf("unexpected answer %q", got["band5"])
	}
	if got["comment5"] != "ok" {
		t.Errorf("unexpected comment %q", got["comment5"])
	}
}

func TestExtract_MissingLabelIsEmpty(t *testing.T) {
	got := bandContract("7").Extract("The model ignored the format entirely.")

	for _, key := range []string{"band7", "comment7", "vocab7"} {
		v, ok := got[key]
		if !ok {
			t.Errorf("expected key %q to be present", key)
		}
		if v != "" {
			t.Errorf("expected empty %q, got %q", key, v)
		}
	}
}

func TestExtract_EmptyReply(t *testing.T) {
	got := bandContract("5").Extract("")
	if len(got) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(got))
	}
}

func TestExtract_FullWidthColon(t *testing.T) {
	got := bandContract("6").Extract("Band 6 Answer：我 think so.\nBand 6 Comment：fine")
	if got["band6"] != "我 think so." {
		t.Errorf("unexpected answer %q", got["band6"])
	}
	if got["comment6"] != "fine" {
		t.Errorf("unexpected comment %q", got["comment6"])
	}
}

func TestExtract_NoColon(t *testing.T) {
	got := bandContract("5").Extract("Band 5 Answer yes I do\nBand 5 Comment short")
	if got["band5"] != "yes I do" {
		t.Errorf("unexpected answer %q", got["band5"])
	}
}

func TestExtract_TrailingSectionRunsToEnd(t *testing.T) {
	raw := "Band 7 Answer:\nA long answer.\n\nBand 7 Comment:\nstrong range\nof vocabulary"

	got := bandContract("7").Extract(raw)
	if got["comment7"] != "strong range\nof vocabulary" {
		t.Errorf("unexpected comment %q", got["comment7"])
	}
	if got["vocab7"] != "" {
		t.Errorf("expected no vocab, got %q", got["vocab7"])
	}
}

func TestExtract_OutOfOrderSections(t *testing.T) {
	raw := "Band 5 Comment:\nHesitant.\nBand 5 Answer:\nI am student."

	got := bandContract("5").Extract(raw)
	if got["band5"] != "I am student." {
		t.Errorf("unexpected answer %q", got["band5"])
	}
	if got["comment5"] != "Hesitant." {
		t.Errorf("unexpected comment %q", got["comment5"])
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	raw := "Band 5 Answer:\nfirst\nBand 5 Answer:\nsecond"

	got := bandContract("5").Extract(raw)
	if got["band5"] != "first" {
		t.Errorf("expected first occurrence, got %q", got["band5"])
	}
}

func TestExtract_StopsAtVocabularyMarkerOnSameLine(t *testing.T) {
	raw := "Band 6 Comment: decent Vocabulary Highlights: 1. vivid"

	got := bandContract("6").Extract(raw)
	if got["comment6"] != "decent" {
		t.Errorf("unexpected comment %q", got["comment6"])
	}
	if got["vocab6"] != "1. vivid" {
		t.Errorf("unexpected vocab %q", got["vocab6"])
	}
}

func TestExtract_Idempotent(t *testing.T) {
	raw := "Band 6 Answer:\nx\nBand 6 Comment:\ny\nVocabulary Highlights:\nz"
	c := bandContract("6")

	first := c.Extract(raw)
	second := c.Extract(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output, got %#v and %#v", first, second)
	}
}

func TestExtract_CustomBoundaryAndFullText(t *testing.T) {
	c := extract.Contract{
		Sections:    []extract.Section{{Key: "answer", Label: "Answer"}},
		Boundary:    regexp.MustCompile(`\n---`),
		FullTextKey: "fullText",
	}
	raw := "  Answer:\nLine one\nLine Two\n---\nNotes  "

	got := c.Extract(raw)
	if got["answer"] != "Line one\nLine Two" {
		t.Errorf("unexpected answer %q", got["answer"])
	}
	if got["fullText"] != "Answer:\nLine one\nLine Two\n---\nNotes" {
		t.Errorf("unexpected full text %q", got["fullText"])
	}
}

func TestExtract_LabelIsLiteral(t *testing.T) {
	c := extract.Contract{
		Sections: []extract.Section{{Key: "k", Label: "Band (5) Answer"}},
	}
	got := c.Extract("Band (5) Answer: literal")
	if got["k"] != "literal" {
		t.Errorf("unexpected value %q", got["k"])
	}
}

func TestContract_Keys(t *testing.T) {
	keys := bandContract("5").Keys()
	want := []string{"band5", "comment5", "vocab5"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}
}
