package spam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testKeywords = []string{"賺錢", "兼職", "點擊", "免費", "優惠", "廣告", "推廣"}

func TestScoreSignals(t *testing.T) {
	s := NewScorer(testKeywords)

	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{
			name:    "clean content scores zero",
			content: "This is a perfectly normal comment.",
			want:    0,
		},
		{
			name:    "single keyword",
			content: "大家好，這裡可以免費下載喔",
			want:    0.2,
		},
		{
			name:    "keyword counted once per keyword not per occurrence",
			content: "免費！免費！免費！真的是免費的內容分享",
			want:    0.2,
		},
		{
			name:    "two distinct keywords",
			content: "點擊這裡領取免費的東西，內容很長夠十個字",
			want:    0.4,
		},
		{
			name:    "repeated alphanumeric run",
			content: "this is sooooo great honestly",
			want:    0.3,
		},
		{
			name:    "repeated run of digits",
			content: "call me at 111111 right now ok",
			want:    0.3,
		},
		{
			name:    "run of three does not trigger",
			content: "hmmm that is interesting indeed",
			want:    0,
		},
		{
			name:    "repeated punctuation is not an alphanumeric run",
			content: "wait a moment now ----------",
			want:    0,
		},
		{
			name:    "short content",
			content: "too short",
			want:    0.1,
		},
		{
			name:    "url",
			content: "have a look at https://example.com today",
			want:    0.3,
		},
		{
			name:    "plain http url",
			content: "have a look at http://example.com today",
			want:    0.3,
		},
		{
			name:    "heavy punctuation",
			content: "wow!!!!",
			// 4 of 7 runes are '!', plus the short-content signal.
			want: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.content), 1e-9)
		})
	}
}

func TestScoreLongContent(t *testing.T) {
	s := NewScorer(testKeywords)

	// 1001 runes, no other signal. The filler alternates so no run of
	// identical characters forms.
	content := strings.Repeat("ab", 500) + "c"
	assert.InDelta(t, 0.2, s.Score(content), 1e-9)

	// Exactly 1000 runes does not trigger the length signal.
	content = strings.Repeat("ab", 500)
	assert.InDelta(t, 0, s.Score(content), 1e-9)
}

func TestScoreLengthMeasuredInRunes(t *testing.T) {
	s := NewScorer(testKeywords)

	// Ten CJK characters: 30 bytes but 10 runes, so not "short".
	assert.InDelta(t, 0, s.Score("不哭不鬧真乖真乖真乖"), 1e-9)
}

func TestScoreCapsAtOne(t *testing.T) {
	s := NewScorer(testKeywords)

	// Two keywords + repeated run + URL + punctuation over 30%: sums past
	// 1.0 and is capped.
	content := "免費 點擊 aaaaaaa http://x.com !!!!!!!!!!!!!!!!!!!!"
	assert.Equal(t, 1.0, s.Score(content))
}

func TestScoreRangeProperty(t *testing.T) {
	s := NewScorer(testKeywords)

	contents := []string{
		"",
		"ok",
		"免費 賺錢 兼職 點擊 優惠 廣告 推廣 aaaa http://spam.example !!!!!!!!!!!!!!!!!!!!!!!!!!!!!!",
		strings.Repeat("免費!", 2000),
		"regular comment with nothing special about it at all",
	}
	for _, content := range contents {
		got := s.Score(content)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(testKeywords)

	content := "免費 免費 aaaaaaa http://x.com !!!!!!!!!!"
	first := s.Score(content)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Score(content))
	}
	// Keyword + run + URL; ten '!' in 37 runes stays under the 30%
	// punctuation gate, and the duplicate keyword counts once.
	assert.InDelta(t, 0.8, first, 1e-9)
}

func TestScoreKeywordsCaseInsensitive(t *testing.T) {
	s := NewScorer([]string{"VIAGRA"})

	assert.InDelta(t, 0.2, s.Score("cheap viagra available here"), 1e-9)
	assert.InDelta(t, 0.2, s.Score("CHEAP VIAGRA AVAILABLE HERE"), 1e-9)
}
