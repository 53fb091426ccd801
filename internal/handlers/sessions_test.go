package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"counselhub/internal/models"
)

func TestTranscriptPreview(t *testing.T) {
	tests := []struct {
		name       string
		transcript []models.TranscriptMessage
		want       string
	}{
		{
			name:       "empty transcript",
			transcript: nil,
			want:       "",
		},
		{
			name: "short first message",
			transcript: []models.TranscriptMessage{
				{Speaker: models.SpeakerUser, Text: "Hello there"},
				{Speaker: models.SpeakerBot, Text: "Hi"},
			},
			want: "Hello there",
		},
		{
			name: "long first message is truncated",
			transcript: []models.TranscriptMessage{
				{Speaker: models.SpeakerUser, Text: strings.Repeat("a", 150)},
			},
			want: strings.Repeat("a", 100) + "...",
		},
		{
			// 100 bytes lands mid-character for a 3-byte rune, so the cut
			// backs off to 99 bytes.
			name: "truncation keeps multi-byte characters intact",
			transcript: []models.TranscriptMessage{
				{Speaker: models.SpeakerUser, Text: strings.Repeat("日", 40)},
			},
			want: strings.Repeat("日", 33) + "...",
		},
		{
			name: "exactly at the limit is untouched",
			transcript: []models.TranscriptMessage{
				{Speaker: models.SpeakerUser, Text: strings.Repeat("b", 100)},
			},
			want: strings.Repeat("b", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transcriptPreview(tt.transcript)
			if got != tt.want {
				t.Errorf("transcriptPreview() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("transcriptPreview() produced invalid UTF-8: %q", got)
			}
		})
	}
}
