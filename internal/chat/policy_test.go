package chat

import (
	"strings"
	"testing"
)

func TestShouldSearchWeb(t *testing.T) {
	longContext := strings.Repeat("x", 500)
	midContext := strings.Repeat("x", 200)

	tests := []struct {
		name    string
		message string
		context string
		want    bool
	}{
		{
			name:    "keyword rule fires before length rule",
			message: "find the official website",
			context: "",
			want:    true,
		},
		{
			name:    "keyword fires even with substantial context",
			message: "what is the latest firmware",
			context: longContext,
			want:    true,
		},
		{
			name:    "price keyword",
			message: "what does a replacement filter cost",
			context: longContext,
			want:    true,
		},
		{
			name:    "keyword match is case-insensitive",
			message: "Where To BUY a new belt",
			context: longContext,
			want:    true,
		},
		{
			name:    "empty context",
			message: "how do I drain the tank",
			context: "",
			want:    true,
		},
		{
			name:    "context below 100 chars",
			message: "how do I drain the tank",
			context: "short snippet",
			want:    true,
		},
		{
			name:    "whitespace-only context counts as empty",
			message: "how do I drain the tank",
			context: "   \n\t  ",
			want:    true,
		},
		{
			name:    "product code with thin context",
			message: "specs for the UR10e arm",
			context: midContext,
			want:    true,
		},
		{
			name:    "product code with substantial context",
			message: "specs for the UR10e arm",
			context: longContext,
			want:    false,
		},
		{
			name:    "model phrase with thin context",
			message: "installing model X200",
			context: midContext,
			want:    true,
		},
		{
			name:    "part number phrase with thin context",
			message: "what is the part number for the seal",
			context: midContext,
			want:    true,
		},
		{
			name:    "serial number phrase with thin context",
			message: "where is the Serial Number printed",
			context: midContext,
			want:    true,
		},
		{
			name:    "general question with good context",
			message: "general question",
			context: longContext,
			want:    false,
		},
		{
			name:    "general troubleshooting with mid context",
			message: "why does it keep shutting off",
			context: midContext,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldSearchWeb(tt.message, tt.context)
			if got != tt.want {
				t.Errorf("ShouldSearchWeb(%q, len %d) = %v, want %v", tt.message, len(tt.context), got, tt.want)
			}
			// Pure function: same inputs, same answer.
			if again := ShouldSearchWeb(tt.message, tt.context); again != got {
				t.Errorf("ShouldSearchWeb not deterministic: %v then %v", got, again)
			}
		})
	}
}
