package music

import (
	"reflect"
	"testing"
)

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "mixed separators with full-width comma",
			input: "周杰伦， 费玉清 / 群星",
			want:  []string{"周杰伦", "费玉清", "群星"},
		},
		{
			name:  "semicolons and commas",
			input: "a; b, c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "duplicates removed",
			input: "Beyond/Beyond, Beyond",
			want:  []string{"Beyond"},
		},
		{
			name:  "single artist",
			input: "Beyond",
			want:  []string{"Beyond"},
		},
		{
			name:  "empty string",
			input: "   ",
			want:  nil,
		},
		{
			name:  "separators only",
			input: "//,;，",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArtists(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArtists(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrackArtistString(t *testing.T) {
	track := &Track{Artists: []string{"刘欢", "那英"}}
	if got := track.ArtistString(); got != "刘欢/那英" {
		t.Errorf("ArtistString() = %q, want %q", got, "刘欢/那英")
	}
}

func TestTrackYear(t *testing.T) {
	track := &Track{PublishDate: "2011-05-15"}
	if got := track.Year(); got != "2011" {
		t.Errorf("Year() = %q, want 2011", got)
	}
	track = &Track{PublishDate: ""}
	if got := track.Year(); got != "" {
		t.Errorf("Year() on empty date = %q, want empty", got)
	}
}

func TestTimestampToDate(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{"13-digit millisecond timestamp", 1305432000000, "2011-05-15"},
		{"11-digit timestamp padded", 13054320000, "2011-05-15"},
		{"too short", 1305388800, ""},
		{"zero", 0, ""},
		{"negative", -5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimestampToDate(tt.ts); got != tt.want {
				t.Errorf("TimestampToDate(%d) = %q, want %q", tt.ts, got, tt.want)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0B"},
		{512, "512.00B"},
		{1024, "1.00KB"},
		{5 * 1024 * 1024, "5.00MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
