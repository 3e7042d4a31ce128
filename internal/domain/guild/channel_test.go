package guild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindChannel(t *testing.T) {
	channels := []Channel{
		{ID: "c0", Name: "Voice Lounge", Kind: ChannelKindVoice},
		{ID: "c1", Name: "General", Kind: ChannelKindText},
		{ID: "c2", Name: "general-chat", Kind: ChannelKindText},
		{ID: "c3", Name: "announcements", Kind: ChannelKindNews},
		{ID: "c4", Name: "Info", Kind: ChannelKindCategory},
	}

	tests := []struct {
		name   string
		ref    string
		wantID string
		found  bool
	}{
		{name: "by id", ref: "c2", wantID: "c2", found: true},
		{name: "case-insensitive substring", ref: "GENERAL", wantID: "c1", found: true},
		{name: "partial name", ref: "announce", wantID: "c3", found: true},
		{name: "hash prefix", ref: "#general-chat", wantID: "c2", found: true},
		{name: "voice channel not messageable", ref: "lounge", found: false},
		{name: "voice channel id not messageable", ref: "c0", found: false},
		{name: "category not messageable", ref: "info", found: false},
		{name: "empty ref", ref: "   ", found: false},
		{name: "no match", ref: "random", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := FindChannel(channels, tt.ref)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.wantID, c.ID)
			}
		})
	}
}

func TestMessageableChannels(t *testing.T) {
	got := MessageableChannels([]Channel{
		{ID: "a", Kind: ChannelKindText},
		{ID: "b", Kind: ChannelKindVoice},
		{ID: "c", Kind: ChannelKindNews},
	})
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
