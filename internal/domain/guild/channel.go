package guild

import "strings"

// ChannelKind is the coarse type of a guild channel.
type ChannelKind int

const (
	ChannelKindText ChannelKind = iota
	ChannelKindNews
	ChannelKindVoice
	ChannelKindCategory
	ChannelKindOther
)

// Channel is a guild channel.
type Channel struct {
	ID   string
	Name string
	Kind ChannelKind
}

// Messageable reports whether plain messages can be posted to the channel.
func (c Channel) Messageable() bool {
	return c.Kind == ChannelKindText || c.Kind == ChannelKindNews
}

// FindChannel resolves a user-supplied channel reference. An exact id match wins;
// otherwise the first messageable channel whose name contains ref, compared
// case-insensitively, is returned. Leading '#' is ignored.
func FindChannel(channels []Channel, ref string) (Channel, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return Channel{}, false
	}

	for _, c := range channels {
		if c.ID == ref && c.Messageable() {
			return c, true
		}
	}

	needle := strings.ToLower(ref)
	for _, c := range channels {
		if c.Messageable() && strings.Contains(strings.ToLower(c.Name), needle) {
			return c, true
		}
	}
	return Channel{}, false
}

// MessageableChannels filters channels down to the ones a message can be sent to.
func MessageableChannels(channels []Channel) []Channel {
	out := make([]Channel, 0, len(channels))
	for _, c := range channels {
		if c.Messageable() {
			out = append(out, c)
		}
	}
	return out
}
