// Package chat turns prefixed guild chat messages into listing commands.
package chat

import "strings"

// DefaultPrefix marks a chat line as a command.
const DefaultPrefix = "."

// Message is a guild chat message as delivered by the gateway.
type Message struct {
	GuildID    string
	ChannelID  string
	AuthorID   string
	AuthorName string
	AuthorBot  bool
	Content    string
}

// Command is a parsed chat command.
type Command struct {
	Name string
	Args []string
}

// Parse strips prefix from line and splits the rest on whitespace runs. The
// command name is lowercased. Lines without the prefix, or with nothing after
// it, are not commands.
func Parse(prefix, line string) (Command, bool) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return Command{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}
