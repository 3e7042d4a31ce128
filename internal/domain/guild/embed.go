package guild

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EmbedField is one name/value row of a decorated message.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a decorated message.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

// Discord rejects content longer than these, counted in characters.
const (
	MaxMessageLength     = 2000
	MaxDescriptionLength = 4096
	MaxFieldValueLength  = 1024
)

// TooLong reports whether s has more than limit characters.
func TooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

// DefaultColor is used when no color is supplied (BLACK).
const DefaultColor = 0x000000

// ErrInvalidColor is returned by ParseColor for unrecognized input.
var ErrInvalidColor = errors.New("invalid color")

var namedColors = map[string]int{
	"BLACK":               0x000000,
	"DEFAULT":             0x000000,
	"WHITE":               0xffffff,
	"AQUA":                0x1abc9c,
	"GREEN":               0x57f287,
	"BLUE":                0x3498db,
	"YELLOW":              0xfee75c,
	"PURPLE":              0x9b59b6,
	"LUMINOUS_VIVID_PINK": 0xe91e63,
	"FUCHSIA":             0xeb459e,
	"GOLD":                0xf1c40f,
	"ORANGE":              0xe67e22,
	"RED":                 0xed4245,
	"GREY":                0x95a5a6,
	"NAVY":                0x34495e,
	"DARK_AQUA":           0x11806a,
	"DARK_GREEN":          0x1f8b4c,
	"DARK_BLUE":           0x206694,
	"DARK_PURPLE":         0x71368a,
	"DARK_GOLD":           0xc27c0e,
	"DARK_ORANGE":         0xa84300,
	"DARK_RED":            0x992d22,
	"DARK_GREY":           0x979c9f,
	"LIGHT_GREY":          0xbcc0c0,
	"BLURPLE":             0x5865f2,
}

// ParseColor accepts "#rrggbb", "0xrrggbb", "rrggbb", a decimal integer or a
// named color such as "RED" or "dark blue". Empty input yields DefaultColor.
func ParseColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultColor, nil
	}

	name := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}

	var (
		v   int64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		v, err = parseHex(s[1:])
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		v, err = parseHex(s[2:])
	case len(s) == 6:
		v, err = parseHex(s)
		if err != nil {
			v, err = strconv.ParseInt(s, 10, 32)
		}
	default:
		v, err = strconv.ParseInt(s, 10, 32)
	}
	if err != nil || v < 0 || v > 0xffffff {
		return 0, ErrInvalidColor
	}
	return int(v), nil
}

func parseHex(s string) (int64, error) {
	if len(s) != 6 {
		return 0, ErrInvalidColor
	}
	return strconv.ParseInt(s, 16, 32)
}
