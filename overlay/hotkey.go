package overlay

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Modifier is a bit set of keyboard modifiers.
type Modifier uint8

const (
	ModAlt Modifier = 1 << iota
	ModCtrl
	ModShift
	ModSuper
)

// Hotkey is a global key combination which shows the overlay. The overlay
// hides when Mod is released.
type Hotkey struct {
	Mod Modifier
	// Key is the uppercase character of the key.
	Key rune
}

// DefaultHotkey is Alt+R.
var DefaultHotkey = Hotkey{Mod: ModAlt, Key: 'R'}

var modNames = [...]struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
}

// ParseHotkey parses combinations such as "Alt+R" or "ctrl+shift+space".
// At least one modifier is required since releasing it hides the overlay.
func ParseHotkey(s string) (Hotkey, error) {
	var hk Hotkey
	parts := strings.Split(s, "+")
	if len(parts) < 2 {
		return hk, fmt.Errorf("hotkey %q requires a modifier and a key", s)
	}
	for _, part := range parts[:len(parts)-1] {
		mod, err := parseModifier(strings.TrimSpace(part))
		if err != nil {
			return hk, err
		}
		if hk.Mod&mod != 0 {
			return hk, fmt.Errorf("duplicate modifier %q in hotkey %q", part, s)
		}
		hk.Mod |= mod
	}
	key := strings.TrimSpace(parts[len(parts)-1])
	switch {
	case strings.EqualFold(key, "space"):
		hk.Key = ' '
	case utf8.RuneCountInString(key) == 1:
		hk.Key = unicode.ToUpper([]rune(key)[0])
		if !unicode.IsLetter(hk.Key) && !unicode.IsDigit(hk.Key) {
			return Hotkey{}, fmt.Errorf("unsupported hotkey key %q", key)
		}
	case key == "":
		return Hotkey{}, errors.New("empty hotkey key")
	default:
		return Hotkey{}, fmt.Errorf("unsupported hotkey key %q", key)
	}
	return hk, nil
}

func parseModifier(s string) (Modifier, error) {
	switch strings.ToLower(s) {
	case "alt", "option":
		return ModAlt, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "shift":
		return ModShift, nil
	case "super", "win", "cmd":
		return ModSuper, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

func (hk Hotkey) String() string {
	var sb strings.Builder
	for _, m := range modNames {
		if hk.Mod&m.mod != 0 {
			sb.WriteString(m.name)
			sb.WriteByte('+')
		}
	}
	if hk.Key == ' ' {
		sb.WriteString("Space")
	} else {
		sb.WriteRune(hk.Key)
	}
	return sb.String()
}

func (hk *Hotkey) UnmarshalText(text []byte) (err error) {
	*hk, err = ParseHotkey(string(text))
	return err
}

func (hk Hotkey) MarshalText() ([]byte, error) {
	return []byte(hk.String()), nil
}
