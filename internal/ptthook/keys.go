package ptthook

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// vkNames maps key names to Windows virtual-key codes.
var vkNames = map[string]int32{
	"BACKSPACE":  0x08,
	"TAB":        0x09,
	"RETURN":     0x0D,
	"PAUSE":      0x13,
	"CAPSLOCK":   0x14,
	"ESCAPE":     0x1B,
	"SPACE":      0x20,
	"PAGEUP":     0x21,
	"PAGEDOWN":   0x22,
	"END":        0x23,
	"HOME":       0x24,
	"LEFT":       0x25,
	"UP":         0x26,
	"RIGHT":      0x27,
	"DOWN":       0x28,
	"INSERT":     0x2D,
	"DELETE":     0x2E,
	"LWIN":       0x5B,
	"RWIN":       0x5C,
	"NUMPAD0":    0x60,
	"NUMPAD1":    0x61,
	"NUMPAD2":    0x62,
	"NUMPAD3":    0x63,
	"NUMPAD4":    0x64,
	"NUMPAD5":    0x65,
	"NUMPAD6":    0x66,
	"NUMPAD7":    0x67,
	"NUMPAD8":    0x68,
	"NUMPAD9":    0x69,
	"NUMLOCK":    0x90,
	"SCROLLLOCK": 0x91,
	"LSHIFT":     0xA0,
	"RSHIFT":     0xA1,
	"LCTRL":      0xA2,
	"RCTRL":      0xA3,
	"LALT":       0xA4,
	"RALT":       0xA5,
	"GRAVE":      0xC0,
}

// aliases accepts common alternative spellings.
var aliases = map[string]string{
	"ENTER":       "RETURN",
	"ESC":         "ESCAPE",
	"BACKQUOTE":   "GRAVE",
	"TILDE":       "GRAVE",
	"LEFTCTRL":    "LCTRL",
	"RIGHTCTRL":   "RCTRL",
	"LEFTSHIFT":   "LSHIFT",
	"RIGHTSHIFT":  "RSHIFT",
	"LEFTALT":     "LALT",
	"RIGHTALT":    "RALT",
	"LCONTROL":    "LCTRL",
	"RCONTROL":    "RCTRL",
	"LMENU":       "LALT",
	"RMENU":       "RALT",
	"CAPS":        "CAPSLOCK",
	"CAPITAL":     "CAPSLOCK",
	"SCROLL":      "SCROLLLOCK",
	"SCROLL_LOCK": "SCROLLLOCK",
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		vkNames[string(c)] = int32(c)
	}
	for c := '0'; c <= '9'; c++ {
		vkNames[string(c)] = int32(c)
	}
	for i := int32(1); i <= 24; i++ {
		vkNames["F"+strconv.Itoa(int(i))] = 0x70 + i - 1
	}
}

// ParseKey resolves a key name ("SPACE", "F13", "RCTRL", "KEY_F12") or a
// numeric virtual-key literal ("0x20", "32") to a virtual-key code.
func ParseKey(name string) (int32, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if s == "" {
		return 0, fmt.Errorf("empty key name")
	}
	s = strings.TrimPrefix(s, "VK_")
	s = strings.TrimPrefix(s, "KEY_")

	if n, err := strconv.ParseInt(s, 0, 32); err == nil && (strings.HasPrefix(s, "0X") || len(s) > 1) {
		if n <= 0 || n > 0xFE {
			return 0, fmt.Errorf("virtual-key code out of range: %s", name)
		}
		return int32(n), nil
	}

	if a, ok := aliases[s]; ok {
		s = a
	}
	code, ok := vkNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown key: %s", name)
	}
	return code, nil
}

// KeyName returns the canonical name of a virtual-key code, or its hex
// literal when it has none.
func KeyName(code int32) string {
	if code <= Disabled {
		return "disabled"
	}
	for name, c := range vkNames {
		if c == code {
			return name
		}
	}
	return fmt.Sprintf("0x%02X", code)
}

// KeyNames returns every canonical key name, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(vkNames))
	for name := range vkNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
