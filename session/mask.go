package session

import "strings"

const maxUnmaskedPrefix = 20

// MaskIP redacts a source address for display. IPv4 keeps the first two
// octets and stars the rest; anything else (IPv6, hostnames) is truncated
// with a trailing ellipsis.
func MaskIP(ip string) string {
	if ip == "" {
		return "unknown"
	}

	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		runes := []rune(ip)
		if len(runes) > maxUnmaskedPrefix {
			runes = runes[:maxUnmaskedPrefix]
		}
		return string(runes) + "..."
	}
	return parts[0] + "." + parts[1] + ".***.***"
}
