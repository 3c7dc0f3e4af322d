package dates

import "strings"

// fixedWidthMarker prefixes the YYYYMMDDHHMMSS timestamp encoding used by PDF
// producers and copied verbatim into some posting pages.
const fixedWidthMarker = "D:"

// NormalizeDate rewrites "D:YYYYMMDDHHMMSS[+HH'MM']" into "YYYY-MM-DDTHH:MM:SS[+HH:MM]".
// Anything else, including short or non-numeric payloads, is returned unchanged.
// A missing or malformed timezone is dropped.
func NormalizeDate(raw string) string {
	if !strings.HasPrefix(raw, fixedWidthMarker) {
		return raw
	}

	body := strings.ReplaceAll(raw[len(fixedWidthMarker):], "'", "")
	if len(body) < 14 || !allDigits(body[:14]) {
		return raw
	}

	var sb strings.Builder
	sb.Grow(25)
	sb.WriteString(body[0:4])
	sb.WriteByte('-')
	sb.WriteString(body[4:6])
	sb.WriteByte('-')
	sb.WriteString(body[6:8])
	sb.WriteByte('T')
	sb.WriteString(body[8:10])
	sb.WriteByte(':')
	sb.WriteString(body[10:12])
	sb.WriteByte(':')
	sb.WriteString(body[12:14])

	tz := body[14:]
	if len(tz) >= 5 && (tz[0] == '+' || tz[0] == '-') && allDigits(tz[1:5]) {
		sb.WriteByte(tz[0])
		sb.WriteString(tz[1:3])
		sb.WriteByte(':')
		sb.WriteString(tz[3:5])
	}

	return sb.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
