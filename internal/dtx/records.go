package dtx

import (
	"bufio"
	"strings"
)

// eventLine is one "#BBBCC: value" record.
type eventLine struct {
	bar   int
	lane  string
	value string
}

// document is the line-record view of a chart file. Records are read once in
// file order; every later stage works from these slices.
type document struct {
	headers map[string]string
	labels  map[string]string // #BPMxx tempo labels
	events  []eventLine
}

func readDocument(text string) *document {
	doc := &document{
		headers: make(map[string]string),
		labels:  make(map[string]string),
	}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) < 2 || line[0] != '#' {
			continue
		}
		key, value := splitRecord(line[1:])
		if key == "" {
			continue
		}
		if bar, lane, ok := parseEventKey(key); ok {
			value = strings.ReplaceAll(firstField(stripComment(value)), "_", "")
			doc.events = append(doc.events, eventLine{bar: bar, lane: lane, value: value})
			continue
		}
		upper := strings.ToUpper(key)
		if len(upper) == 5 && strings.HasPrefix(upper, "BPM") {
			label := upper[3:]
			if _, seen := doc.labels[label]; !seen {
				doc.labels[label] = firstField(stripComment(value))
			}
			continue
		}
		if _, seen := doc.headers[upper]; !seen {
			doc.headers[upper] = value
		}
	}
	return doc
}

// splitRecord splits "KEY: value" or "KEY value". Header values keep the
// rest of the line, ";" included.
func splitRecord(s string) (string, string) {
	end := strings.IndexAny(s, ": \t")
	if end < 0 {
		return s, ""
	}
	key := s[:end]
	value := s[end:]
	if value[0] == ':' {
		value = value[1:]
	}
	return key, strings.TrimSpace(value)
}

// stripComment drops a trailing ";" comment from an event or label value.
func stripComment(value string) string {
	if i := strings.IndexByte(value, ';'); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// parseEventKey recognises BBBCC keys. The first bar character is a base-36
// hundreds digit so A05 is bar 1005.
func parseEventKey(key string) (int, string, bool) {
	if len(key) != 5 {
		return 0, "", false
	}
	hundreds := base36(key[0])
	if hundreds < 0 || !isDigit(key[1]) || !isDigit(key[2]) {
		return 0, "", false
	}
	lane := normalizeCode(key[3:])
	if base36(lane[0]) < 0 || base36(lane[1]) < 0 {
		return 0, "", false
	}
	bar := hundreds*100 + int(key[1]-'0')*10 + int(key[2]-'0')
	return bar, lane, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func base36(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	}
	return -1
}

// token is one non-empty two-character chunk of an event value.
type token struct {
	line float64
	code string
}

// decodeTokens splits value into two-character chunks spread evenly over
// lineCount lines. "00" chunks are rests.
func decodeTokens(value string, lineCount float64) []token {
	n := (len(value) + 1) / 2
	if n == 0 {
		return nil
	}
	var out []token
	for i := 0; i < n; i++ {
		end := 2*i + 2
		if end > len(value) {
			end = len(value)
		}
		chunk := strings.ToUpper(value[2*i : end])
		if chunk == "00" {
			continue
		}
		out = append(out, token{line: float64(i) * lineCount / float64(n), code: chunk})
	}
	return out
}
