package loader

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text into pieces of at most Size characters, preferring
// paragraph, then line, then word boundaries. Consecutive pieces produced
// from one run of text share up to Overlap characters.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, errors.New("chunk size must be > 0")
	}
	if overlap < 0 || overlap >= size {
		return nil, errors.New("chunk overlap must be >= 0 and < chunk size")
	}

	return &Splitter{
		size:       size,
		overlap:    overlap,
		separators: defaultSeparators,
	}, nil
}

// SplitText returns the non-empty, whitespace-trimmed pieces of text in order.
func (s *Splitter) SplitText(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
	} else {
		pieces = strings.Split(text, sep)
	}

	var out, fitting []string
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if runeLen(p) < s.size {
			fitting = append(fitting, p)
			continue
		}

		if len(fitting) > 0 {
			out = append(out, s.merge(fitting, sep)...)
			fitting = nil
		}
		if len(rest) == 0 {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		} else {
			out = append(out, s.split(p, rest)...)
		}
	}
	if len(fitting) > 0 {
		out = append(out, s.merge(fitting, sep)...)
	}

	return out
}

// merge joins small pieces back together up to the size limit, carrying the
// tail of each emitted chunk into the next one as overlap.
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := runeLen(sep)
	joinCost := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	var out, current []string
	total := 0
	for _, p := range pieces {
		l := runeLen(p)
		if len(current) > 0 && total+l+joinCost(len(current)) > s.size {
			if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
				out = append(out, chunk)
			}
			for len(current) > 0 && (total > s.overlap || total+l+joinCost(len(current)) > s.size) {
				total -= runeLen(current[0]) + joinCost(len(current)-1)
				current = current[1:]
			}
		}
		total += l + joinCost(len(current))
		current = append(current, p)
	}

	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		out = append(out, chunk)
	}

	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
