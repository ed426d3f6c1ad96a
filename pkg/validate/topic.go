package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTopic — имя топика не проходит правила Kafka.
var ErrInvalidTopic = errors.New("invalid topic")

// maxTopicLen — ограничение длины имени топика в Kafka.
const maxTopicLen = 249

// Topic — проверяет имя топика: непустое, не "." и "..", не длиннее 249 символов,
// только [a-zA-Z0-9._-].
func Topic(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidTopic)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidTopic, name)
	case len(name) > maxTopicLen:
		return fmt.Errorf("%w: %q is longer than %d", ErrInvalidTopic, name, maxTopicLen)
	}
	for _, r := range name {
		if !isTopicRune(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidTopic, name, r)
		}
	}
	return nil
}

// Topics — непустой список допустимых имён без дубликатов.
func Topics(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: topic list is empty", ErrInvalidTopic)
	}
	seen := make(map[string]struct{}, len(names))
	var errs []error
	for _, n := range names {
		if err := Topic(n); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[n]; dup {
			errs = append(errs, fmt.Errorf("%w: %q listed twice", ErrInvalidTopic, n))
		}
		seen[n] = struct{}{}
	}
	return errors.Join(errs...)
}

// SplitList — разбирает список через запятую: "a, b,,c" в ["a","b","c"] (топики, брокеры).
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTopicRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '.' || r == '_' || r == '-'
}
