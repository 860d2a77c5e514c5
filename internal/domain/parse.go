package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyClock   = errors.New("empty time")
	ErrInvalidClock = errors.New("invalid time, expected HH:MM")
)

var clockRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock validates an "HH:MM" string and returns it zero-padded.
// Hour 0–23, minute 0–59; "9:05" normalizes to "09:05".
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyClock
	}
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidClock, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d:%02d", h, min), nil
}
