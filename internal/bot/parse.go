package bot

import (
	"fmt"
	"strconv"
	"strings"

	"coalition_site/internal/countdown"
	"coalition_site/internal/lists"
)

// CountdownArgs holds the parsed arguments of /countdown: either an event
// UID or an offset from now with an optional label.
type CountdownArgs struct {
	UID    string
	Offset countdown.Offset
	Label  string
}

// ParseCountdownArgs parses arguments for /countdown.
// Format: <event_uid> | <days> <hours> <minutes> <seconds> [label...]
func ParseCountdownArgs(args string) (CountdownArgs, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return CountdownArgs{}, fmt.Errorf("usage: /countdown <event_uid> or /countdown <days> <hours> <minutes> <seconds> [label]")
	}

	if _, err := strconv.Atoi(parts[0]); err != nil {
		if len(parts) > 1 {
			return CountdownArgs{}, fmt.Errorf("usage: /countdown <event_uid>")
		}
		return CountdownArgs{UID: parts[0]}, nil
	}

	if len(parts) < 4 {
		return CountdownArgs{}, fmt.Errorf("usage: /countdown <days> <hours> <minutes> <seconds> [label]")
	}
	var vals [4]int
	for i := range vals {
		v, err := strconv.Atoi(parts[i])
		if err != nil || v < 0 {
			return CountdownArgs{}, fmt.Errorf("invalid value %q, use whole non-negative numbers", parts[i])
		}
		vals[i] = v
	}
	off := countdown.Offset{Days: vals[0], Hours: vals[1], Minutes: vals[2], Seconds: vals[3]}
	if err := off.Validate(); err != nil {
		return CountdownArgs{}, err
	}
	if off.Duration() <= 0 {
		return CountdownArgs{}, fmt.Errorf("countdown must be longer than zero seconds")
	}
	return CountdownArgs{Offset: off, Label: strings.Join(parts[4:], " ")}, nil
}

// ParseShowArgs extracts a list name and a UID.
func ParseShowArgs(args string) (string, string, error) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("usage: /show <list> <uid>")
	}
	if _, ok := lists.ByName(parts[0]); !ok {
		return "", "", fmt.Errorf("unknown list %q, use: events, news, programs, coalition", parts[0])
	}
	return parts[0], parts[1], nil
}

// ParseIDArg extracts a numeric ID from a command argument string.
func ParseIDArg(args string) (int64, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("countdown ID is required")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.Fields(s)[0], "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid countdown ID %q", s)
	}
	return id, nil
}

// ParseCallback decodes the data of a list keyboard button.
// "noop" and malformed data report false.
func ParseCallback(data string) (lists.Action, bool) {
	kind, arg, _ := strings.Cut(data, ":")
	switch kind {
	case "f":
		if arg == "" {
			return lists.Action{}, false
		}
		return lists.Action{Type: lists.ActionFilter, ID: arg}, true
	case "s":
		if arg == "" {
			return lists.Action{}, false
		}
		return lists.Action{Type: lists.ActionSort, ID: arg}, true
	case "n":
		return lists.Action{Type: lists.ActionNext}, true
	case "p":
		return lists.Action{Type: lists.ActionPrev}, true
	case "j":
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 {
			return lists.Action{}, false
		}
		return lists.Action{Type: lists.ActionJump, Index: i}, true
	}
	return lists.Action{}, false
}
