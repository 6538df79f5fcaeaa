package panel

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ButtonSeparator  = ":"
	ButtonLimitBytes = 64
)

// EncodeButton joins an action and its payload into a button id.
func EncodeButton(action, payload string) (string, error) {
	if action == "" {
		return "", errors.New("button action is empty")
	}

	id := action
	if payload != "" {
		id = action + ButtonSeparator + payload
	}

	if len(id) > ButtonLimitBytes {
		return "", fmt.Errorf("button id exceeds %d byte limit: got %d", ButtonLimitBytes, len(id))
	}

	return id, nil
}

// DecodeButton splits a button id at the first separator.
func DecodeButton(id string) (action, payload string, err error) {
	if id == "" {
		return "", "", errors.New("button id is empty")
	}
	if len(id) > ButtonLimitBytes {
		return "", "", fmt.Errorf("button id exceeds %d byte limit: got %d", ButtonLimitBytes, len(id))
	}

	idx := strings.Index(id, ButtonSeparator)
	if idx == -1 {
		return id, "", nil
	}

	return id[:idx], id[idx+len(ButtonSeparator):], nil
}
