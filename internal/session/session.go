// Package session reads the hook's input document and propagates the session
// id to the host's environment file.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

const (
	// EnvKey is the variable carrying the session id to child processes
	EnvKey = "IE_SESSION_ID"

	maxInputSize = 1 << 20
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Input is the JSON document the host writes to the hook's stdin
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Cwd            string `json:"cwd,omitempty"`
	HookEventName  string `json:"hook_event_name,omitempty"`
	Source         string `json:"source,omitempty"`
}

// ParseInput decodes the hook input. Empty, oversized or malformed input
// yields a zero Input.
func ParseInput(r io.Reader) Input {
	var in Input
	if r == nil {
		return in
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputSize))
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return in
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}
	}
	in.SessionID = strings.TrimSpace(in.SessionID)
	return in
}

// ValidID reports whether the input carries a usable session id
func (in Input) ValidID() bool {
	return ValidSessionID(in.SessionID)
}

// ValidSessionID reports whether id is safe to embed in a shell export line
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// AppendEnv appends an export line for key to the env file at path,
// creating it if needed
func AppendEnv(path, key, value string) error {
	if path == "" {
		return fmt.Errorf("env file path is empty")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open env file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "export %s=%q\n", key, value); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close env file: %w", err)
	}
	return nil
}
