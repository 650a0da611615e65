// Package queue defines the command and result documents exchanged through
// the relay, and the collection names they live under. Documents are YAML;
// the filename is the correlation key between a command and its result.
package queue

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Collection names on the relay.
const (
	CollectionCommand = "command"
	CollectionResult  = "result"
)

// DocumentSuffix is the only filename suffix the relay lists.
const DocumentSuffix = ".yaml"

// Action verbs form a closed enum. Unknown verbs are rejected by the
// dispatcher with a failure result, never an error.
const (
	ActionInstallPackage   = "installPackage"
	ActionUninstallPackage = "uninstallPackage"
	ActionCreateFile       = "createFile"
	ActionDeleteFile       = "deleteFile"
	ActionUpdateFile       = "updateFile"
	ActionReadFile         = "readFile"
	ActionExecuteFile      = "executeFile"
	ActionListExecutorTree = "listExecutorTree"
)

// KnownActions returns the closed action enum in registration order.
func KnownActions() []string {
	return []string{
		ActionInstallPackage,
		ActionUninstallPackage,
		ActionCreateFile,
		ActionDeleteFile,
		ActionUpdateFile,
		ActionReadFile,
		ActionExecuteFile,
		ActionListExecutorTree,
	}
}

// ErrUndecodable marks a command document that cannot be parsed at all.
// The dispatcher deletes such commands without producing a result.
var ErrUndecodable = errors.New("undecodable command document")

// Command is a unit of remote work. Action is required; the remaining
// fields are per-action parameters and validated by each handler.
type Command struct {
	Action  string `yaml:"action"`
	Package string `yaml:"package,omitempty"`
	File    string `yaml:"file,omitempty"`
	Content string `yaml:"content,omitempty"`
	Range   string `yaml:"range,omitempty"`
	Args    string `yaml:"args,omitempty"`
}

// Result reports the outcome of one command. Success is always present;
// the other fields depend on the action.
type Result struct {
	Success   bool     `yaml:"success"`
	Message   string   `yaml:"message,omitempty"`
	Content   string   `yaml:"content,omitempty"`
	Error     string   `yaml:"error,omitempty"`
	Stdout    string   `yaml:"stdout,omitempty"`
	Stderr    string   `yaml:"stderr,omitempty"`
	Files     []string `yaml:"files,omitempty"`
	Truncated bool     `yaml:"truncated,omitempty"`
}

// DecodeCommand parses a raw command document. A document that is not valid
// YAML, or decodes to nothing, returns ErrUndecodable. A valid document with
// no action field decodes successfully with Action == "" so the dispatcher
// can report the missing field instead of discarding the command.
func DecodeCommand(data []byte) (*Command, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUndecodable)
	}

	var cmd Command
	if err := yaml.Unmarshal(data, &cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return &cmd, nil
}

// EncodeResult serializes a result document for the relay.
func EncodeResult(r *Result) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

// DecodeResult parses a result document. Used by operator tooling reading
// the result collection back.
func DecodeResult(data []byte) (*Result, error) {
	var r Result
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &r, nil
}

// EncodeCommand serializes a command document for submission.
func EncodeCommand(c *Command) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}
	return data, nil
}
