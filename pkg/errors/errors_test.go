package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateNode, "duplicate node id: %s", "a")

	if err.Code != ErrCodeDuplicateNode {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeDuplicateNode)
	}
	if got := err.Error(); !strings.Contains(got, "duplicate node id: a") {
		t.Errorf("Error() = %q, missing message", got)
	}
	if !strings.Contains(err.Error(), string(ErrCodeDuplicateNode)) {
		t.Errorf("Error() = %q, missing code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeExpandFailed, cause, "expand %s", "node-1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); !strings.Contains(got, "connection refused") {
		t.Errorf("Error() = %q, missing cause", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeNodeNotFound, "missing"), ErrCodeNodeNotFound, true},
		{"Mismatch", New(ErrCodeNodeNotFound, "missing"), ErrCodeCorruptState, false},
		{"Wrapped", fmt.Errorf("outer: %w", New(ErrCodeLayoutFailed, "dot")), ErrCodeLayoutFailed, true},
		{"Plain", fmt.Errorf("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeExpandFailed, "x")); got != ErrCodeExpandFailed {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeExpandFailed)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad cap: %d", -1)
	if got := UserMessage(err); got != "bad cap: -1" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeDuplicateNode, true},
		{ErrCodeExpandFailed, true},
		{ErrCodeLayoutFailed, true},
		{ErrCodeNodeNotFound, false},
		{ErrCodeCorruptState, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Recoverable(New(tt.code, "x")); got != tt.want {
				t.Errorf("Recoverable(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "dept-engineering", false},
		{"ValidUnicode", "ノード", false},
		{"Empty", "", true},
		{"Control", "a\tb", true},
		{"NullByte", "a\x00b", true},
		{"TooLong", strings.Repeat("x", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidNodeID) {
				t.Errorf("error code = %s, want %s", GetCode(err), ErrCodeInvalidNodeID)
			}
		})
	}
}
