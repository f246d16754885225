package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeOutOfBounds, "module %s does not fit", "server-2u")

	if err.Code != ErrCodeOutOfBounds {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOutOfBounds)
	}

	if err.Message != "module server-2u does not fit" {
		t.Errorf("Message = %v, want %v", err.Message, "module server-2u does not fit")
	}

	expected := "OUT_OF_BOUNDS: module server-2u does not fit"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidState, cause, "decode state")

	if err.Code != ErrCodeInvalidState {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidState)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_STATE: decode state: unexpected end of JSON input"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeSpaceOccupied, "test"),
			code:     ErrCodeSpaceOccupied,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeSpaceOccupied, "test"),
			code:     ErrCodeOutOfBounds,
			expected: false,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("place: %w", New(ErrCodeMisalignedPlacement, "inner")),
			code:     ErrCodeMisalignedPlacement,
			expected: true,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInvalidState, New(ErrCodeInvalidHeight, "inner"), "outer"),
			code:     ErrCodeInvalidState,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidHeight, "test"), ErrCodeInvalidHeight},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	err := New(ErrCodeDestructiveResizeDeclined, "resize declined").WithDetails("server-1u-aa", "vent-1u-bb")

	got := GetDetails(fmt.Errorf("resize: %w", err))
	if len(got) != 2 || got[0] != "server-1u-aa" || got[1] != "vent-1u-bb" {
		t.Errorf("GetDetails() = %v, want [server-1u-aa vent-1u-bb]", got)
	}

	if GetDetails(errors.New("plain")) != nil {
		t.Error("GetDetails(plain) should be nil")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeSpaceOccupied, "space is occupied"), "space is occupied"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		code      Code
		placement bool
		declined  bool
	}{
		{ErrCodeMisalignedPlacement, true, false},
		{ErrCodeOutOfBounds, true, false},
		{ErrCodeSpaceOccupied, true, false},
		{ErrCodeDestructiveResizeDeclined, false, true},
		{ErrCodeClearDeclined, false, true},
		{ErrCodeInvalidHeight, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsPlacement(err); got != tt.placement {
				t.Errorf("IsPlacement() = %v, want %v", got, tt.placement)
			}
			if got := IsDeclined(err); got != tt.declined {
				t.Errorf("IsDeclined() = %v, want %v", got, tt.declined)
			}
		})
	}
}
