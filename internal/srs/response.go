package srs

import (
	"fmt"
	"strings"
)

// Response is how well the user recalled the expected move.
type Response int

const (
	Forgot  Response = iota + 1 // Could not produce the move.
	Partial                     // Produced it after a wrong try or a hint.
	Effort                      // Correct, with effort.
	Easy                        // Correct, immediately.
)

var responseNames = [...]string{Forgot: "forgot", Partial: "partial", Effort: "effort", Easy: "easy"}

// Responses lists every valid response in increasing recall quality.
var Responses = []Response{Forgot, Partial, Effort, Easy}

// IsValid reports whether r is one of the four responses.
func (r Response) IsValid() bool {
	return r >= Forgot && r <= Easy
}

func (r Response) String() string {
	if r.IsValid() {
		return responseNames[r]
	}
	return fmt.Sprintf("Response(%d)", int(r))
}

// ParseResponse accepts the response names in any case. The numeric grades
// 0-3 used by older clients map to forgot..easy.
func ParseResponse(s string) (Response, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Responses {
		if responseNames[r] == s {
			return r, nil
		}
	}
	switch s {
	case "0":
		return Forgot, nil
	case "1":
		return Partial, nil
	case "2":
		return Effort, nil
	case "3":
		return Easy, nil
	}
	return 0, fmt.Errorf("invalid response %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Response) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid response %d", int(r))
	}
	return []byte(responseNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Response) UnmarshalText(text []byte) error {
	v, err := ParseResponse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
