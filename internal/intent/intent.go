// Package intent defines the closed set of support intents a message can be
// classified into.
//
// The zero value is HumanEscalation so that an uninitialized or unrecognized
// intent always resolves to the safest outcome: a human looks at it.
package intent

import (
	"fmt"
	"strings"
)

// Intent is a classified support intent.
type Intent int

const (
	// HumanEscalation routes the request to a human. It is never executable.
	HumanEscalation Intent = iota

	// VerifyPort checks whether a port or protocol endpoint is answering.
	VerifyPort

	// RestartWebService restarts the web service (IIS / W3SVC).
	RestartWebService

	// LineServerReview runs the production-line server review.
	LineServerReview
)

// All lists every intent in declaration order.
var All = []Intent{VerifyPort, RestartWebService, LineServerReview, HumanEscalation}

var labels = map[Intent]string{
	HumanEscalation:   "human_escalation",
	VerifyPort:        "verify_port",
	RestartWebService: "restart_web_service",
	LineServerReview:  "line_server_review",
}

// String returns the wire label of the intent.
func (i Intent) String() string {
	if l, ok := labels[i]; ok {
		return l
	}
	return labels[HumanEscalation]
}

// Executable reports whether the intent may be mapped to a registry command.
func (i Intent) Executable() bool {
	switch i {
	case VerifyPort, RestartWebService, LineServerReview:
		return true
	default:
		return false
	}
}

// Parse returns the intent for an exact label. The second return value is
// false, and the intent HumanEscalation, for anything outside the set.
func Parse(label string) (Intent, bool) {
	for i, l := range labels {
		if l == label {
			return i, true
		}
	}
	return HumanEscalation, false
}

// FromReply trims a free-form reply and parses it. Anything that is not
// exactly one label, including the empty string, becomes HumanEscalation.
func FromReply(reply string) Intent {
	i, _ := Parse(strings.TrimSpace(reply))
	return i
}

// Labels returns the wire labels in declaration order.
func Labels() []string {
	out := make([]string, 0, len(All))
	for _, i := range All {
		out = append(out, i.String())
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unlike FromReply it
// rejects unknown labels, since it is used for trusted documents.
func (i *Intent) UnmarshalText(b []byte) error {
	v, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("unknown intent %q", b)
	}
	*i = v
	return nil
}
