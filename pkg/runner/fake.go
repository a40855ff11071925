/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"strings"
)

// FakeResponse scripts the outcome for commands matching a prefix.
type FakeResponse struct {
	Result *Result
	Err    error
}

// Fake is a scripted Runner for tests. Commands are matched by the longest
// scripted prefix of their joined argv; unmatched commands succeed with an
// empty result.
type Fake struct {
	Responses map[string]FakeResponse
	Calls     []string
}

// NewFake creates an empty scripted runner.
func NewFake() *Fake {
	return &Fake{Responses: map[string]FakeResponse{}}
}

// Script registers a response for commands starting with prefix.
func (f *Fake) Script(prefix string, res *Result, err error) {
	f.Responses[prefix] = FakeResponse{Result: res, Err: err}
}

func (f *Fake) Run(_ context.Context, argv []string, _ Options) (*Result, error) {
	cmd := strings.Join(argv, " ")
	f.Calls = append(f.Calls, cmd)

	var best string
	for prefix := range f.Responses {
		if strings.HasPrefix(cmd, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		resp := f.Responses[best]
		res := resp.Result
		if res == nil {
			res = &Result{}
		}
		return res, resp.Err
	}
	return &Result{}, nil
}
