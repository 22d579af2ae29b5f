// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stash

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/cefwatch/cefwatch/internal/builds"
)

var (
	// ErrStateUnavailable means stored state exists but cannot be read.
	ErrStateUnavailable = errors.New("state unavailable")
	// ErrStateWriteFailure means the current state could not be persisted.
	ErrStateWriteFailure = errors.New("state write failure")
)

// Error carries the platform and storage location of a stash failure. It
// unwraps to both its kind sentinel and the underlying cause.
type Error struct {
	Kind     error
	Platform string
	Location string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v for %s (%s): %v", e.Kind, e.Platform, e.Location, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Store loads and saves per-platform build state.
type Store interface {
	// Load returns the stored state and true, or nil and false when nothing
	// has been stored for the platform yet.
	Load(ctx context.Context, platform string) (builds.PlatformState, bool, error)
	// Save replaces the stored state for the platform.
	Save(ctx context.Context, platform string, state builds.PlatformState) error
	String() string
}

// UnitName is the storage unit name for a platform.
func UnitName(platform string) string {
	return "builds_" + platform + ".json"
}

//go:embed schema.json
var schemaDoc []byte

const schemaURL = "platform-state.schema.json"

var platformSchema = func() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		panic(fmt.Sprintf("stash schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		panic(fmt.Sprintf("stash schema: %v", err))
	}
	return c.MustCompile(schemaURL)
}()

// Decode validates and decodes a stored platform document.
func Decode(data []byte) (builds.PlatformState, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	if err := platformSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("state does not match schema: %w", err)
	}

	var state builds.PlatformState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	if state == nil {
		state = builds.PlatformState{}
	}
	return state, nil
}

// Encode renders a platform document. A nil state encodes as an empty object.
func Encode(state builds.PlatformState) ([]byte, error) {
	if state == nil {
		state = builds.PlatformState{}
	}
	return json.Marshal(state)
}

// Disabled never reads or writes. Every platform looks like a first run.
type Disabled struct{}

func (Disabled) Load(context.Context, string) (builds.PlatformState, bool, error) {
	return nil, false, nil
}

func (Disabled) Save(context.Context, string, builds.PlatformState) error {
	return nil
}

func (Disabled) String() string {
	return "stash-disabled"
}
