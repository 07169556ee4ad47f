package engine

import "errors"

var (
	// ErrEngineNotInitialized is returned by operations that require the
	// realtime audio graph before SetupAudioGraph has succeeded. The caller
	// may set up the graph and retry.
	ErrEngineNotInitialized = errors.New("audio graph not initialized")

	// ErrInvalidChannel is returned when a channel id falls outside
	// [1, maxChannels]. The rejected operation has no side effect.
	ErrInvalidChannel = errors.New("invalid channel id")

	// ErrStartFailure is returned when the realtime audio graph fails to
	// start. The engine stays configured and the call may be retried.
	ErrStartFailure = errors.New("audio graph start failure")
)
