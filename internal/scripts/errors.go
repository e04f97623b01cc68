package scripts

import "errors"

var (
	// ErrEngineClosed is returned when operating on an Engine after Close.
	ErrEngineClosed = errors.New("scripts: engine is closed")

	// ErrScriptNotFound is returned when an id has no registered script.
	ErrScriptNotFound = errors.New("scripts: no script registered for id")

	// ErrNotAFunction is returned when a script doesn't define the global
	// function a query or command tried to call.
	ErrNotAFunction = errors.New("scripts: expected global is not a function")
)
