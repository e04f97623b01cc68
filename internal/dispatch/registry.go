package dispatch

import (
	"fmt"
	"sync"

	"github.com/google/shlex"
	"github.com/ki-editor/ki/internal/editor"
)

// CommandFunc implements one RunCommand{name,args} entry.
type CommandFunc func(ed *editor.Editor, args []string) error

// Registry is the RunCommand extension point: an open, string-keyed
// namespace layered on top of the closed Dispatch algebra, the same way
// the teacher's dispatcher.Registry lets handlers be registered by name
// under its Router. Kept separate from the Dispatch enum itself since
// ":command-name" commands are genuinely open-ended (spec §4.9's
// RunCommand is the one dispatch family that is NOT closed), unlike
// every other Dispatch kind.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandFunc)}
}

// Register installs fn under name, overwriting any prior registration.
func (r *Registry) Register(name string, fn CommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = fn
}

// Run resolves name and invokes it with args.
func (r *Registry) Run(ed *editor.Editor, name string, args []string) error {
	r.mu.RLock()
	fn, ok := r.commands[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("dispatch: no command registered for %q", name)
	}
	return fn(ed, args)
}

// ParseCommandLine tokenizes a raw ":name arg1 arg2" command line the
// way a POSIX shell would (quoting, escaping), so commands can accept
// quoted file paths and arguments with embedded spaces.
func ParseCommandLine(line string) (name string, args []string, err error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return "", nil, fmt.Errorf("dispatch: parsing command line %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("dispatch: empty command line")
	}
	return tokens[0], tokens[1:], nil
}

// executeRunCommand resolves d.CommandLine into name/args (if CommandArgs
// wasn't already populated by the caller) and runs it through reg.
func executeRunCommand(ed *editor.Editor, reg *Registry, d Dispatch) error {
	name, args := d.Command, d.CommandArgs
	if name == "" && d.CommandLine != "" {
		var err error
		name, args, err = ParseCommandLine(d.CommandLine)
		if err != nil {
			return err
		}
	}
	if name == "" {
		return fmt.Errorf("dispatch: RunCommand: no command name given")
	}
	return reg.Run(ed, name, args)
}
