package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ki-editor/ki/internal/app"
	"github.com/ki-editor/ki/internal/config"
	"github.com/ki-editor/ki/internal/klog"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/tui"
)

const defaultMaxUndo = 1000

// maxUndoValue is a pflag.Value so --max-undo can reject non-positive
// counts at parse time rather than silently clamping later, the way
// cobra/pflag's own StringVar/IntVar family can't express a custom
// constraint without a hand-rolled Value.
type maxUndoValue int

func (v *maxUndoValue) String() string { return strconv.Itoa(int(*v)) }
func (v *maxUndoValue) Type() string   { return "int" }
func (v *maxUndoValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("max-undo: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("max-undo: must be positive, got %d", n)
	}
	*v = maxUndoValue(n)
	return nil
}

var _ pflag.Value = (*maxUndoValue)(nil)

// rootOptions holds the root command's flags, grounded on the teacher's
// cmd/keystorm/main.go parseFlags (config path, workspace dir, log
// level, read-only) but carried as pflag-bound fields instead of
// stdlib flag.Var calls, since cobra is this CLI's idiom.
type rootOptions struct {
	configPath    string
	workspacePath string
	logLevel      string
	readOnly      bool
	printSize     bool
	maxUndo       maxUndoValue
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{maxUndo: defaultMaxUndo}

	cmd := &cobra.Command{
		Use:     "ki [files...]",
		Short:   "Ki is a modal, multi-cursor, structural code editor",
		Version: "dev",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	flags.StringVarP(&opts.workspacePath, "workspace", "w", "", "workspace/project directory")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.readOnly, "readonly", "R", false, "open files in read-only mode")
	flags.BoolVar(&opts.printSize, "print-size", false, "print the detected terminal size and exit")
	flags.Var(&opts.maxUndo, "max-undo", "maximum undo history depth per editor")

	cmd.AddCommand(newGrammarCmd())
	return cmd
}

func runEditor(cmd *cobra.Command, opts *rootOptions, files []string) error {
	if opts.printSize {
		cols, rows, err := tui.ProbeStdoutSize()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%dx%d\n", cols, rows)
		return nil
	}

	log := klog.New(klog.Config{Level: klog.ParseLevel(opts.logLevel), Prefix: "ki"})
	if opts.readOnly {
		log.Info("ki: read-only mode requested (no write-blocking wired into this reference frontend yet)")
	}

	sysOpts := []config.SystemOption{config.WithSystemWatcher(true)}
	if opts.configPath != "" {
		sysOpts = append(sysOpts, config.WithSystemUserConfigDir(filepath.Dir(opts.configPath)))
	}
	if opts.workspacePath != "" {
		sysOpts = append(sysOpts, config.WithSystemProjectConfigDir(opts.workspacePath))
	}

	cfgSys, err := config.NewConfigSystem(cmd.Context(), sysOpts...)
	if err != nil {
		return fmt.Errorf("ki: loading configuration: %w", err)
	}
	defer cfgSys.Close()

	marksPath := ""
	if dir := cfgSys.Paths().DataDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ki: creating data dir: %w", err)
		}
		marksPath = filepath.Join(dir, "marks.db")
	}

	a, err := app.New(marksPath)
	if err != nil {
		return fmt.Errorf("ki: initializing app: %w", err)
	}
	defer a.Close()

	openFiles(a, files, int(opts.maxUndo), log)

	driver, err := tui.NewDriver(a, log)
	if err != nil {
		return fmt.Errorf("ki: starting terminal: %w", err)
	}
	defer driver.Close()

	if err := driver.Run(); err != nil && !errors.Is(err, tui.ErrQuit) {
		return err
	}
	return nil
}

// openFiles opens each of files (or one empty buffer if files is
// empty) as its own root editor component, focusing the last one
// created.
func openFiles(a *app.App, files []string, maxUndo int, log *klog.Logger) {
	if len(files) == 0 {
		id := a.OpenBuffer("untitled", "", "")
		if _, err := a.NewComponent(app.ComponentEditor, id, "", selection.ModeTag("Character"), maxUndo); err != nil {
			log.Error("ki: creating component for untitled buffer: %v", err)
		}
		return
	}

	var last app.ComponentId
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warn("ki: reading %s: %v", path, err)
		}
		id := a.OpenBuffer(path, languageIDForPath(path), string(content))
		comp, err := a.NewComponent(app.ComponentEditor, id, "", selection.ModeTag("Character"), maxUndo)
		if err != nil {
			log.Error("ki: creating component for %s: %v", path, err)
			continue
		}
		last = comp
	}
	if last != "" {
		_ = a.SetFocus(last)
	}
}

func languageIDForPath(path string) string {
	switch filepath.Ext(path) {
	case ".go":
		return "go"
	default:
		return ""
	}
}
