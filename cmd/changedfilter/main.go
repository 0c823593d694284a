// Package main is the entry point for the changedfilter application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/brady-zip/changed-filter/internal/app"
	"github.com/brady-zip/changed-filter/internal/config"
	"github.com/brady-zip/changed-filter/internal/git"
	"github.com/brady-zip/changed-filter/internal/log"
	"github.com/brady-zip/changed-filter/internal/models"
	"github.com/brady-zip/changed-filter/internal/status"
	"github.com/brady-zip/changed-filter/internal/theme"
	"github.com/brady-zip/changed-filter/internal/utils"
)

var version = "dev"

func main() {
	cliApp := &urfavecli.App{
		Name:                 "changedfilter",
		Usage:                "Pick a changed file from git status, filtered by staging state",
		Version:              version,
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Action: run,

		BashComplete: completeGlobalFlags,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(c *urfavecli.Context) error {
	// Set up debug logging before loading config
	if debugLog := c.String("debug-log"); debugLog != "" {
		path := debugLog
		if expanded, err := utils.ExpandPath(debugLog); err == nil {
			path = expanded
		}
		if err := log.SetFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
		}
	}
	defer func() { _ = log.Close() }()

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Debug log from config when the flag didn't set one
	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			path := cfg.DebugLog
			if expanded, err := utils.ExpandPath(cfg.DebugLog); err == nil {
				path = expanded
			}
			if err := log.SetFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", path, err)
			}
		} else {
			_ = log.SetFile("")
		}
	}

	themeName := cfg.Theme
	if c.String("theme") != "" {
		themeName = c.String("theme")
	}
	thm := theme.ForName(themeName)
	if thm == nil {
		return fmt.Errorf("unknown theme %q (available: %s)", themeName, strings.Join(theme.AvailableThemes(), ", "))
	}

	initial, err := parseCategory(c.String("category"))
	if err != nil {
		return err
	}

	dir, err := resolveStartDir(c.String("path"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	runner := git.NewRunner()

	root, err := runner.ResolveRepoRoot(ctx, dir)
	if errors.Is(err, git.ErrNotARepository) {
		fmt.Fprintf(os.Stderr, "Not a git repository: %s\n", dir)
		return nil
	}
	if err != nil {
		return err
	}

	raw, err := runner.ReadStatus(ctx, root)
	if err != nil {
		return err
	}
	classified := status.Classify(status.Parse(raw))
	if classified.Empty() {
		fmt.Fprintln(os.Stderr, "No changed files.")
		return nil
	}

	if c.Bool("list") || !term.IsTerminal(int(os.Stdout.Fd())) {
		printList(root, classified, initial)
		return nil
	}

	model := app.New(cfg, thm, runner, root, runner.CommonDir(ctx, root), classified, initial)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	model.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		return err
	}
	if err := model.Err(); err != nil {
		return err
	}

	return handleSelection(c, cfg, model.SelectedPath())
}

// resolveStartDir picks the directory the repository lookup starts from:
// the --path flag when given, the current working directory otherwise.
func resolveStartDir(pathFlag string) (string, error) {
	if pathFlag != "" {
		expanded, err := utils.ExpandPath(pathFlag)
		if err != nil {
			return "", fmt.Errorf("error expanding path: %w", err)
		}
		return expanded, nil
	}
	return os.Getwd()
}

func parseCategory(id string) (*models.Category, error) {
	if id == "" {
		return nil, nil
	}
	cat, ok := models.CategoryFromID(id)
	if !ok {
		return nil, fmt.Errorf("unknown category %q (valid: all, staged, unstaged)", id)
	}
	return &cat, nil
}

// printList writes the category's files one absolute path per line, for
// --list mode and for piped output.
func printList(root string, classified status.Classified, initial *models.Category) {
	cat := models.CategoryAll
	if initial != nil {
		cat = *initial
	}
	for _, entry := range classified.ForCategory(cat) {
		fmt.Println(filepath.Join(root, entry.Path))
	}
}

// handleSelection delivers the selected path: to a file with
// --output-selection, to stdout with --print or when no editor is
// configured, otherwise to the editor.
func handleSelection(c *urfavecli.Context, cfg *config.AppConfig, selectedPath string) error {
	if outputSelection := c.String("output-selection"); outputSelection != "" {
		expanded, err := utils.ExpandPath(outputSelection)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error expanding output-selection: %v\n", err)
			return err
		}
		const defaultDirPerms = 0o750
		if err := os.MkdirAll(filepath.Dir(expanded), defaultDirPerms); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output-selection dir: %v\n", err)
			return err
		}
		data := ""
		if selectedPath != "" {
			data = selectedPath + "\n"
		}
		const defaultFilePerms = 0o600
		if err := os.WriteFile(expanded, []byte(data), defaultFilePerms); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output-selection: %v\n", err)
			return err
		}
		return nil
	}

	if selectedPath == "" {
		return nil
	}

	editor, args := resolveEditor(cfg)
	if c.Bool("print") || editor == "" {
		fmt.Println(selectedPath)
		return nil
	}
	return openInEditor(editor, args, selectedPath)
}

// resolveEditor returns the editor command and its leading arguments:
// the config wins, then $EDITOR, then $VISUAL.
func resolveEditor(cfg *config.AppConfig) (string, []string) {
	if cfg.Editor != "" {
		return cfg.Editor, cfg.EditorArgs
	}
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor, nil
	}
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual, nil
	}
	return "", nil
}

func openInEditor(editor string, args []string, path string) error {
	log.Printf("opening %s with %s %s", path, editor, strings.Join(args, " "))

	// #nosec G204 -- editor comes from the user's own config/environment
	cmd := exec.Command(editor, append(append([]string{}, args...), path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", editor, err)
	}
	return nil
}
