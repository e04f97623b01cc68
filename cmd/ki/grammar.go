package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newGrammarCmd builds the `ki grammar` subcommand family. The editing
// core's Syntax Service collaborator (internal/syntax) ships only a
// degenerate NullService plus a hand-rolled bracket-matching fallback —
// no pack repo vendors a tree-sitter Go binding, so there is no real
// grammar store for fetch/build to manage. Both subcommands exist to
// satisfy the documented CLI surface and explain that honestly rather
// than silently doing nothing.
func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Manage tree-sitter grammars (not implemented)",
	}
	cmd.AddCommand(newGrammarFetchCmd())
	cmd.AddCommand(newGrammarBuildCmd())
	return cmd
}

func newGrammarFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [language]",
		Short: "Fetch a tree-sitter grammar (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return explainNoGrammarStore(cmd)
		},
	}
}

func newGrammarBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [language]",
		Short: "Build a fetched tree-sitter grammar (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return explainNoGrammarStore(cmd)
		},
	}
}

func explainNoGrammarStore(cmd *cobra.Command) error {
	fmt.Fprintln(cmd.OutOrStdout(),
		"ki: no tree-sitter grammar store is built into this editing core; "+
			"SyntaxNode selection modes fall back to Word/Line when a buffer's "+
			"language has no structural parser registered.")
	return nil
}
