package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/cwbudde/bindexpr/internal/scope"
	"github.com/cwbudde/bindexpr/pkg/bindexpr"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <expression>",
	Short: "Watch an expression across a sequence of scope snapshots read from stdin",
	Long: `Watch an expression across a sequence of scope snapshots read from stdin,
one JSON object per line, printing a line for the expression's first value
and each time it changes. Each line drives exactly one digest.

Example:
  printf '{"count":1}\n{"count":1}\n{"count":2}\n' | bindexpr watch count`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ev, err := bindexpr.Parse(args[0], filters.Builtins())
	if err != nil {
		return err
	}

	sc := bindexpr.NewScope(map[string]any{}, bindexpr.WithScheduler(func(fn func()) { fn() }))

	sc.Watch(func(s *scope.Scope) any {
		v, _ := ev.Eval(s.Root, nil)
		return v
	}, func(newVal, oldVal any, s *scope.Scope) {
		newJSON, _ := json.Marshal(newVal)
		fmt.Printf("changed: %s\n", newJSON)
	}, false)

	reader := bufio.NewScanner(os.Stdin)
	for reader.Scan() {
		line := reader.Text()
		if line == "" {
			continue
		}
		var snapshot map[string]any
		if err := json.Unmarshal([]byte(line), &snapshot); err != nil {
			return fmt.Errorf("decoding snapshot line: %w", err)
		}
		sc.Root = snapshot
		if err := sc.Digest(); err != nil {
			fmt.Fprintf(os.Stderr, "digest: %v\n", err)
		}
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
