package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/cwbudde/bindexpr/pkg/bindexpr"
	"github.com/spf13/cobra"
)

var (
	evalScopeJSON  string
	evalLocalsJSON string
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Compile and evaluate an expression once against JSON scope/locals",
	Long: `Compile and evaluate an expression once against JSON scope/locals.

Examples:
  bindexpr eval "user.name" --scope '{"user":{"name":"Ada"}}'
  bindexpr eval "items | json:'0.name'" --scope '{"items":"[{\"name\":\"x\"}]"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalScopeJSON, "scope", "{}", "JSON object used as the scope")
	evalCmd.Flags().StringVar(&evalLocalsJSON, "locals", "", "JSON object used as locals (consulted before scope)")
}

func runEval(cmd *cobra.Command, args []string) error {
	scopeVal, err := decodeJSONObject(evalScopeJSON)
	if err != nil {
		return fmt.Errorf("decoding --scope: %w", err)
	}
	var localsVal map[string]any
	if evalLocalsJSON != "" {
		localsVal, err = decodeJSONObject(evalLocalsJSON)
		if err != nil {
			return fmt.Errorf("decoding --locals: %w", err)
		}
	}

	ev, err := bindexpr.Parse(args[0], filters.Builtins())
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("literal=%v constant=%v oneTime=%v inputs=%d\n", ev.Literal, ev.Constant, ev.OneTime, len(ev.Inputs))
	}

	var result any
	if localsVal != nil {
		result, err = ev.Eval(scopeVal, localsVal)
	} else {
		result, err = ev.Eval(scopeVal, nil)
	}
	if err != nil {
		return err
	}

	out, err := json.Marshal(result)
	if err != nil {
		fmt.Printf("%v\n", result)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func decodeJSONObject(text string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return m, nil
}
