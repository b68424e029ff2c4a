package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/bindexpr/internal/lexer"
	"github.com/cwbudde/bindexpr/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexExpr    string
	lexShowPos bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an expression and print the resulting tokens",
	Long: `Tokenize an expression and print the resulting tokens, one per line.

Examples:
  bindexpr lex -e "user.name | upper"
  bindexpr lex script.bindexpr`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize an inline expression instead of reading from a file/stdin")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readSource(lexExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok, err := l.Next()
		if err != nil {
			return err
		}
		printToken(tok)
		if tok.Type == token.EOF {
			return nil
		}
	}
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-8s]", tok.Type)
	switch {
	case tok.Type == token.EOF:
		out += " EOF"
	case tok.Literal == "":
		out += fmt.Sprintf(" %s", tok.Type)
	default:
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(out)
}

func readSource(inlineExpr string, args []string) (string, error) {
	if inlineExpr != "" {
		return inlineExpr, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
