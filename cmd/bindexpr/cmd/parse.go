package cmd

import (
	"fmt"
	"strings"

	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an expression and dump its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse an inline expression instead of reading from a file/stdin")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readSource(parseExpr, args)
	if err != nil {
		return err
	}

	prog, err := parser.Parse(input, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Program (%d statement(s), constant=%v, literal=%v)\n",
		len(prog.Body), prog.Constant(), ast.IsLiteral(prog))
	for _, n := range prog.Body {
		dumpNode(n, 1)
	}
	return nil
}

func dumpNode(n ast.Node, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v := n.(type) {
	case *ast.Literal:
		fmt.Printf("%sLiteral %#v\n", pad, v.Value)
	case *ast.Array:
		fmt.Printf("%sArray\n", pad)
		for _, e := range v.Elements {
			dumpNode(e, indent+1)
		}
	case *ast.Object:
		fmt.Printf("%sObject\n", pad)
		for _, p := range v.Properties {
			dumpNode(p.Key, indent+1)
			dumpNode(p.Value, indent+1)
		}
	case *ast.Identifier:
		fmt.Printf("%sIdentifier %s\n", pad, v.Name)
	case *ast.ThisExpr:
		fmt.Printf("%sThisExpr\n", pad)
	case *ast.MemberNonComputed:
		fmt.Printf("%sMemberNonComputed .%s\n", pad, v.Property.Name)
		dumpNode(v.Object, indent+1)
	case *ast.MemberComputed:
		fmt.Printf("%sMemberComputed\n", pad)
		dumpNode(v.Object, indent+1)
		dumpNode(v.Property, indent+1)
	case *ast.Call:
		fmt.Printf("%sCall\n", pad)
		dumpNode(v.Callee, indent+1)
		for _, a := range v.Args {
			dumpNode(a, indent+1)
		}
	case *ast.Filter:
		fmt.Printf("%sFilter %s\n", pad, v.Callee.Name)
		for _, a := range v.Args {
			dumpNode(a, indent+1)
		}
	case *ast.Assignment:
		fmt.Printf("%sAssignment\n", pad)
		dumpNode(v.Left, indent+1)
		dumpNode(v.Right, indent+1)
	case *ast.Unary:
		fmt.Printf("%sUnary\n", pad)
		dumpNode(v.Arg, indent+1)
	case *ast.Binary:
		fmt.Printf("%sBinary\n", pad)
		dumpNode(v.Left, indent+1)
		dumpNode(v.Right, indent+1)
	case *ast.Logical:
		fmt.Printf("%sLogical\n", pad)
		dumpNode(v.Left, indent+1)
		dumpNode(v.Right, indent+1)
	case *ast.Conditional:
		fmt.Printf("%sConditional\n", pad)
		dumpNode(v.Test, indent+1)
		dumpNode(v.Consequent, indent+1)
		dumpNode(v.Alternate, indent+1)
	default:
		fmt.Printf("%s%T\n", pad, n)
	}
}
