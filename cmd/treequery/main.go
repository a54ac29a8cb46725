// Command treequery evaluates a path expression against a JSON document and
// prints the matched nodes, one per line.
//
//	treequery '$.items[?(@.value > 500)].name' data.json
//	cat data.json | treequery --first '$..id'
//
// Exit codes: 0 when at least one node matched, 1 when nothing matched,
// 2 on a usage, parse, or I/O error.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/agentable/treequery"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"
)

const (
	exitMatched = 0
	exitNoMatch = 1
	exitError   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run wires and executes the command. Split from main so tests can drive it
// with their own argv and streams.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		first     bool
		countOnly bool
		noColor   bool
	)
	matched := false

	cmd := &cobra.Command{
		Use:   "treequery PATH [FILE]",
		Short: "Evaluate a path expression against a JSON document",
		Long: `Treequery evaluates a JSONPath-like expression against a JSON document
read from FILE or standard input, printing each matched node as JSON on
its own line.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}

			src, err := readInput(args, stdin)
			if err != nil {
				return err
			}
			doc, err := fastjson.ParseBytes(src)
			if err != nil {
				return fmt.Errorf("invalid JSON input: %w", err)
			}
			matches, err := treequery.Query(doc, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case countOnly:
				n := matches.Count()
				fmt.Fprintln(out, n)
				matched = n > 0
			case first:
				if node, ok := matches.First(); ok {
					printNode(out, node)
					matched = true
				}
			default:
				for node := range matches.All() {
					printNode(out, node)
					matched = true
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&first, "first", false, "print only the first match")
	cmd.Flags().BoolVar(&countOnly, "count", false, "print the number of matches instead of the matches")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "treequery:", err)
		return exitError
	}
	if !matched {
		return exitNoMatch
	}
	return exitMatched
}

// readInput returns the document bytes from the optional FILE argument, or
// from stdin when no file is given.
func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 2 {
		return os.ReadFile(args[1])
	}
	return io.ReadAll(stdin)
}

// printNode writes node as JSON. Scalars are colorized by type; containers
// print as-is.
func printNode(w io.Writer, node *fastjson.Value) {
	switch node.Type() {
	case fastjson.TypeString:
		fmt.Fprintln(w, color.New(color.FgGreen).Sprint(node.String()))
	case fastjson.TypeNumber:
		fmt.Fprintln(w, color.New(color.FgCyan).Sprint(node.String()))
	case fastjson.TypeTrue, fastjson.TypeFalse, fastjson.TypeNull:
		fmt.Fprintln(w, color.New(color.FgYellow).Sprint(node.String()))
	default:
		fmt.Fprintln(w, node.String())
	}
}
