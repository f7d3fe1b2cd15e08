package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/NastySpaghetti/yuzu/pkg/routine"
	"github.com/NastySpaghetti/yuzu/pkg/structurize"
)

var version = "0.1.0"

// Structuring options
var (
	backwardOnly bool // only rebuild loop back-edges, leave forward gotos
	noElse       bool // disable else-derivation
	dumpBefore   bool // dump the flat tree before structuring
	checkTree    bool // run the label sanity check after structuring
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shader-flow [routine.yaml]",
		Short: "shader-flow rebuilds structured control flow from flat shader routines",
		Long: `shader-flow reads a flat routine description (blocks, labels and
conditional gotos in program order), runs the goto-elimination pass and
dumps the resulting structured tree. It exists for inspecting and testing
the structurizer, not for translating real shader bytecode.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return doStructure(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&backwardOnly, "backward-only", false, "Only rebuild backward jumps into loops")
	rootCmd.Flags().BoolVar(&noElse, "no-else", false, "Disable else-derivation from matching if conditions")
	rootCmd.Flags().BoolVar(&dumpBefore, "dump-before", false, "Dump the flat tree before structuring")
	rootCmd.Flags().BoolVar(&checkTree, "check", false, "Run the label sanity check after structuring")

	return rootCmd
}

func doStructure(filename string, out, errOut io.Writer) error {
	r, err := routine.LoadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "shader-flow: %v\n", err)
		return err
	}

	manager := structurize.NewManager(!backwardOnly, noElse)
	defer manager.Clear()

	if err := r.Build(manager); err != nil {
		fmt.Fprintf(errOut, "shader-flow: %s: %v\n", r.Name, err)
		return err
	}

	if dumpBefore {
		fmt.Fprintf(out, "; %s, flat\n", r.Name)
		manager.DumpTo(out)
		fmt.Fprintln(out)
	}

	if err := manager.Structurize(); err != nil {
		fmt.Fprintf(errOut, "shader-flow: %s: %v\n", r.Name, err)
		return err
	}

	if checkTree {
		if err := manager.SanityCheck(); err != nil {
			fmt.Fprintf(errOut, "shader-flow: %s: %v\n", r.Name, err)
			return err
		}
	}

	fmt.Fprintf(out, "; %s, structured\n", r.Name)
	manager.DumpTo(out)
	if count := manager.VariableCount(); count > 0 {
		fmt.Fprintf(out, "; %d synthetic variables\n", count)
	}
	return nil
}
