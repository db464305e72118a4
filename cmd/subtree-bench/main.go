// subtree-bench builds synthetic syntax trees and reports timing and
// memory figures for construction, editing, and balancing. Useful for
// eyeballing the effect of changes to the tree representation.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/incrlab/subtree"
)

const (
	symToken  subtree.Symbol = 1
	symRepeat subtree.Symbol = 2
	symRoot   subtree.Symbol = 3
)

func benchLanguage() *subtree.Language {
	return &subtree.Language{
		Name: "bench",
		SymbolMetadata: []subtree.SymbolMetadata{
			{Name: "end"},
			{Name: "token", Visible: true, Named: true},
			{Name: "_repeat"},
			{Name: "root", Visible: true, Named: true},
		},
	}
}

var (
	leafCount int
	editCount int
	seed      int64
)

func main() {
	root := &cobra.Command{
		Use:   "subtree-bench",
		Short: "Benchmark syntax tree construction, editing, and balancing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, leafCount, editCount, seed)
		},
	}
	root.Flags().IntVar(&leafCount, "leaves", 100000, "number of leaf tokens in the synthetic tree")
	root.Flags().IntVar(&editCount, "edits", 1000, "number of random insertions to apply")
	root.Flags().Int64Var(&seed, "seed", 1, "seed for the edit position generator")

	dot := &cobra.Command{
		Use:   "dot",
		Short: "Print a small sample tree as a Graphviz graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := benchLanguage()
			pool := subtree.NewPool(32)
			tree := buildChain(pool, 8, lang)
			return tree.WriteDotGraph(cmd.OutOrStdout(), lang)
		},
	}
	root.AddCommand(dot)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildChain reduces n ten-byte tokens the way a left-recursive
// repetition rule does, producing a deep unbalanced chain.
func buildChain(pool *subtree.SubtreePool, n int, lang *subtree.Language) subtree.Subtree {
	token := func() subtree.Subtree {
		return pool.NewLeaf(symToken,
			subtree.Length{Bytes: 1, Extent: subtree.Point{Column: 1}},
			subtree.Length{Bytes: 9, Extent: subtree.Point{Column: 9}},
			1, 1, false, false, false, lang)
	}
	children := subtree.SubtreeArray{token(), token()}
	chain := subtree.NewNode(symRepeat, &children, 0, lang).Subtree()
	for i := 2; i < n; i++ {
		next := subtree.SubtreeArray{chain, token()}
		chain = subtree.NewNode(symRepeat, &next, 0, lang).Subtree()
	}
	wrapped := subtree.SubtreeArray{chain}
	return subtree.NewNode(symRoot, &wrapped, 0, lang).Subtree()
}

func runBench(cmd *cobra.Command, leaves, edits int, seed int64) error {
	if leaves < 2 {
		return fmt.Errorf("need at least 2 leaves, got %d", leaves)
	}
	lang := benchLanguage()
	pool := subtree.NewPool(1024)
	out := cmd.OutOrStdout()
	label := color.New(color.FgCyan).SprintFunc()
	value := color.New(color.FgGreen).SprintFunc()

	start := time.Now()
	tree := buildChain(pool, leaves, lang)
	buildTime := time.Since(start)
	fmt.Fprintf(out, "%s %s nodes in %s (%s)\n",
		label("build:"),
		value(humanize.Comma(int64(tree.NodeCount()))),
		buildTime,
		humanize.IBytes(tree.Sizeof()))

	start = time.Now()
	tree.Balance(pool, lang)
	fmt.Fprintf(out, "%s depth %s in %s\n",
		label("balance:"),
		value(fmt.Sprintf("%d", spineDepth(tree))),
		time.Since(start))

	rng := rand.New(rand.NewSource(seed))
	total := tree.TotalBytes()
	start = time.Now()
	for i := 0; i < edits; i++ {
		offset := rng.Uint32() % total
		tree = tree.Edit(subtree.InputEdit{
			StartByte:   offset,
			OldEndByte:  offset,
			NewEndByte:  offset + 1,
			StartPoint:  subtree.Point{Column: offset},
			OldEndPoint: subtree.Point{Column: offset},
			NewEndPoint: subtree.Point{Column: offset + 1},
		}, pool)
		total++
	}
	editTime := time.Since(start)
	fmt.Fprintf(out, "%s %s insertions in %s, %s nodes invalidated\n",
		label("edit:"),
		value(humanize.Comma(int64(edits))),
		editTime,
		value(humanize.Comma(changedNodes(tree))))

	pool.Release(tree)
	pool.Delete()
	return nil
}

func spineDepth(s subtree.Subtree) int {
	depth := 0
	for s.ChildCount() > 0 {
		depth++
		s = s.Children()[0]
	}
	return depth
}

func changedNodes(s subtree.Subtree) int64 {
	var count int64
	if s.HasChanges() {
		count++
	}
	for _, child := range s.Children() {
		count += changedNodes(child)
	}
	return count
}
