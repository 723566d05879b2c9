package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/payments/output"
)

// slowOperation is the duration from which a timing is highlighted.
const slowOperation = 100 * time.Millisecond

// formatTimingTree writes the timing tree:
//
//	process transactions.csv: 125ms
//	├─ load transactions.csv (5000 rows): 110ms
//	└─ format csv: 15ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	name := label(root)
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.duration()))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	duration := node.duration()
	tree := prefix + branch
	timing := formatDuration(duration)
	if styles != nil {
		tree = styles.Dim(tree)
		timing = styles.Timing(timing, duration >= slowOperation)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, label(node), timing)

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

func label(node *timerNode) string {
	if node.note == "" {
		return node.name
	}
	return fmt.Sprintf("%s (%s)", node.name, node.note)
}

// duration of a node; timers that were never ended count as zero.
func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
