package tree

import (
	"strconv"
	"strings"
)

// Dump renders n as an indented outline, one node per line:
//
//	expr_stmt
//	  NAME "x"
//	  EQUAL " " "="
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Type().String())
	if l, ok := n.(*Leaf); ok {
		if l.prefix != "" {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Quote(l.prefix))
		}
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(l.Value))
	}
	sb.WriteByte('\n')
	for _, c := range n.Children() {
		dump(sb, c, depth+1)
	}
}
