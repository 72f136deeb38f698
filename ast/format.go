package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Quote wraps s in single quotes after applying Go string escaping
// (strconv.Quote), so double quotes and non-printable runes come out as
// Go escapes. Single quotes are left as they are.
func Quote(s string) string {
	q := strconv.Quote(s)
	return "'" + q[1:len(q)-1] + "'"
}

func formatList(es []Expression) string {
	var parts []string
	for _, e := range es {
		parts = append(parts, Format(e))
	}
	return strings.Join(parts, ", ")
}

func formatOperand(e Expression) string {
	switch e.(type) {
	case BinaryOp, Conditional, Lambda, NamedExpr:
		return "(" + Format(e) + ")"
	}
	return Format(e)
}

// Format renders an expression back to source text. Spacing and
// parenthesization are normalized, so the result is not byte-identical to
// the input.
func Format(e Expression) string {
	if e == nil {
		return ""
	}

	switch v := e.(type) {
	case Name:
		return v.Ident
	case Int:
		return v.Text
	case Float:
		return v.Text
	case Imaginary:
		return v.Text
	case Str:
		return Quote(strings.Join(v.Fragments, ""))
	case FString:
		return "f" + Quote(strings.Join(v.Fragments, ""))
	case Bytes:
		return "b" + Quote(strings.Join(v.Fragments, ""))
	case Bool:
		if v.Value {
			return "True"
		}
		return "False"
	case NoneLit:
		return "None"
	case EllipsisLit:
		return "..."
	case ListLit:
		return "[" + formatList(v.Elements) + "]"
	case TupleLit:
		if len(v.Elements) == 1 {
			return "(" + Format(v.Elements[0]) + ",)"
		}
		return "(" + formatList(v.Elements) + ")"
	case SetLit:
		return "{" + formatList(v.Elements) + "}"
	case DictLit:
		return "{" + formatList(v.Items) + "}"
	case Pair:
		return Format(v.Key) + ": " + Format(v.Value)
	case Comprehension:
		closer := map[string]string{"[": "]", "{": "}", "(": ")"}[v.Open]
		var b strings.Builder
		b.WriteString(v.Open)
		b.WriteString(Format(v.Element))
		for _, c := range v.Clauses {
			if c.Async {
				b.WriteString(" async")
			}
			fmt.Fprintf(&b, " for %s in %s", formatList(c.Targets), Format(c.Iter))
			for _, cond := range c.Conditions {
				fmt.Fprintf(&b, " if %s", Format(cond))
			}
		}
		b.WriteString(closer)
		return b.String()
	case Call:
		return formatOperand(v.Func) + "(" + formatList(v.Args) + ")"
	case Keyword:
		return v.Name + "=" + Format(v.Value)
	case Subscript:
		index := Format(v.Index)
		if tuple, ok := v.Index.(TupleLit); ok && len(tuple.Elements) > 1 {
			index = formatList(tuple.Elements)
		}
		return formatOperand(v.Value) + "[" + index + "]"
	case Slice:
		s := Format(v.Lower) + ":" + Format(v.Upper)
		if v.Step != nil {
			s += ":" + Format(v.Step)
		}
		return s
	case Attribute:
		return formatOperand(v.Value) + "." + v.Name
	case BinaryOp:
		return formatOperand(v.Left) + " " + v.Op + " " + formatOperand(v.Right)
	case UnaryOp:
		if v.Op == "not" {
			return "not " + formatOperand(v.Operand)
		}
		return v.Op + formatOperand(v.Operand)
	case Conditional:
		return formatOperand(v.Then) + " if " + formatOperand(v.Condition) + " else " + Format(v.Else)
	case Lambda:
		if len(v.Params) == 0 {
			return "lambda: " + Format(v.Body)
		}
		return "lambda " + strings.Join(v.Params, ", ") + ": " + Format(v.Body)
	case Starred:
		return "*" + formatOperand(v.Value)
	case DoubleStarred:
		return "**" + formatOperand(v.Value)
	case NamedExpr:
		return Format(v.Target) + " := " + Format(v.Value)
	case Await:
		return "await " + formatOperand(v.Value)
	case Yield:
		switch {
		case v.From:
			return "yield from " + Format(v.Value)
		case v.Value == nil:
			return "yield"
		}
		return "yield " + Format(v.Value)
	}

	panic(fmt.Sprintf("unhandled expression %T", e))
}
