package ast

import (
	"strconv"
	"strings"

	"github.com/wdamron/gradual/types"
)

func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

func StmtString(s Stmt) string {
	var sb strings.Builder
	switch st := s.(type) {
	case *Assign:
		sb.WriteString(st.Target)
		if st.Annotation != nil {
			sb.WriteString(": ")
			sb.WriteString(types.TypeString(st.Annotation))
		}
		if st.Value != nil {
			sb.WriteString(" = ")
			exprString(&sb, false, st.Value)
		}
	case *ExprStmt:
		exprString(&sb, false, st.Value)
	case *Return:
		sb.WriteString("return")
		if st.Value != nil {
			sb.WriteByte(' ')
			exprString(&sb, false, st.Value)
		}
	case *Raise:
		sb.WriteString("raise")
		if st.Value != nil {
			sb.WriteByte(' ')
			exprString(&sb, false, st.Value)
		}
	}
	return sb.String()
}

func literalString(e *Literal) string {
	switch v := e.Value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		if e.Bytes {
			return "b" + strconv.Quote(v)
		}
		return strconv.Quote(v)
	}
	return "?"
}

func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch et := e.(type) {
	case *Name:
		sb.WriteString(et.Name)

	case *Literal:
		sb.WriteString(literalString(et))

	case *List:
		sb.WriteByte('[')
		exprList(sb, et.Elems)
		sb.WriteByte(']')

	case *Tuple:
		sb.WriteByte('(')
		exprList(sb, et.Elems)
		if len(et.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')

	case *Dict:
		sb.WriteByte('{')
		for i, entry := range et.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(entry.Key))
			sb.WriteString(": ")
			exprString(sb, false, entry.Value)
		}
		sb.WriteByte('}')

	case *Call:
		exprString(sb, true, et.Func)
		sb.WriteByte('(')
		for i, arg := range et.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch {
			case arg.Star:
				sb.WriteByte('*')
			case arg.DoubleStar:
				sb.WriteString("**")
			case arg.Name != "":
				sb.WriteString(arg.Name)
				sb.WriteByte('=')
			}
			exprString(sb, false, arg.Value)
		}
		sb.WriteByte(')')

	case *Attribute:
		exprString(sb, true, et.Value)
		sb.WriteByte('.')
		sb.WriteString(et.Name)

	case *Subscript:
		exprString(sb, true, et.Value)
		sb.WriteByte('[')
		exprString(sb, false, et.Index)
		sb.WriteByte(']')

	case *IsInstance:
		sb.WriteString("isinstance(")
		exprString(sb, false, et.Value)
		sb.WriteString(", ")
		if len(et.Classes) == 1 {
			sb.WriteString(types.TypeString(et.Classes[0]))
		} else {
			sb.WriteByte('(')
			for i, c := range et.Classes {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(types.TypeString(c))
			}
			sb.WriteByte(')')
		}
		sb.WriteByte(')')

	case *Compare:
		if simple {
			sb.WriteByte('(')
		}
		exprString(sb, true, et.Left)
		sb.WriteByte(' ')
		sb.WriteString(et.Op.String())
		sb.WriteByte(' ')
		exprString(sb, true, et.Right)
		if simple {
			sb.WriteByte(')')
		}

	case *Not:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("not ")
		exprString(sb, true, et.Value)
		if simple {
			sb.WriteByte(')')
		}

	case *BoolOp:
		if simple {
			sb.WriteByte('(')
		}
		for i, v := range et.Values {
			if i > 0 {
				sb.WriteByte(' ')
				sb.WriteString(et.Op.String())
				sb.WriteByte(' ')
			}
			exprString(sb, true, v)
		}
		if simple {
			sb.WriteByte(')')
		}
	}
}

func exprList(sb *strings.Builder, es []Expr) {
	for i, e := range es {
		if i > 0 {
			sb.WriteString(", ")
		}
		exprString(sb, false, e)
	}
}
