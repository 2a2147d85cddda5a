package engine

import "strings"

// Flag identifies one CPU status flag.
type Flag int

const (
	ZF Flag = iota
	OF
	CF
	PF
	SF
	TF
	AF
	DF
	IF
)

// AllFlags lists every flag in the order /flags/get_all reports them.
var AllFlags = []Flag{ZF, OF, CF, PF, SF, TF, AF, DF, IF}

var flagNames = map[string]Flag{
	"zf": ZF, "of": OF, "cf": CF, "pf": PF, "sf": SF,
	"tf": TF, "af": AF, "df": DF, "if": IF,
}

// String returns the uppercase flag name.
func (f Flag) String() string {
	switch f {
	case ZF:
		return "ZF"
	case OF:
		return "OF"
	case CF:
		return "CF"
	case PF:
		return "PF"
	case SF:
		return "SF"
	case TF:
		return "TF"
	case AF:
		return "AF"
	case DF:
		return "DF"
	case IF:
		return "IF"
	default:
		return "??"
	}
}

// ParseFlag resolves a flag name, case-insensitively.
func ParseFlag(name string) (Flag, bool) {
	f, ok := flagNames[strings.ToLower(name)]
	return f, ok
}
