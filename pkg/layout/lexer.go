package layout

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the lexical structure of register layout files.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to end of line, shell or C++ style
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Go integer literal syntax: decimal, 0x, 0b, 0o, with optional underscores
	{Name: "Int", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|[0-9][0-9_]*`},

	// Keywords (layout, size, endian, register, reset, reserved, field) are
	// matched as identifiers by the grammar.
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

	{Name: "Punct", Pattern: `[@:{}=]`},
})
