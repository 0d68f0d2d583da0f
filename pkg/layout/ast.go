package layout

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File represents a complete layout description.
type File struct {
	Header    *Header         `@@`
	Registers []*RegisterDecl `@@*`
}

// Header names the layout and fixes its size and byte order.
// Example: layout "flexspi_nor" size 0x200 endian little
type Header struct {
	Name   *String `"layout" @@`
	Size   uint64  `"size" @Int`
	Endian string  `( "endian" @( "little" | "big" ) )?`
}

// RegisterDecl declares one register.
// Example: register tag @ 0x000 : 32 reset 0x42464346 reserved "Tag"
type RegisterDecl struct {
	Pos lexer.Position

	Name        string       `"register" @Ident`
	Offset      uint64       `"@" @Int`
	Width       uint64       `":" @Int`
	Reset       *string      `( "reset" @Int )?`
	Reserved    bool         `@"reserved"?`
	Description *String      `@@?`
	Fields      []*FieldDecl `( "{" @@* "}" )?`
}

// FieldDecl declares a bitfield of the enclosing register.
// Example: field minor @ 8 : 8 "Minor version"
type FieldDecl struct {
	Pos lexer.Position

	Name        string      `"field" @Ident`
	Offset      uint64      `"@" @Int`
	Width       uint64      `":" @Int`
	Description *String     `@@?`
	Values      []*EnumDecl `( "{" @@* "}" )?`
}

// EnumDecl declares a named value of the enclosing bitfield.
// Example: LoopbackFromDqsPad = 1 "Loopback from DQS pad"
type EnumDecl struct {
	Pos lexer.Position

	Name        string  `@Ident`
	Value       uint64  `"=" @Int`
	Description *String `@@?`
}

// String represents a string literal
type String struct {
	Value string `@String`
}

// GetValue returns the string value without quotes
func (s *String) GetValue() string {
	if s == nil {
		return ""
	}
	if len(s.Value) >= 2 && s.Value[0] == '"' && s.Value[len(s.Value)-1] == '"' {
		return s.Value[1 : len(s.Value)-1]
	}
	return s.Value
}
