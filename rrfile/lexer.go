package rrfile

import "github.com/alecthomas/participle/v2/lexer"

// designLexer tokenizes design files. Keywords are lower case and must come
// before Ident.
var designLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Declarations
	{Name: "KwGrid", Pattern: `\bgrid\b`},
	{Name: "KwSwitch", Pattern: `\bswitch\b`},
	{Name: "KwCostIndex", Pattern: `\bcost_index\b`},
	{Name: "KwNode", Pattern: `\bnode\b`},
	{Name: "KwEdge", Pattern: `\bedge\b`},
	{Name: "KwNet", Pattern: `\bnet\b`},
	{Name: "KwRoute", Pattern: `\broute\b`},
	{Name: "KwReserve", Pattern: `\breserve\b`},
	{Name: "KwLink", Pattern: `\blink\b`},

	// Clauses and flags
	{Name: "KwVia", Pattern: `\bvia\b`},
	{Name: "KwSource", Pattern: `\bsource\b`},
	{Name: "KwSinks", Pattern: `\bsinks\b`},
	{Name: "KwDelay", Pattern: `\bdelay\b`},
	{Name: "KwBuffered", Pattern: `\bbuffered\b`},
	{Name: "KwGlobal", Pattern: `\bglobal\b`},
	{Name: "KwFixed", Pattern: `\bfixed\b`},

	// Punctuation
	{Name: "Arrow", Pattern: `->`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Colon", Pattern: `:`},

	// Literals
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
