package rrfile

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed design file.
type File struct {
	Decls []*Decl `parser:"@@*"`
}

// Decl is one declaration; exactly one field is set.
type Decl struct {
	Grid      *GridDecl      `parser:"  @@"`
	Switch    *SwitchDecl    `parser:"| @@"`
	CostIndex *CostIndexDecl `parser:"| @@"`
	Node      *NodeDecl      `parser:"| @@"`
	Edge      *EdgeDecl      `parser:"| @@"`
	Net       *NetDecl       `parser:"| @@"`
	Route     *RouteDecl     `parser:"| @@"`
	Reserve   *ReserveDecl   `parser:"| @@"`
	Link      *LinkDecl      `parser:"| @@"`
}

// GridDecl: grid NX NY
type GridDecl struct {
	Pos lexer.Position
	NX  int `parser:"KwGrid @Number"`
	NY  int `parser:"@Number"`
}

// SwitchDecl: switch ID "name" attrs [buffered]
type SwitchDecl struct {
	Pos      lexer.Position
	ID       int     `parser:"KwSwitch @Number"`
	Name     string  `parser:"@String"`
	Attrs    []*Attr `parser:"@@*"`
	Buffered bool    `parser:"@KwBuffered?"`
}

// CostIndexDecl: cost_index ID attrs
type CostIndexDecl struct {
	Pos   lexer.Position
	ID    int     `parser:"KwCostIndex @Number"`
	Attrs []*Attr `parser:"@@*"`
}

// NodeDecl: node ID TYPE (xlow,ylow) [(xhigh,yhigh)] attrs
type NodeDecl struct {
	Pos   lexer.Position
	ID    int     `parser:"KwNode @Number"`
	Type  string  `parser:"@Ident"`
	Low   *Coord  `parser:"@@"`
	High  *Coord  `parser:"@@?"`
	Attrs []*Attr `parser:"@@*"`
}

// Coord is "(x,y)".
type Coord struct {
	X int `parser:"LParen @Number"`
	Y int `parser:"Comma @Number RParen"`
}

// Attr is one "key value" pair.
type Attr struct {
	Pos   lexer.Position
	Key   string  `parser:"@Ident"`
	Value float64 `parser:"@Number"`
}

// EdgeDecl: edge FROM -> TO via SWITCH
type EdgeDecl struct {
	Pos    lexer.Position
	From   int `parser:"KwEdge @Number"`
	To     int `parser:"Arrow @Number"`
	Switch int `parser:"KwVia @Number"`
}

// NetDecl: net "name" source N [sinks N...] [global] [fixed]
type NetDecl struct {
	Pos    lexer.Position
	Name   string   `parser:"KwNet @String"`
	Source int      `parser:"KwSource @Number"`
	Sinks  []int    `parser:"( KwSinks @Number+ )?"`
	Flags  []string `parser:"@( KwGlobal | KwFixed )*"`
}

// RouteDecl: route "net" elems
type RouteDecl struct {
	Pos   lexer.Position
	Net   string       `parser:"KwRoute @String"`
	Elems []*RouteElem `parser:"@@+"`
}

// RouteElem is "node:switch", or a bare node ending a branch.
type RouteElem struct {
	Node   int  `parser:"@Number"`
	Switch *int `parser:"( Colon @Number )?"`
}

// ReserveDecl: reserve SOURCE COUNT
type ReserveDecl struct {
	Pos    lexer.Position
	Source int `parser:"KwReserve @Number"`
	Count  int `parser:"@Number"`
}

// LinkDecl: link "from" PIN -> "to" delay D
type LinkDecl struct {
	Pos   lexer.Position
	From  string  `parser:"KwLink @String"`
	Pin   int     `parser:"@Number"`
	To    string  `parser:"Arrow @String"`
	Delay float64 `parser:"KwDelay @Number"`
}
