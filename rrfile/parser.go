package rrfile

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alecthomas/participle/v2"
)

// Parser parses design files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds the grammar.
func NewParser() (*Parser, error) {
	p, err := participle.Build[File](
		participle.Lexer(designLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("rrfile: build grammar: %w", err)
	}

	return &Parser{parser: p}, nil
}

// Parse parses a design from r. name is used in error positions.
func (p *Parser) Parse(name string, r io.Reader) (*File, error) {
	f, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return f, nil
}

// ParseString parses a design held in s.
func (p *Parser) ParseString(name, s string) (*File, error) {
	f, err := p.parser.ParseString(name, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return f, nil
}

// ParseFile parses the design file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rrfile: %w", err)
	}
	defer file.Close()

	return p.Parse(path, file)
}

var sharedParser = sync.OnceValues(NewParser)

// Read parses and builds a design from r.
func Read(name string, r io.Reader) (*Design, error) {
	p, err := sharedParser()
	if err != nil {
		return nil, err
	}
	f, err := p.Parse(name, r)
	if err != nil {
		return nil, err
	}

	return Build(f)
}

// Load parses and builds the design file at path.
func Load(path string) (*Design, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rrfile: %w", err)
	}
	defer file.Close()

	return Read(path, file)
}
