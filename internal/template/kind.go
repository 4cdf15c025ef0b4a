package template

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind identifies the variant of a template node.
type Kind int

const (
	KindLiteral Kind = iota
	KindExpression
	KindObject
	KindArray
	KindSwitch
	KindForeach
	KindIf
)
