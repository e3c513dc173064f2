// Package ast holds the syntax tree produced by the parser.
//
// The node declarations in ast.go are generated from ast.adt by the adtGen
// module in tool/.
package ast

//go:generate sh -c "cd ../tool && go run . ../ast/ast.adt ../ast/ast.go ast"
