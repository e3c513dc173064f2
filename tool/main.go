package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strconv"

	"github.com/alecthomas/participle"
	"github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Imports      []*ImportDecl  `@@*`
	Declarations []*Declaration `@@*`
}

type ImportDecl struct {
	Path string `"import" @String ";"`
}

// TypeRef is a type expression such as Expression, []Identifier or *big.Int.
type TypeRef struct {
	Slice   bool    `@("[" "]")?`
	Pointer bool    `@"*"?`
	Name    string  `@Ident`
	Sel     *string `("." @Ident)?`
}

type FieldDecl struct {
	Name string   `@Ident`
	Kind *TypeRef `@@ ";"`
}

type TCase struct {
	Name   string       `"|" @Ident`
	Kind   *string      `( "of" @Ident`
	Fields []*FieldDecl ` | "{" @@* "}" )?`
}

type Declaration struct {
	Name   string       `"type" @Ident "="`
	Plain  *TypeRef     `(  @@`
	Fields []*FieldDecl ` | "{" @@* "}"`
	Many   []*TCase     ` | @@+ ) ";"`
}

func (t *TypeDecls) IsSumType(name string) bool {
	for _, decls := range t.Declarations {
		if decls.Name == name && decls.Many != nil {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

type generator struct {
	imports map[string]string
}

func (g *generator) typeRef(t *TypeRef) (*jen.Statement, error) {
	s := &jen.Statement{}
	if t.Slice {
		s.Index()
	}
	if t.Pointer {
		s.Op("*")
	}
	if t.Sel == nil {
		return s.Id(t.Name), nil
	}
	full, ok := g.imports[t.Name]
	if !ok {
		return nil, fmt.Errorf("package %s is used by %s.%s but never imported", t.Name, t.Name, *t.Sel)
	}
	return s.Qual(full, *t.Sel), nil
}

func (g *generator) fields(fs []*FieldDecl) ([]jen.Code, error) {
	var ret []jen.Code
	for _, f := range fs {
		kind, err := g.typeRef(f.Kind)
		if err != nil {
			return nil, err
		}
		ret = append(ret, jen.Id(f.Name).Add(kind))
	}
	return ret, nil
}

func GenerateDecls(pkgname string, t *TypeDecls) (string, error) {
	f := jen.NewFile(pkgname)
	f.HeaderComment("Code generated by adtGen. DO NOT EDIT.")

	g := generator{imports: map[string]string{}}
	for _, imp := range t.Imports {
		p := unquote(imp.Path)
		g.imports[path.Base(p)] = p
	}

	for _, decl := range t.Declarations {
		switch {
		case decl.Plain != nil:
			kind, err := g.typeRef(decl.Plain)
			if err != nil {
				return "", err
			}
			f.Type().Id(decl.Name).Add(kind)
		case decl.Many != nil:
			f.Type().Id(decl.Name).Interface(
				jen.Id("is_" + decl.Name).Params(),
			)

			for _, it := range decl.Many {
				switch {
				case it.Kind != nil && t.IsSumType(*it.Kind):
					f.Type().Id(it.Name).Struct(jen.Id(*it.Kind))
				case it.Kind != nil:
					f.Type().Id(it.Name).Id(*it.Kind)
				default:
					fields, err := g.fields(it.Fields)
					if err != nil {
						return "", err
					}
					f.Type().Id(it.Name).Struct(fields...)
				}

				f.Func().Params(jen.Id("v").Id(it.Name)).Id("is_" + decl.Name).Params().Block()
			}
		default:
			fields, err := g.fields(decl.Fields)
			if err != nil {
				return "", err
			}
			f.Type().Id(decl.Name).Struct(fields...)
		}
	}

	return fmt.Sprintf("%#v", f), nil
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen <input.adt> <output.go> <package>")
		os.Exit(2)
	}

	parser := participle.MustBuild(&TypeDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	src, err := GenerateDecls(pkgname, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(src), 0644)
	if err != nil {
		panic(err)
	}
}
