package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

// SumDecls is a file of sum declarations:
//
//	sum Expression = Name | Int | Str;
type SumDecls struct {
	Sums []*Sum `@@*`
}

type Sum struct {
	Name    string   `"sum" @Ident "="`
	Members []string `"|"? @Ident ("|" @Ident)* ";"`
}

func (s *SumDecls) check() error {
	seen := map[string]bool{}
	for _, sum := range s.Sums {
		if seen[sum.Name] {
			return fmt.Errorf("sum %s declared more than once", sum.Name)
		}
		seen[sum.Name] = true

		members := map[string]bool{}
		for _, m := range sum.Members {
			if members[m] {
				return fmt.Errorf("%s listed twice in sum %s", m, sum.Name)
			}
			members[m] = true
		}
	}
	return nil
}

func GenerateSums(pkgname string, s *SumDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen. DO NOT EDIT.")

	for _, sum := range s.Sums {
		marker := "is_" + sum.Name

		f.Type().Id(sum.Name).Interface(
			Id(marker).Params(),
		)

		for _, member := range sum.Members {
			f.Func().Params(Id("v").Id(member)).Id(marker).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtgen <input.adt> <output.go> <package>")
		os.Exit(2)
	}

	parser := participle.MustBuild(&SumDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := SumDecls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}
	if err = decls.check(); err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateSums(pkgname, &decls)), 0644)
	if err != nil {
		panic(err)
	}
}
