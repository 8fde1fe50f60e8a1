package load

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/attrs"
)

// Linearize returns the C3 linearisation of a class: the class itself
// followed by its ancestors, each appearing before its own bases and
// with the local precedence order of every base list preserved.
//
// The linearisation of each direct base must be present in mros.
func Linearize(name string, bases []string, mros map[string][]string) ([]string, error) {
	seqs := make([][]string, 0, len(bases)+1)
	for i, b := range bases {
		if b == name {
			return nil, attrs.NewSchemaConflictError(name, "", "class cannot inherit from itself", nil)
		}
		if slices.Contains(bases[:i], b) {
			return nil, attrs.NewSchemaConflictError(name, "", fmt.Sprintf("duplicate base class %s", b), nil)
		}
		mro, ok := mros[b]
		if !ok {
			return nil, attrs.NewSchemaConflictError(name, "", fmt.Sprintf("base class %s is not compiled", b), nil)
		}
		seqs = append(seqs, slices.Clone(mro))
	}
	seqs = append(seqs, slices.Clone(bases))
	out := []string{name}
	for {
		seqs = slices.DeleteFunc(seqs, func(s []string) bool { return len(s) == 0 })
		if len(seqs) == 0 {
			return out, nil
		}
		head := ""
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				head = s[0]
				break
			}
		}
		if head == "" {
			heads := make([]string, len(seqs))
			for i, s := range seqs {
				heads[i] = s[0]
			}
			return nil, attrs.NewSchemaConflictError(name, "", fmt.Sprintf("cannot create a consistent method resolution order for bases %s", strings.Join(heads, ", ")), nil)
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(c string, seqs [][]string) bool {
	for _, s := range seqs {
		if slices.Contains(s[1:], c) {
			return true
		}
	}
	return false
}
