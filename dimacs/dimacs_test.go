package dimacs

import (
	"strings"
	"testing"

	"github.com/xDarkicex/parasat/sat"
)

func TestParseHeaderAndComments(t *testing.T) {
	src := `c a small test instance
c another comment line
p cnf 3 2
1 -2 0
2 3 0
`
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.NumVars != 3 {
		t.Fatalf("NumVars = %d, want 3", p.NumVars)
	}
	if len(p.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(p.Clauses))
	}

	want0 := []sat.Lit{sat.MkLit(0, false), sat.MkLit(1, true)}
	for i, l := range want0 {
		if p.Clauses[0][i] != l {
			t.Errorf("Clauses[0][%d] = %v, want %v", i, p.Clauses[0][i], l)
		}
	}
	want1 := []sat.Lit{sat.MkLit(1, false), sat.MkLit(2, false)}
	for i, l := range want1 {
		if p.Clauses[1][i] != l {
			t.Errorf("Clauses[1][%d] = %v, want %v", i, p.Clauses[1][i], l)
		}
	}
}

func TestParseTrailingClauseWithoutZero(t *testing.T) {
	src := "p cnf 2 1\n1 2"
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Clauses) != 1 || len(p.Clauses[0]) != 2 {
		t.Fatalf("Clauses = %v, want one clause of two literals", p.Clauses)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := Parse(strings.NewReader("1 2 0\n")); err == nil {
		t.Fatal("expected an error for a clause line before the header")
	}
}

func TestParseRejectsMalformedHeader(t *testing.T) {
	if _, err := Parse(strings.NewReader("p cnf\n1 0\n")); err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	p := &Problem{
		Clauses: [][]sat.Lit{
			{sat.MkLit(0, false), sat.MkLit(1, false), sat.MkLit(0, false)},
		},
	}
	p.RemoveDuplicates()
	if len(p.Clauses[0]) != 2 {
		t.Fatalf("Clauses[0] = %v, want 2 distinct literals", p.Clauses[0])
	}
}

func TestRemoveTautologies(t *testing.T) {
	p := &Problem{
		Clauses: [][]sat.Lit{
			{sat.MkLit(0, false), sat.MkLit(0, true)},           // tautology
			{sat.MkLit(1, false), sat.MkLit(2, false)},           // kept
		},
	}
	p.RemoveTautologies()
	if len(p.Clauses) != 1 {
		t.Fatalf("len(Clauses) = %d, want 1 after dropping the tautology", len(p.Clauses))
	}
	if p.Clauses[0][0] != sat.MkLit(1, false) {
		t.Errorf("surviving clause = %v, want the non-tautological one", p.Clauses[0])
	}
}

func TestWriteModelSatisfiable(t *testing.T) {
	var sb strings.Builder
	model := []sat.LBool{sat.LTrue, sat.LFalse, sat.LTrue}
	if err := WriteModel(&sb, sat.Sat, model); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}
	want := "s SATISFIABLE\nv 1 -2 3 0\n"
	if sb.String() != want {
		t.Fatalf("WriteModel output = %q, want %q", sb.String(), want)
	}
}

func TestWriteModelUnsatisfiable(t *testing.T) {
	var sb strings.Builder
	if err := WriteModel(&sb, sat.Unsat, nil); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}
	if sb.String() != "s UNSATISFIABLE\n" {
		t.Fatalf("WriteModel output = %q, want %q", sb.String(), "s UNSATISFIABLE\n")
	}
}

func TestWriteModelUnknown(t *testing.T) {
	var sb strings.Builder
	if err := WriteModel(&sb, sat.Unknown, nil); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}
	if sb.String() != "s UNKNOWN\n" {
		t.Fatalf("WriteModel output = %q, want %q", sb.String(), "s UNKNOWN\n")
	}
}
