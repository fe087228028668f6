// Package dimacs reads and writes the DIMACS CNF text format, keeping all
// text-handling concerns out of the sat package's core engine — the
// boundary the external interfaces section calls for between the solver
// and any particular input/output collaborator.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xDarkicex/parasat/sat"
)

// Problem is a parsed CNF instance: zero-based variable count and the
// clauses as sat.Lit slices, ready to feed straight into a Supervisor via
// NewVar/AddClause.
type Problem struct {
	NumVars int
	Clauses [][]sat.Lit
}

// Parse reads a DIMACS "p cnf <vars> <clauses>" formatted file from r.
// Comment lines ("c ...") are skipped; the clause count in the header is
// advisory only — Parse trusts the terminating 0 on each clause line, the
// way every real DIMACS reader does.
func Parse(r io.Reader) (*Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	p := &Problem{}
	headerSeen := false
	var cur []sat.Lit

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) < 4 || fields[1] != "cnf" {
				return nil, fmt.Errorf("dimacs: malformed header %q", line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("dimacs: bad variable count: %w", err)
			}
			p.NumVars = n
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, fmt.Errorf("dimacs: clause before header: %q", line)
		}
		for _, tok := range strings.Fields(line) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("dimacs: bad literal %q: %w", tok, err)
			}
			if n == 0 {
				p.Clauses = append(p.Clauses, cur)
				cur = nil
				continue
			}
			v := sat.Var(abs(n) - 1)
			cur = append(cur, sat.MkLit(v, n < 0))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dimacs: scan: %w", err)
	}
	if len(cur) > 0 {
		// Tolerate a missing trailing 0 on the final clause line.
		p.Clauses = append(p.Clauses, cur)
	}
	if !headerSeen {
		return nil, fmt.Errorf("dimacs: missing \"p cnf\" header")
	}
	return p, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RemoveDuplicates drops repeated literals within each clause in place,
// the first and cheapest preprocessing pass worth doing before handing a
// formula to a solver.
func (p *Problem) RemoveDuplicates() {
	for i, c := range p.Clauses {
		seen := make(map[sat.Lit]bool, len(c))
		out := c[:0]
		for _, l := range c {
			if seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, l)
		}
		p.Clauses[i] = out
	}
}

// RemoveTautologies drops clauses that contain both a literal and its
// negation — always satisfied, so safe to discard entirely.
func (p *Problem) RemoveTautologies() {
	kept := p.Clauses[:0]
	for _, c := range p.Clauses {
		tautology := false
		for i, a := range c {
			for _, b := range c[i+1:] {
				if a == b.Neg() {
					tautology = true
					break
				}
			}
			if tautology {
				break
			}
		}
		if !tautology {
			kept = append(kept, c)
		}
	}
	p.Clauses = kept
}

// WriteModel writes the standard "s SATISFIABLE"/"v ..." or
// "s UNSATISFIABLE" response lines for a solve outcome.
func WriteModel(w io.Writer, status sat.ResultStatus, model []sat.LBool) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if status == sat.Unsat {
		_, err := fmt.Fprintln(bw, "s UNSATISFIABLE")
		return err
	}
	if status == sat.Unknown {
		_, err := fmt.Fprintln(bw, "s UNKNOWN")
		return err
	}
	if _, err := fmt.Fprintln(bw, "s SATISFIABLE"); err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("v")
	for i, val := range model {
		sign := ""
		if val == sat.LFalse {
			sign = "-"
		}
		fmt.Fprintf(&sb, " %s%d", sign, i+1)
	}
	sb.WriteString(" 0")
	_, err := fmt.Fprintln(bw, sb.String())
	return err
}
