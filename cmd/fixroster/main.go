// Command fixroster normalizes a roster CSV in place-adjacent fashion:
// it trims whitespace, uppercases the state column, and strips non-digit
// characters from the phone columns, writing the result to a new file.
//
// Usage:
//
//	go run ./cmd/fixroster -in data/reps.csv -out data/reps_fixed.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
)

func main() {
	in := flag.String("in", "", "input roster CSV (with header)")
	out := flag.String("out", "", "output CSV path")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("%s has no data rows", inPath)
	}

	header := rows[0]
	upperCols := columnSet(header, "ESTADO")
	phoneCols := columnSet(header, "CELULAR", "CELULAR 2")

	fixed := 0
	for _, row := range rows[1:] {
		for j := range row {
			orig := row[j]
			v := strings.TrimSpace(orig)
			switch {
			case upperCols[j]:
				v = strings.ToUpper(v)
			case phoneCols[j]:
				v = digits(v)
			}
			if v != orig {
				row[j] = v
				fixed++
			}
		}
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	w := csv.NewWriter(outFile)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("✅ %d rows written to %s (%d fields corrected)\n", len(rows)-1, outPath, fixed)
	return nil
}

// columnSet maps header indexes whose name matches one of the given names.
func columnSet(header []string, names ...string) map[int]bool {
	set := make(map[int]bool)
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, name := range names {
			if strings.EqualFold(h, name) {
				set[i] = true
			}
		}
	}
	return set
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
