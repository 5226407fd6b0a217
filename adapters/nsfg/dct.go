package nsfg

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"nsfgstats/internal/errors"
)

// Variable is one column of a Stata fixed-width dictionary
type Variable struct {
	Name        string
	Type        string
	Format      string
	Description string
	// Start is the 0-based byte offset of the field.
	Start int
	// End is the exclusive end offset; -1 means the field runs to the end
	// of the record.
	End int
}

// Numeric reports whether the variable holds numbers. Stata storage
// types byte, int, long, float and double are numeric; strN is text.
func (v Variable) Numeric() bool {
	return !strings.HasPrefix(v.Type, "str")
}

// Dictionary describes the layout of a fixed-width data file
type Dictionary struct {
	Variables []Variable
}

// Lookup finds a variable by name
func (d *Dictionary) Lookup(name string) (Variable, bool) {
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

var columnPattern = regexp.MustCompile(`^\s*_column\((\d+)\)\s+(\S+)\s+(\S+)\s+(%\S+)\s*(.*)$`)

var storageTypes = map[string]bool{
	"byte":   true,
	"int":    true,
	"long":   true,
	"float":  true,
	"double": true,
}

// ReadStataDct parses a Stata infile dictionary. Each variable line has
// the form
//
//	_column(13)  byte  pregordr  %2f  "PREGNANCY ORDER (NUMBER)"
//
// Lines that are not _column entries (the infile header, braces, blank
// lines) are skipped. A field ends where the next one starts.
func ReadStataDct(r io.Reader) (*Dictionary, error) {
	dict := &Dictionary{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.Contains(line, "_column(") {
			continue
		}

		m := columnPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.DataFormat(lineNo, "malformed _column entry")
		}

		column, err := strconv.Atoi(m[1])
		if err != nil || column < 1 {
			return nil, errors.DataFormat(lineNo, "invalid column position "+m[1])
		}

		vtype := strings.ToLower(m[2])
		if !storageTypes[vtype] && !strings.HasPrefix(vtype, "str") {
			return nil, errors.DataFormat(lineNo, "unknown storage type "+m[2])
		}

		name := strings.ToLower(m[3])
		if seen[name] {
			return nil, errors.DataFormat(lineNo, "duplicate variable "+name)
		}
		seen[name] = true

		dict.Variables = append(dict.Variables, Variable{
			Name:        name,
			Type:        vtype,
			Format:      m[4],
			Description: strings.Trim(strings.TrimSpace(m[5]), `"`),
			Start:       column - 1,
			End:         -1,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading dictionary")
	}
	if len(dict.Variables) == 0 {
		return nil, errors.InvalidInput("dictionary has no _column entries")
	}

	for i := 0; i < len(dict.Variables)-1; i++ {
		next := dict.Variables[i+1].Start
		if next <= dict.Variables[i].Start {
			return nil, errors.InvalidInput("dictionary columns must be in increasing order, " + dict.Variables[i+1].Name + " overlaps " + dict.Variables[i].Name)
		}
		dict.Variables[i].End = next
	}

	return dict, nil
}
