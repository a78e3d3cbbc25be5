package ham

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// FCIDUMPHeader carries the namelist fields of an FCIDUMP file that the
// basis enumerations need.
type FCIDUMPHeader struct {
	NOrb  int // spatial orbitals
	NElec int // electrons
	MS2   int // 2*S_z
}

// NOccUp returns the number of up-spin electrons implied by the header.
func (h FCIDUMPHeader) NOccUp() int { return (h.NElec + h.MS2) / 2 }

// NOccDn returns the number of down-spin electrons implied by the header.
func (h FCIDUMPHeader) NOccDn() int { return (h.NElec - h.MS2) / 2 }

var headerFields = map[string]*regexp.Regexp{
	"NORB":  regexp.MustCompile(`NORB\s*=\s*(-?\d+)`),
	"NELEC": regexp.MustCompile(`NELEC\s*=\s*(-?\d+)`),
	"MS2":   regexp.MustCompile(`MS2\s*=\s*(-?\d+)`),
}

// LoadFCIDUMP reads an FCIDUMP file from path.
func LoadFCIDUMP(path string) (*Hamiltonian, FCIDUMPHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FCIDUMPHeader{}, err
	}
	defer f.Close()
	ham, hdr, err := ReadFCIDUMP(f)
	if err != nil {
		return nil, FCIDUMPHeader{}, fmt.Errorf("%s: %w", path, err)
	}
	return ham, hdr, nil
}

// ReadFCIDUMP parses FCIDUMP text: a &FCI namelist header followed by
// "value i j k l" records with 1-based orbital indices. Two-body records are
// chemist-notation (ij|kl) and are expanded over the 8-fold symmetry;
// one-body records have k = l = 0; the core energy has all indices 0.
func ReadFCIDUMP(r io.Reader) (*Hamiltonian, FCIDUMPHeader, error) {
	var hdr FCIDUMPHeader
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var header strings.Builder
	inHeader := true
	for inHeader && sc.Scan() {
		line := strings.ToUpper(sc.Text())
		header.WriteString(line)
		header.WriteByte(' ')
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "&END") || trimmed == "/" {
			inHeader = false
		}
	}
	if inHeader {
		return nil, hdr, fmt.Errorf("header not terminated: %w", ErrFormat)
	}
	fields := make(map[string]int, len(headerFields))
	for name, re := range headerFields {
		m := re.FindStringSubmatch(header.String())
		if m == nil {
			if name == "MS2" {
				continue
			}
			return nil, hdr, fmt.Errorf("missing %s: %w", name, ErrFormat)
		}
		fields[name], _ = strconv.Atoi(m[1])
	}
	hdr = FCIDUMPHeader{NOrb: fields["NORB"], NElec: fields["NELEC"], MS2: fields["MS2"]}
	n := hdr.NOrb
	if n <= 0 {
		return nil, hdr, fmt.Errorf("NORB=%d: %w", n, ErrFormat)
	}

	one := make([]float64, n*n)
	eri := make([]float64, n*n*n*n)
	ecore := 0.0
	exp := strings.NewReplacer("D", "E", "d", "e")
	lineNo := 0
	for sc.Scan() {
		lineNo++
		rec := strings.Fields(sc.Text())
		if len(rec) == 0 {
			continue
		}
		if len(rec) != 5 {
			return nil, hdr, fmt.Errorf("record %d: want 5 fields, got %d: %w", lineNo, len(rec), ErrFormat)
		}
		val, err := strconv.ParseFloat(exp.Replace(rec[0]), 64)
		if err != nil {
			return nil, hdr, fmt.Errorf("record %d: %v: %w", lineNo, err, ErrFormat)
		}
		var idx [4]int
		for k := range idx {
			idx[k], err = strconv.Atoi(rec[k+1])
			if err != nil || idx[k] < 0 || idx[k] > n {
				return nil, hdr, fmt.Errorf("record %d: bad orbital index %q: %w", lineNo, rec[k+1], ErrFormat)
			}
		}
		i, j, k, l := idx[0]-1, idx[1]-1, idx[2]-1, idx[3]-1
		switch {
		case i < 0 && j < 0 && k < 0 && l < 0:
			ecore = val
		case k < 0 && l < 0 && i >= 0 && j >= 0:
			one[i*n+j] = val
			one[j*n+i] = val
		case i >= 0 && j >= 0 && k >= 0 && l >= 0:
			setChemist(eri, n, i, j, k, l, val)
		default:
			// orbital energies (i 0 0 0) are not needed
		}
	}
	if err := sc.Err(); err != nil {
		return nil, hdr, err
	}
	ham, err := FromChemist(ecore, n, one, eri)
	if err != nil {
		return nil, hdr, err
	}
	return ham, hdr, nil
}
