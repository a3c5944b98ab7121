// Package roster loads and serves the representative roster.
//
// Three flat-file layouts are supported behind one Source interface: CSV with
// a header row (the production export), positional CSV without a header, and
// a JSON array. Rows missing a name or parseable coordinates are dropped at
// load; phone fields are reduced to digits, with the secondary phone column
// used when the primary is empty.
package roster

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brastec/rep-locator/internal/domain"
)

// Source loads the full roster from a data source.
type Source interface {
	Load() (domain.Roster, error)
}

// NewSource returns the Source for the given format: "csv" (headered),
// "csv-noheader" (positional), or "json".
func NewSource(path, format string) (Source, error) {
	switch format {
	case "csv":
		return &CSVSource{Path: path, Header: true}, nil
	case "csv-noheader":
		return &CSVSource{Path: path}, nil
	case "json":
		return &JSONSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown roster format %q", format)
	}
}

// CSVSource reads the roster from a delimited file. With Header set, columns
// are located by name (REPRESENTANTE, CIDADE, ESTADO, CELULAR, CELULAR 2,
// Latitude, Longitude); without it, the positional layout is
// name,city,state,phone,lat,lon.
type CSVSource struct {
	Path   string
	Header bool
}

func (s *CSVSource) Load() (domain.Roster, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; sanitation drops bad ones

	cols := positionalColumns()
	if s.Header {
		header, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("read roster header: %w", err)
		}
		cols = namedColumns(header)
	}

	var roster domain.Roster
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}
		rep, ok := cols.representative(record)
		if !ok {
			continue
		}
		roster = append(roster, rep)
	}
	return roster, nil
}

// columns maps field meanings to record indexes; -1 means absent.
type columns struct {
	name, city, state, phone, phone2, lat, lon int
}

func positionalColumns() columns {
	return columns{name: 0, city: 1, state: 2, phone: 3, phone2: -1, lat: 4, lon: 5}
}

func namedColumns(header []string) columns {
	cols := columns{name: -1, city: -1, state: -1, phone: -1, phone2: -1, lat: -1, lon: -1}
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "REPRESENTANTE":
			cols.name = i
		case "CIDADE":
			cols.city = i
		case "ESTADO":
			cols.state = i
		case "CELULAR":
			cols.phone = i
		case "CELULAR 2":
			cols.phone2 = i
		case "LATITUDE":
			cols.lat = i
		case "LONGITUDE":
			cols.lon = i
		}
	}
	return cols
}

// representative builds a sanitized entry from a record, or reports false
// when the row must be dropped (missing name or unparseable coordinates).
func (c columns) representative(record []string) (domain.Representative, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := field(c.name)
	if name == "" {
		return domain.Representative{}, false
	}

	lat, err := strconv.ParseFloat(field(c.lat), 64)
	if err != nil {
		return domain.Representative{}, false
	}
	lon, err := strconv.ParseFloat(field(c.lon), 64)
	if err != nil {
		return domain.Representative{}, false
	}

	phone := digits(field(c.phone))
	if phone == "" {
		phone = digits(field(c.phone2))
	}

	return domain.Representative{
		Name:     name,
		City:     field(c.city),
		State:    strings.ToUpper(field(c.state)),
		WhatsApp: phone,
		Lat:      lat,
		Lon:      lon,
	}, true
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

// JSONSource reads the roster from a JSON array of representative objects.
type JSONSource struct {
	Path string
}

func (s *JSONSource) Load() (domain.Roster, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var raw []domain.Representative
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	var roster domain.Roster
	for _, rep := range raw {
		rep.Name = strings.TrimSpace(rep.Name)
		rep.State = strings.ToUpper(strings.TrimSpace(rep.State))
		rep.City = strings.TrimSpace(rep.City)
		rep.WhatsApp = digits(rep.WhatsApp)
		if rep.Name == "" || (rep.Lat == 0 && rep.Lon == 0) {
			continue
		}
		roster = append(roster, rep)
	}
	return roster, nil
}
