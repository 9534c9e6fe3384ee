// Package export renders participation lists as CSV. The address format
// carries contact data; the full format adds personal and application
// details for people allowed to see them.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/fkhayef/membership/internal/person"
)

// Format defines the type of export strategy
type Format string

const (
	FormatAddress Format = "ADDRESS"
	FormatFull    Format = "FULL"
)

// Row is one exported participation
type Row struct {
	Person                *person.Person
	Roles                 []string
	AdditionalInformation string
	Application           *ApplicationInfo
}

// ApplicationInfo holds the application columns of a row
type ApplicationInfo struct {
	Priority1   string
	Priority2   string
	Priority3   string
	WaitingList bool
}

// Strategy is the interface that all export strategies must implement
type Strategy interface {
	// Table renders the header followed by one record per row
	Table(rows []Row) [][]string
}

// Factory creates export strategies based on the requested format
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the format
func (f *Factory) Create(format Format) (Strategy, error) {
	switch format {
	case FormatAddress:
		return &AddressStrategy{}, nil
	case FormatFull:
		return &FullStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// CSV renders rows with the strategy
func CSV(s Strategy, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(s.Table(rows)); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func boolLabel(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
