package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed holidays.yaml
var defaultHolidays []byte

// DefaultHolidayTable returns the built-in statutory holiday table.
func DefaultHolidayTable() *HolidayTable {
	t, err := DecodeHolidayYAML(bytes.NewReader(defaultHolidays))
	if err != nil {
		// The embedded table is part of the binary; failing to parse it is a build defect.
		panic(errors.Wrap(err, "embedded holiday table"))
	}
	return t
}

// DecodeHolidayJSON reads a JSON holiday table.
func DecodeHolidayJSON(r io.Reader) (*HolidayTable, error) {
	var f HolidayFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode holiday json")
	}
	return NewHolidayTableFromFile(f)
}

// DecodeHolidayYAML reads a YAML holiday table.
func DecodeHolidayYAML(r io.Reader) (*HolidayTable, error) {
	var f HolidayFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode holiday yaml")
	}
	return NewHolidayTableFromFile(f)
}

// ReadHolidayFile decodes the raw holiday file at path. The format follows the
// extension: .json, or .yaml/.yml.
func ReadHolidayFile(path string) (HolidayFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read holiday file %s", path)
	}
	var f HolidayFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, errors.Errorf("unsupported holiday file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode holiday file %s", path)
	}
	return f, nil
}

// LoadHolidayFile reads a holiday table from path.
func LoadHolidayFile(path string) (*HolidayTable, error) {
	f, err := ReadHolidayFile(path)
	if err != nil {
		return nil, err
	}
	return NewHolidayTableFromFile(f)
}
