package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kankiry/stm32-usb-cli/shell"
)

const currentTableVersion = 1

// ErrUnsupportedFormat is returned for table files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported command table format")

// Table is a file of canned commands: each one answers with a fixed text.
type Table struct {
	Version  int      `toml:"version" yaml:"version"`
	Commands []Canned `toml:"commands" yaml:"commands"`
}

// Canned is a command with a fixed response.
type Canned struct {
	Name     string `toml:"name" yaml:"name"`
	Response string `toml:"response" yaml:"response"`
	// AllowArgs accepts and ignores argument text. Without it any argument
	// is rejected as invalid.
	AllowArgs bool `toml:"allow_args" yaml:"allow_args"`
}

// Exec implements shell.Handler.
func (c Canned) Exec(args string, w io.Writer) error {
	if args != "" && !c.AllowArgs {
		return shell.ErrInvalidArgument
	}
	_, err := io.WriteString(w, c.Response)
	return err
}

// LoadTable reads a command table. The format follows the file extension:
// .toml, or .yaml/.yml.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command table: %w", err)
	}

	var table Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &table)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode command table %s: %w", path, err)
	}

	if table.Version == 0 {
		table.Version = currentTableVersion
	}
	if table.Version > currentTableVersion {
		return nil, fmt.Errorf("unsupported command table version %d (current %d)", table.Version, currentTableVersion)
	}
	return &table, nil
}

// RegisterTable adds every command of t to r, stopping at the first
// registration error.
func (r *Registry) RegisterTable(t *Table) error {
	for _, c := range t.Commands {
		if err := r.Register(c.Name, c); err != nil {
			return fmt.Errorf("register %q: %w", c.Name, err)
		}
	}
	return nil
}
