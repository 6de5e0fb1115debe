package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML profile over the defaults. Fields absent from data
// keep their default values; lists present in data replace the default list.
func Parse(data []byte) (Profile, error) {
	p := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		if err == io.EOF {
			return p, nil
		}
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Profile{}, fmt.Errorf("parse profile: multiple YAML documents are not supported")
		}
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// Load reads, parses and validates a profile file. An empty path yields
// the default profile.
func Load(path string) (Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, err
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
