package readability

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of Options. Unset fields keep their defaults.
//
//	debug: true
//	removeClassNames: false
//	pagination:
//	  enable: true
//	  maxPages: 10
//	timeouts:
//	  extraction: 45s
//	  fetch: 5s
//	userAgent: my-reader/1.0
type FileConfig struct {
	Debug                      *bool  `yaml:"debug"`
	Profile                    *bool  `yaml:"profile"`
	RemoveReadabilityArtifacts *bool  `yaml:"removeReadabilityArtifacts"`
	RemoveClassNames           *bool  `yaml:"removeClassNames"`
	HTML5                      *bool  `yaml:"html5"`
	UserAgent                  string `yaml:"userAgent"`

	Pagination struct {
		Enable   *bool `yaml:"enable"`
		MaxPages int   `yaml:"maxPages"`
	} `yaml:"pagination"`

	Timeouts struct {
		Extraction time.Duration `yaml:"extraction"`
		Fetch      time.Duration `yaml:"fetch"`
	} `yaml:"timeouts"`
}

// LoadConfig reads a YAML config file and returns the options it sets.
func LoadConfig(path string) ([]Option, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML and returns the options it sets. Unknown keys are
// rejected; an empty document sets nothing.
func ParseConfig(data []byte) ([]Option, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return fc.Options(), nil
}

// Options converts the file config to functional options.
func (fc FileConfig) Options() []Option {
	var opts []Option
	if fc.Debug != nil {
		opts = append(opts, WithDebug(*fc.Debug))
	}
	if fc.Profile != nil {
		opts = append(opts, WithProfile(*fc.Profile))
	}
	if fc.RemoveReadabilityArtifacts != nil {
		opts = append(opts, WithRemoveReadabilityArtifacts(*fc.RemoveReadabilityArtifacts))
	}
	if fc.RemoveClassNames != nil {
		opts = append(opts, WithRemoveClassNames(*fc.RemoveClassNames))
	}
	if fc.HTML5 != nil {
		opts = append(opts, WithHTML5(*fc.HTML5))
	}
	if fc.UserAgent != "" {
		opts = append(opts, WithUserAgent(fc.UserAgent))
	}
	if fc.Pagination.Enable != nil {
		opts = append(opts, WithPagination(*fc.Pagination.Enable))
	}
	if fc.Pagination.MaxPages > 0 {
		opts = append(opts, WithMaxPages(fc.Pagination.MaxPages))
	}
	if fc.Timeouts.Extraction > 0 {
		opts = append(opts, WithTimeout(fc.Timeouts.Extraction))
	}
	if fc.Timeouts.Fetch > 0 {
		opts = append(opts, WithFetchTimeout(fc.Timeouts.Fetch))
	}
	return opts
}
