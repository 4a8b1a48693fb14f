// Package config with configuration models and utilities
package config

import (
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Defaults applied to missing values
const (
	DefaultUserAgent = "blueprint/1.0 (+https://github.com/eientei/blueprint)"
	DefaultTimeout   = 30 * time.Second
	DefaultMaxSize   = 8 << 20
	DefaultSnapshots = 5
)

// Read reads configuration
func Read(reader io.Reader) (root *Root, err error) {
	root = &Root{}

	err = yaml.NewDecoder(reader).Decode(root)
	if err == io.EOF {
		err = nil
	}

	if err != nil {
		return
	}

	root.defaults()

	return
}

func (root *Root) defaults() {
	if root.Private.Fetch.UserAgent == "" {
		root.Private.Fetch.UserAgent = DefaultUserAgent
	}

	if root.Private.Fetch.Timeout == 0 {
		root.Private.Fetch.Timeout = DefaultTimeout
	}

	if root.Private.Fetch.MaxSize == 0 {
		root.Private.Fetch.MaxSize = DefaultMaxSize
	}

	for i := range root.Servers {
		if root.Servers[i].Snapshots == 0 {
			root.Servers[i].Snapshots = DefaultSnapshots
		}
	}
}
