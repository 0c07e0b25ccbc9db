// Package config manages user-level settings stored at ~/.ngxe/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default pluralization language, primary key and conflict policy used
// by the generators when no flag is given.
package config
