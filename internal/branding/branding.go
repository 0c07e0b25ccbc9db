// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package; Go's //go:embed bakes it into
// the binary. The collection identifier and the package names it carries are
// written into the projects the CLI touches, so changing them changes what
// generated workspaces look like.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	GoModule         string `yaml:"go_module"`
	Collection       string `yaml:"collection"`
	HostPackage      string `yaml:"host_package"`
	CompanionPackage string `yaml:"companion_package"`
	MinHostMajor     int    `yaml:"min_host_major"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "ngxe",
			DisplayName:      "ngx-essentials",
			Description:      "Signal-store scaffolding for Angular workspaces",
			HomeDir:          ".ngxe",
			EnvPrefix:        "NGXE",
			GoModule:         "github.com/ngx-essentials/ngxe",
			Collection:       "ngx-essentials-schematics",
			HostPackage:      "@angular/core",
			CompanionPackage: "@ngrx/signals",
			MinHostMajor:     16,
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "ngxe").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".ngxe").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "NGXE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// Collection returns the schematic collection identifier registered in
// angular.json and used as the tool's own npm package name.
func Collection() string { load(); return defaults.Collection }

// GlobalOptionsKey returns the angular.json "schematics" key holding
// workspace-wide defaults, e.g. "ngx-essentials-schematics:all".
func GlobalOptionsKey() string { load(); return defaults.Collection + ":all" }

// HostPackage returns the framework core package whose version gates setup.
func HostPackage() string { load(); return defaults.HostPackage }

// CompanionPackage returns the package injected next to the host framework.
func CompanionPackage() string { load(); return defaults.CompanionPackage }

// MinHostMajor returns the lowest supported major version of HostPackage.
func MinHostMajor() int { load(); return defaults.MinHostMajor }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("LANG") → "NGXE_LANG".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
