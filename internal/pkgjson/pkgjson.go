package pkgjson

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ngx-essentials/ngxe/internal/jsondoc"
	"github.com/ngx-essentials/ngxe/internal/logx"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"go.uber.org/zap"
)

// FileName is the manifest path inside the tree.
const FileName = "/package.json"

const (
	sectionDeps    = "dependencies"
	sectionDevDeps = "devDependencies"
)

var nonVersionRe = regexp.MustCompile(`[^\d.]`)

// PatchOptions names the packages involved and the version floor.
type PatchOptions struct {
	HostPackage      string // e.g. "@angular/core"
	CompanionPackage string // e.g. "@ngrx/signals"
	ToolPackage      string // moved to devDependencies when found in dependencies
	MinMajor         int
}

// Result reports what Patch did.
type Result struct {
	// Applied is false when the host version is unsupported; nothing is
	// staged in that case.
	Applied          bool
	HostVersion      string
	HostMajor        int
	CompanionVersion string
	ToolMoved        bool
	Reason           string
}

// HostMajor extracts the major version from a version range such as
// "^17.1.0" or "~16.2.3": every character other than digits and dots is
// dropped and the part before the first dot is parsed.
func HostMajor(version string) (int, error) {
	cleaned := nonVersionRe.ReplaceAllString(version, "")
	major, _, _ := strings.Cut(cleaned, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("cannot read a major version from %q", version)
	}
	return n, nil
}

// CompanionRange returns the caret range pinned to major, e.g. "^17.0.0".
func CompanionRange(major int) (string, error) {
	v := semver.New(uint64(major), 0, 0, "", "")
	r := "^" + v.String()
	if _, err := semver.NewConstraint(r); err != nil {
		return "", fmt.Errorf("building companion range: %w", err)
	}
	return r, nil
}

// Supported reports whether major meets the floor.
func Supported(major, minMajor int) bool {
	floor := semver.New(uint64(minMajor), 0, 0, "", "")
	detected := semver.New(uint64(major), 0, 0, "", "")
	return !detected.LessThan(floor)
}

// Patch rewrites package.json in t. A missing manifest or an undeterminable
// host version is a *ConfigError. An unsupported host version is logged and
// returned as Result.Applied=false with the tree left untouched.
func Patch(t tree.Tree, opts PatchOptions, log logx.Logger) (*Result, error) {
	if log == nil {
		log = logx.Nop()
	}

	data, ok := t.Read(FileName)
	if !ok {
		return nil, &ConfigError{
			Op:  "read " + FileName,
			Msg: "could not find package.json; make sure you are in the root of an Angular project",
		}
	}
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, &ConfigError{Op: "parse " + FileName, Msg: err.Error()}
	}
	root := doc.Root()

	hostVersion, found := lookupVersion(root, opts.HostPackage)
	if !found {
		return nil, &ConfigError{
			Op: "detect " + opts.HostPackage,
			Msg: fmt.Sprintf("the version of %s could not be determined; make sure it is installed in your project",
				opts.HostPackage),
		}
	}
	major, err := HostMajor(hostVersion)
	if err != nil {
		return nil, &ConfigError{Op: "detect " + opts.HostPackage, Msg: err.Error()}
	}

	res := &Result{HostVersion: hostVersion, HostMajor: major}

	if !Supported(major, opts.MinMajor) {
		res.Reason = fmt.Sprintf("%s v%d or higher is required, detected v%d", opts.HostPackage, opts.MinMajor, major)
		log.Error("unsupported framework version",
			zap.String("package", opts.HostPackage),
			zap.Int("detected", major),
			zap.Int("minimum", opts.MinMajor))
		return res, nil
	}

	companion, err := CompanionRange(major)
	if err != nil {
		return nil, err
	}
	res.CompanionVersion = companion
	log.Info("configuring dependencies", zap.Int("major", major), zap.String(opts.CompanionPackage, companion))

	deps := root.EnsureObject(sectionDeps)
	deps.SetString(opts.CompanionPackage, companion)

	devDeps := root.EnsureObject(sectionDevDeps)
	if opts.ToolPackage != "" {
		if v, ok := deps.String(opts.ToolPackage); ok {
			deps.Delete(opts.ToolPackage)
			devDeps.SetString(opts.ToolPackage, v)
			res.ToolMoved = true
		}
	}

	deps.SortKeys()
	devDeps.SortKeys()

	out, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	if err := t.Overwrite(FileName, out); err != nil {
		return nil, fmt.Errorf("writing %s: %w", FileName, err)
	}
	res.Applied = true
	return res, nil
}

// lookupVersion finds pkg in dependencies first, then devDependencies.
func lookupVersion(root jsondoc.Object, pkg string) (string, bool) {
	for _, section := range []string{sectionDeps, sectionDevDeps} {
		if obj, ok := root.Object(section); ok {
			if v, ok := obj.String(pkg); ok && v != "" {
				return v, true
			}
		}
	}
	return "", false
}
