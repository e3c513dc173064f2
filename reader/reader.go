// Package reader locates the source a driver should run: a single .ham file,
// or a project directory described by a ham.yml manifest.
package reader

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/ham-lang/hamgo/interp"
)

var plog = capnslog.NewPackageLogger("github.com/ham-lang/hamgo", "reader")

const (
	ManifestFile = "ham.yml"
	DefaultMain  = "main.ham"
	Extension    = ".ham"
)

type Manifest struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Main         string `yaml:"main,omitempty"`
	MaxCallDepth int    `yaml:"max_call_depth,omitempty"`
}

// Project is a loaded entry file. Manifest is nil for a bare file.
type Project struct {
	Dir      string
	Entry    string
	Source   string
	Manifest *Manifest
}

type MissingManifest struct {
	Dir string
}

func (m MissingManifest) Error() string {
	return fmt.Sprintf("%s does not contain a %s", m.Dir, ManifestFile)
}

type InvalidManifest struct {
	Path   string
	Reason string
}

func (m InvalidManifest) Error() string {
	return fmt.Sprintf("invalid manifest %s: %s", m.Path, m.Reason)
}

// ReadManifest parses a ham.yml file. Name and version are required; main
// defaults to main.ham.
func ReadManifest(path string) (*Manifest, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var doc Manifest
	err = yaml.UnmarshalStrict(data, &doc)
	if err != nil {
		return nil, tracerr.Wrap(InvalidManifest{Path: path, Reason: err.Error()})
	}
	switch {
	case doc.Name == "":
		return nil, tracerr.Wrap(InvalidManifest{Path: path, Reason: "name is required"})
	case doc.Version == "":
		return nil, tracerr.Wrap(InvalidManifest{Path: path, Reason: "version is required"})
	case doc.MaxCallDepth < 0:
		return nil, tracerr.Wrap(InvalidManifest{Path: path, Reason: "max_call_depth must not be negative"})
	case doc.MaxCallDepth > interp.MaxCallDepthLimit:
		return nil, tracerr.Wrap(InvalidManifest{
			Path:   path,
			Reason: fmt.Sprintf("max_call_depth must not exceed %d", interp.MaxCallDepthLimit),
		})
	}
	if doc.Main == "" {
		doc.Main = DefaultMain
	}
	return &doc, nil
}

// WriteManifest creates dir/ham.yml, refusing to overwrite an existing one.
func WriteManifest(dir string, m Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return tracerr.Wrap(err)
	}

	path := filepath.Join(dir, ManifestFile)
	fi, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer fi.Close()

	_, err = fi.Write(out)
	if err != nil {
		return tracerr.Wrap(err)
	}
	plog.Infof("wrote %s", path)
	return nil
}

// Load reads a .ham file, or the entry file of the project rooted at path.
func Load(path string) (*Project, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	if !fi.IsDir() {
		src, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		if filepath.Ext(path) != Extension {
			plog.Warningf("%s does not have the %s extension", path, Extension)
		}
		return &Project{Dir: filepath.Dir(path), Entry: path, Source: string(src)}, nil
	}

	manifestPath := filepath.Join(path, ManifestFile)
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, tracerr.Wrap(MissingManifest{Dir: path})
	}
	m, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	entry := filepath.Join(path, m.Main)
	src, err := ioutil.ReadFile(entry)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	plog.Infof("loaded project %s %s (entry %s)", m.Name, m.Version, m.Main)
	return &Project{Dir: path, Entry: entry, Source: string(src), Manifest: m}, nil
}
