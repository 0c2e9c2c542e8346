package importer

import "github.com/ksons/gltf-blender-importer/gltf"

// Report summarizes one import attempt in a form that serializes cleanly
// to YAML for the command line checker.
type Report struct {
	File  string       `yaml:"file"`
	OK    bool         `yaml:"ok"`
	Error *ErrorReport `yaml:"error,omitempty"`
	Stats *Stats       `yaml:"stats,omitempty"`
}

type ErrorReport struct {
	Kind   string `yaml:"kind"`
	Entity string `yaml:"entity,omitempty"`
	Index  int    `yaml:"index"`
	Field  string `yaml:"field,omitempty"`
	Detail string `yaml:"detail,omitempty"`
}

type Stats struct {
	Nodes      int `yaml:"nodes"`
	Meshes     int `yaml:"meshes"`
	Materials  int `yaml:"materials"`
	Cameras    int `yaml:"cameras"`
	Lights     int `yaml:"lights"`
	Skins      int `yaml:"skins"`
	Animations int `yaml:"animations"`
}

// NewReport builds the report for one file from what the recorder saw and
// the import error, if any.
func NewReport(file string, rec *Recorder, err error) *Report {
	r := &Report{File: file, OK: err == nil}
	if err != nil {
		er := &ErrorReport{Kind: gltf.KindName(err), Index: -1, Detail: err.Error()}
		if e, ok := gltf.AsError(err); ok {
			er.Entity = e.Entity
			er.Index = e.Index
			er.Field = e.Field
			er.Detail = e.Detail
		}
		r.Error = er
		return r
	}
	r.Stats = &Stats{
		Nodes:      len(rec.Nodes),
		Meshes:     len(rec.Meshes),
		Materials:  len(rec.Materials),
		Cameras:    len(rec.Cameras),
		Lights:     len(rec.Lights),
		Skins:      len(rec.Skins),
		Animations: len(rec.Animations),
	}
	return r
}
