package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ksons/gltf-blender-importer/importer"
)

func isModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".gltf" || ext == ".glb"
}

func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && isModelFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func main() {
	scene := flag.Int("scene", -1, "scene index to import (default: the document's default scene)")
	scale := flag.Float64("scale", 1, "global scale applied to the imported scene")
	keepAxes := flag.Bool("keepaxes", false, "keep glTF's Y-up axes instead of converting to Z-up")
	noAnim := flag.Bool("noanim", false, "skip animations")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("usage: gltfcheck [options] input.glb ...")
		fmt.Println(" accepts .gltf and .glb files or directories to scan")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}

	// os.Exit skips deferred calls, so flush the logger here instead
	code := run(logger, *scene, *scale, *keepAxes, *noAnim)
	logger.Sync()
	os.Exit(code)
}

func run(logger *zap.Logger, scene int, scale float64, keepAxes, noAnim bool) int {
	files, err := collectInputs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	failed := 0
	var reports []*importer.Report
	for _, file := range files {
		logger.Info("importing", zap.String("file", file))
		opt := &importer.Options{
			ImportAnimations: !noAnim,
			GlobalScale:      float32(scale),
			Axis:             importer.AxisZUp,
			Logger:           logger,
		}
		if keepAxes {
			opt.Axis = importer.AxisKeep
		}
		if scene >= 0 {
			s := scene
			opt.Scene = &s
		}
		rec := &importer.Recorder{}
		err := importer.New(opt).ImportFile(file, rec)
		if err != nil {
			failed++
		}
		reports = append(reports, importer.NewReport(file, rec, err))
	}

	out, err := yaml.Marshal(reports)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	os.Stdout.Write(out)
	if failed > 0 {
		return 1
	}
	return 0
}
