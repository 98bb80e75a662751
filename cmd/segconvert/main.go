// Package main provides segconvert, a batch normalizer for mask files.
// It walks a directory tree for *_seg.yaml files and rewrites keyed-record
// payloads to the bare-grid form the editor writes, so a mixed collection
// of legacy and current files ends up in one encoding.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-cellseg/cellseg/pkg/mask"
	"github.com/go-cellseg/cellseg/pkg/maskfile"
)

type status string

const (
	statusBareGrid     status = "bare-grid"
	statusConverted    status = "converted"
	statusUnrecognized status = "unrecognized"
	statusError        status = "error"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "show what would be converted without writing")
	backup := flag.Bool("backup", false, "create .backup copies before converting")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: segconvert [flags] <directory>\n\n")
		fmt.Fprintf(os.Stderr, "Normalizes keyed-record mask files under <directory> to the bare-grid form.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	root := flag.Arg(0)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: not a directory: %s\n", root)
		os.Exit(1)
	}

	files, err := findMaskFiles(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No mask files (*%s) found under %s\n", maskfile.Suffix, root)
		return
	}

	fmt.Printf("Found %d mask files under %s\n", len(files), root)
	if *dryRun {
		fmt.Println("Dry run: no files will be modified")
	}

	counts := map[status]int{}
	for i, path := range files {
		st, detail := convertFile(path, *dryRun, *backup)
		counts[st]++
		line := fmt.Sprintf("[%d/%d] %-12s %s", i+1, len(files), st, path)
		if detail != "" {
			line += " (" + detail + ")"
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Printf("Converted:    %d\n", counts[statusConverted])
	fmt.Printf("Already bare: %d\n", counts[statusBareGrid])
	fmt.Printf("Unrecognized: %d\n", counts[statusUnrecognized])
	fmt.Printf("Errors:       %d\n", counts[statusError])
	if *dryRun && counts[statusConverted] > 0 {
		fmt.Println("Run without --dry-run to convert these files.")
	}
}

// findMaskFiles returns every *_seg.yaml under root, sorted. Hidden
// resource-fork style files ("._...") are skipped.
func findMaskFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() || strings.HasPrefix(name, "._") {
			return nil
		}
		if strings.HasSuffix(name, maskfile.Suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// convertFile classifies one mask file and rewrites keyed records.
func convertFile(path string, dryRun, backup bool) (status, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return statusError, err.Error()
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return statusUnrecognized, ""
	}
	if doc.Content[0].Kind == yaml.SequenceNode {
		return statusBareGrid, ""
	}

	g, err := maskfile.Decode(data)
	if err != nil {
		return statusUnrecognized, ""
	}

	detail := fmt.Sprintf("%d masks", g.CountMasks())
	if dryRun {
		return statusConverted, detail
	}
	if backup {
		if err := os.WriteFile(path+".backup", data, 0o644); err != nil {
			return statusError, err.Error()
		}
	}
	if err := writeBareGrid(path, g); err != nil {
		return statusError, err.Error()
	}
	return statusConverted, detail
}

// writeBareGrid rewrites path with the bare-grid encoding. Unlike the
// editor's save path this keeps the file even when it holds no masks; the
// converter normalizes encodings, it does not prune.
func writeBareGrid(path string, g *mask.Grid) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(maskfile.Encode(g))
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		os.Remove(tmpName)
		return werr
	}
	return nil
}
