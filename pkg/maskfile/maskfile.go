// Package maskfile reads and writes the on-disk mask encodings and
// resolves where a mask file lives next to its image.
//
// Two shapes are accepted on read: a bare 2-D integer grid, and a keyed
// record wrapping such a grid under a "masks" field alongside provenance
// metadata this engine does not interpret. Only the bare grid is ever
// written, so a keyed record rewritten through this package loses its
// metadata. Payloads may be YAML or JSON; JSON parses as a YAML subset.
package maskfile

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-cellseg/cellseg/pkg/errors"
	"github.com/go-cellseg/cellseg/pkg/mask"
)

// Suffix is appended to an image's stem to name its mask file.
const Suffix = "_seg.yaml"

// ErrUnrecognizedFormat is returned when a payload is neither a bare grid
// nor a keyed record with a masks field.
var ErrUnrecognizedFormat = stderrors.New("maskfile: unrecognized mask file format")

// ResolvePath returns the mask file path for an image: the image's stem
// plus Suffix, in the image's own directory.
func ResolvePath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+Suffix)
}

// Decode parses a mask payload into a labeled grid. The payload's shape is
// resolved by the parsed node kind: a sequence is the bare grid, a mapping
// is the keyed record.
func Decode(data []byte) (*mask.Grid, error) {
	const op = "maskfile.Decode"

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.E(op, errors.KindFormat, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err))
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.E(op, errors.KindFormat, ErrUnrecognizedFormat)
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return decodeGrid(op, root)
	case yaml.MappingNode:
		// Mapping content alternates key and value nodes.
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "masks" {
				return decodeGrid(op, root.Content[i+1])
			}
		}
		return nil, errors.E(op, errors.KindFormat,
			fmt.Errorf("%w: record has no masks field", ErrUnrecognizedFormat))
	default:
		return nil, errors.E(op, errors.KindFormat, ErrUnrecognizedFormat)
	}
}

func decodeGrid(op string, node *yaml.Node) (*mask.Grid, error) {
	var rows [][]int32
	if err := node.Decode(&rows); err != nil {
		return nil, errors.E(op, errors.KindFormat, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err))
	}
	g := mask.GridFromRows(rows)
	if g == nil {
		return nil, errors.E(op, errors.KindFormat,
			fmt.Errorf("%w: grid is empty or ragged", ErrUnrecognizedFormat))
	}
	return g, nil
}

// Encode serializes a grid in the bare-grid form: a block sequence of
// flow-style rows, one image row per line.
func Encode(g *mask.Grid) []byte {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range g.Rows() {
		rowNode := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range row {
			rowNode.Content = append(rowNode.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!int",
				Value: strconv.FormatInt(int64(v), 10),
			})
		}
		root.Content = append(root.Content, rowNode)
	}
	out, err := yaml.Marshal(root)
	if err != nil {
		// A grid of integers always marshals; this is unreachable.
		panic(err)
	}
	return out
}

// Save writes the grid to path atomically: the bytes land in a temporary
// file in the same directory which is then renamed over the target, so a
// failed write never corrupts the previous file. A grid with no masks
// removes the file instead, matching the editor's empty-save behavior.
func Save(path string, g *mask.Grid) error {
	const op = "maskfile.Save"

	if g.CountMasks() == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &errors.SegError{Op: op, Kind: errors.KindIO, Err: err, Path: path}
		}
		return nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &errors.SegError{Op: op, Kind: errors.KindIO, Err: err, Path: path}
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(Encode(g))
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		os.Remove(tmpName)
		return &errors.SegError{Op: op, Kind: errors.KindIO, Err: werr, Path: path}
	}
	return nil
}

// Load reads and decodes the mask file at path. A missing file is not an
// error: the image simply has no masks yet, and both returns are nil.
func Load(path string) (*mask.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &errors.SegError{Op: "maskfile.Load", Kind: errors.KindIO, Err: err, Path: path}
	}
	g, err := Decode(data)
	if err != nil {
		if se, ok := err.(*errors.SegError); ok {
			se.Path = path
		}
		return nil, err
	}
	return g, nil
}
