package chart

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/docker/go-units"
	vfs "github.com/twpayne/go-vfs/v4"

	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

// File is one record of an inline chart payload.
type File struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Decode parses a CHART_JSON payload. When gzipped is set the payload is
// base64 encoded gzip of the JSON document.
func Decode(payload string, gzipped bool) ([]File, error) {
	raw := []byte(payload)
	if gzipped {
		compressed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "CHART_JSON is not valid base64", err)
		}
		zr, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "CHART_JSON is not valid gzip", err)
		}
		defer zr.Close()
		if raw, err = io.ReadAll(zr); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decompress CHART_JSON", err)
		}
		slog.Debug("chart payload decompressed",
			"compressed", units.HumanSize(float64(len(compressed))),
			"size", units.HumanSize(float64(len(raw))))
	}

	var files []File
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "CHART_JSON is not a valid chart payload", err)
	}
	return files, nil
}

// Materialize writes files below dir on fs, creating parent directories.
// Names must be relative and stay inside dir.
func Materialize(fs vfs.FS, dir string, files []File) error {
	var total int
	for _, f := range files {
		rel, err := cleanName(f.Name)
		if err != nil {
			return err
		}
		target := path.Join(dir, rel)
		if err := vfs.MkdirAll(fs, path.Dir(target), 0o755); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal, "failed to create chart directory", err,
				map[string]any{"path": path.Dir(target)})
		}
		if err := fs.WriteFile(target, []byte(f.Data), 0o644); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write chart file", err,
				map[string]any{"path": target})
		}
		total += len(f.Data)
	}

	slog.Info("chart payload materialized",
		"dir", dir,
		"files", len(files),
		"size", units.HumanSize(float64(total)))
	return nil
}

func cleanName(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "CHART_JSON contains a file without a name")
	}
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || clean == "." {
		return "", errors.WrapWithContext(errors.ErrCodeInvalidConfiguration,
			fmt.Sprintf("CHART_JSON file name %q escapes the chart directory", name), nil,
			map[string]any{"name": name})
	}
	return clean, nil
}
