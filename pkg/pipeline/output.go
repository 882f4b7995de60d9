package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// DefaultOutputName returns QR_{start}_{end}.{format}, end being exclusive.
func DefaultOutputName(start, end int, format string) string {
	return fmt.Sprintf("QR_%d_%d.%s", start, end, format)
}

// OutputPath returns the file name of one artifact given the primary output
// path. The primary path's extension is replaced by the artifact's format.
// PNG pages get a -N suffix when there is more than one page.
func OutputPath(output, key string, pngPages int) string {
	stem := strings.TrimSuffix(output, filepath.Ext(output))
	format, page, isPage := strings.Cut(key, ":")
	if isPage && pngPages > 1 {
		return fmt.Sprintf("%s-%s.%s", stem, page, format)
	}
	return stem + "." + format
}

// WriteArtifacts writes every artifact of res next to output and returns the
// paths in format order. All artifacts are first written to temporary names
// in the target directory and only then renamed into place, so a failed write
// leaves every target untouched. A failing rename leaves the files renamed
// before it in place; their paths are returned with the error.
func WriteArtifacts(res *Result, output string) ([]string, error) {
	if err := errors.ValidateOutputPath(output); err != nil {
		return nil, err
	}

	pngPages := 0
	for k := range res.Artifacts {
		if strings.HasPrefix(k, FormatPNG+":") {
			pngPages++
		}
	}

	var keys []string
	for _, format := range res.Formats {
		if format == FormatPNG {
			for i := 1; i <= pngPages; i++ {
				keys = append(keys, pngKey(i))
			}
			continue
		}
		if _, ok := res.Artifacts[format]; ok {
			keys = append(keys, format)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "no artifacts to write")
	}

	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		path := OutputPath(output, k, pngPages)
		if err := errors.ValidateOutputPath(path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	staged := make([]string, 0, len(keys))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for i, k := range keys {
		tmp, err := stageFile(paths[i], res.Artifacts[k])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCollaborator, err, "save %s", paths[i])
		}
		staged = append(staged, tmp)
	}
	for i, tmp := range staged {
		if err := renameFile(tmp, paths[i]); err != nil {
			return paths[:i], errors.Wrap(errors.ErrCodeCollaborator, err, "save %s", paths[i])
		}
	}
	return paths, nil
}

var renameFile = os.Rename

// stageFile writes data to a synced temporary file next to path and returns
// its name.
func stageFile(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, 0o644)
	}
	if err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
