package objfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/model"
	"github.com/Faultbox/phongview/internal/logger"
)

// Load reads an OBJ file and the material library it names, returning one
// mesh per object/material group. A missing library is a warning; its
// materials fall back to the default. Texture paths are resolved against
// the library's directory.
func Load(path string) ([]*model.Mesh, error) {
	log := logger.Named("objfile").With(zap.String("file", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening obj: %w", err)
	}
	defer f.Close()

	dec := NewDecoder()
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if dec.MtlLib != "" {
		mtlPath := filepath.Join(filepath.Dir(path), dec.MtlLib)
		if err := loadMaterials(dec, mtlPath); err != nil {
			log.Warn("material library not loaded", zap.String("mtllib", mtlPath), zap.Error(err))
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	meshes, err := dec.Meshes(name)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}

	for _, w := range dec.Warnings {
		log.Debug("obj warning", zap.String("warning", w))
	}
	log.Info("obj loaded",
		zap.Int("vertices", len(dec.Vertices)),
		zap.Int("meshes", len(meshes)),
		zap.Int("materials", len(dec.Materials)),
	)
	return meshes, nil
}

func loadMaterials(dec *Decoder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := dec.DecodeMaterials(f); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	for _, mat := range dec.Materials {
		if mat.Texture != "" && !filepath.IsAbs(mat.Texture) {
			mat.Texture = filepath.Join(dir, filepath.FromSlash(mat.Texture))
		}
	}
	return nil
}
