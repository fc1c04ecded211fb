package pagefs

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagebuilder/pkg/model"
)

// Well-known entries of a site directory.
const (
	DirParts    = "parts"
	DirImages   = "images"
	DirCSS      = "css"
	PageFile    = "page"
	BackendFile = "backend"
)

// LoadFS walks fsys and assembles page data from a site directory:
//
//	page.{json,yaml}          top-level components
//	backend.{json,yaml}       backend data
//	parts/<tier>/*.{json,yaml} one type, or a list of types, per file
//	images/<tier>.{json,yaml} image entries of a tier
//	css/<tier>.css            stylesheet of a tier
//
// Tiers are common, individual and special. Files are visited in lexical
// order so catalogs are deterministic. Other files are ignored. A nil fsys
// yields empty page data.
func LoadFS(fsys fs.FS) (model.PageData, error) {
	var data model.PageData
	if fsys == nil {
		return data, nil
	}

	var sawPage, sawBackend bool
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}

		dir, file := path.Split(p)
		dir = strings.TrimSuffix(dir, "/")
		ext := strings.ToLower(path.Ext(file))
		stem := strings.TrimSuffix(file, path.Ext(file))

		switch {
		case dir == "" && stem == PageFile && isDataFile(ext):
			if sawPage {
				return fmt.Errorf("pagefs: duplicate page file %s", p)
			}
			sawPage = true
			return decodeFile(fsys, p, &data.Page)

		case dir == "" && stem == BackendFile && isDataFile(ext):
			if sawBackend {
				return fmt.Errorf("pagefs: duplicate backend file %s", p)
			}
			sawBackend = true
			return decodeFile(fsys, p, &data.BackendData)

		case strings.HasPrefix(dir, DirParts+"/") && isDataFile(ext):
			tier, err := parseTier(strings.SplitN(strings.TrimPrefix(dir, DirParts+"/"), "/", 2)[0], p)
			if err != nil {
				return err
			}
			types, err := decodeTypes(fsys, p)
			if err != nil {
				return err
			}
			appendTypes(&data.Parts, tier, types)
			return nil

		case dir == DirImages && isDataFile(ext):
			tier, err := parseTier(stem, p)
			if err != nil {
				return err
			}
			var images []model.ImageEntry
			if err := decodeFile(fsys, p, &images); err != nil {
				return err
			}
			appendImages(&data.Images, tier, images)
			return nil

		case dir == DirCSS && ext == ".css":
			tier, err := parseTier(stem, p)
			if err != nil {
				return err
			}
			css, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("pagefs: read %s: %w", p, err)
			}
			setCSS(&data.CSS, tier, string(css))
			return nil
		}
		return nil
	})
	if err != nil {
		return model.PageData{}, err
	}
	return data, nil
}

// LoadDocument reads one JSON or YAML file holding complete page data.
func LoadDocument(fsys fs.FS, name string) (model.PageData, error) {
	var data model.PageData
	if err := decodeFile(fsys, name, &data); err != nil {
		return model.PageData{}, err
	}
	return data, nil
}

// Decode parses src as JSON, falling back to YAML. YAML input is converted
// to JSON first so custom JSON decoders, such as the component field
// flattening, apply to both formats.
func Decode(src []byte, source string, v any) error {
	if len(strings.TrimSpace(string(src))) == 0 {
		return fmt.Errorf("pagefs: file %s is empty", source)
	}

	jsonErr := json.Unmarshal(src, v)
	if jsonErr == nil {
		return nil
	}

	var doc any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return fmt.Errorf("pagefs: parse %s: invalid JSON or YAML: %w", source, jsonErr)
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("pagefs: parse %s: %w", source, err)
	}
	if err := json.Unmarshal(converted, v); err != nil {
		return fmt.Errorf("pagefs: decode %s: %w", source, err)
	}
	return nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("pagefs: read %s: %w", name, err)
	}
	return Decode(src, name, v)
}

// decodeTypes accepts a single type object or a list of types.
func decodeTypes(fsys fs.FS, name string) ([]model.Type, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("pagefs: read %s: %w", name, err)
	}
	var list []model.Type
	if err := Decode(src, name, &list); err == nil {
		return list, nil
	}
	var single model.Type
	if err := Decode(src, name, &single); err != nil {
		return nil, err
	}
	if strings.TrimSpace(single.ID) == "" {
		return nil, fmt.Errorf("pagefs: file %s defines a type without id", name)
	}
	return []model.Type{single}, nil
}

func isDataFile(ext string) bool {
	switch ext {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parseTier(name, source string) (model.Tier, error) {
	for _, tier := range model.Tiers() {
		if string(tier) == name {
			return tier, nil
		}
	}
	return "", fmt.Errorf("pagefs: %s: unknown tier %q", source, name)
}

func appendTypes(parts *model.PartTiers, tier model.Tier, types []model.Type) {
	switch tier {
	case model.TierCommon:
		parts.Common = append(parts.Common, types...)
	case model.TierIndividual:
		parts.Individual = append(parts.Individual, types...)
	case model.TierSpecial:
		parts.Special = append(parts.Special, types...)
	}
}

func appendImages(images *model.ImageTiers, tier model.Tier, entries []model.ImageEntry) {
	switch tier {
	case model.TierCommon:
		images.Common = append(images.Common, entries...)
	case model.TierIndividual:
		images.Individual = append(images.Individual, entries...)
	case model.TierSpecial:
		images.Special = append(images.Special, entries...)
	}
}

func setCSS(css *model.CSSTiers, tier model.Tier, src string) {
	switch tier {
	case model.TierCommon:
		css.Common = src
	case model.TierIndividual:
		css.Individual = src
	case model.TierSpecial:
		css.Special = src
	}
}
