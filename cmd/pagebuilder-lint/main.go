package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-pagebuilder/pkg/fields"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
)

type violation struct {
	site     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [site dirs...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint page builder sites for broken references and invalid field values.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var violations []violation
	for _, path := range paths {
		linted, err := lintSite(path, os.DirFS(path))
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sortViolations(violations)
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.site, v.location, v.message)
		}
		os.Exit(1)
	}
}

func sortViolations(violations []violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].site == violations[j].site {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].site < violations[j].site
	})
}

func lintSite(site string, fsys fs.FS) ([]violation, error) {
	data, err := pagefs.LoadFS(fsys)
	if err != nil {
		return nil, err
	}

	var result []violation
	add := func(location, message string) {
		result = append(result, violation{site: site, location: location, message: message})
	}

	if err := model.Validate(data); err != nil {
		var validation *model.ValidationError
		if !errors.As(err, &validation) {
			return nil, err
		}
		for _, issue := range validation.Issues {
			location := issue.Path
			if issue.Field != "" {
				location += "." + issue.Field
			}
			add(location, issue.Message)
		}
	}

	catalog := registry.NewCatalog(data.Parts)
	images := registry.NewImages(data.Images)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	descriptors := make(map[string][]model.FieldDescriptor)
	slots := make(map[string][]string)
	for _, ref := range catalog.Parts(true) {
		found, err := fields.Extract(ref.Part.Body, fields.WithLogger(logger))
		if err != nil {
			add("parts."+ref.Part.ID, err.Error())
			continue
		}
		descriptors[ref.Part.ID] = found
		names, err := fields.ExtractSlots(ref.Part.Body)
		if err != nil {
			add("parts."+ref.Part.ID, err.Error())
			continue
		}
		slots[ref.Part.ID] = names
	}

	err = model.Walk(data.Page, func(c *model.Component, path string) error {
		part, ok := catalog.FindPart(c.PartID)
		if !ok {
			add(path, fmt.Sprintf("unknown part %q", c.PartID))
			return nil
		}
		if part.SlotOnly && !strings.Contains(path, ".slots.") {
			add(path, fmt.Sprintf("slot-only part %q used at top level", part.ID))
		}
		for _, d := range descriptors[part.ID] {
			v, ok := c.Get(d.Name)
			if !ok || d.ReadOnly || d.Disabled {
				continue
			}
			if err := fields.Assign(c.Clone(), d, v); err != nil {
				add(path+"."+d.Name, err.Error())
			}
		}
		for name, children := range c.Slots {
			if len(children) == 0 {
				continue
			}
			if !contains(slots[part.ID], name) {
				add(model.SlotPath(path, name), fmt.Sprintf("part %q declares no slot %q", part.ID, name))
			}
			allowed := part.Slots[name].AllowedParts
			if len(allowed) == 0 {
				continue
			}
			for i, child := range children {
				if child != nil && !contains(allowed, child.PartID) {
					add(model.ChildPath(path, name, i), fmt.Sprintf("part %q is not allowed in slot %q", child.PartID, name))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	refs, err := fields.ImageReferences(data.Page, catalog, fields.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if _, ok := images.Find(ref.ImageID); !ok {
			add(ref.Path+"."+ref.Field, fmt.Sprintf("unknown image %q", ref.ImageID))
		}
	}

	return result, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
