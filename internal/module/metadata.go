package module

import (
	"github.com/FocuswithJustin/sid/core/ir"
	"github.com/FocuswithJustin/sid/internal/config"
)

// Metadata is the merged description of the module being built.
type Metadata struct {
	Name          string
	LongName      string
	Language      string
	Description   string
	Author        string
	Version       string
	License       string
	About         string
	Versification string
}

// MetadataFrom merges configured module settings with the work info a
// source carried. Configured values win. LongName falls back to Name and
// Description to LongName.
func MetadataFrom(m config.ModuleConfig, w ir.Work) Metadata {
	md := Metadata{
		Name:          first(m.Name, w.ID),
		LongName:      first(m.LongName, w.Title),
		Language:      first(m.Language, w.Language),
		Description:   first(m.Description, w.Description),
		Author:        first(m.Author, w.Source),
		Version:       m.Version,
		License:       m.License,
		About:         m.About,
		Versification: first(m.Versification, w.Versification),
	}
	md.LongName = first(md.LongName, md.Name)
	md.Description = first(md.Description, md.LongName)
	return md
}

// Work returns the OSIS work header for the module.
func (m Metadata) Work() ir.Work {
	return ir.Work{
		ID:            m.Name,
		Title:         m.LongName,
		Language:      m.Language,
		Description:   m.Description,
		Source:        m.Author,
		Versification: m.Versification,
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
