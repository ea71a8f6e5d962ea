package module

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/sid/core/encoding"
	"github.com/FocuswithJustin/sid/internal/archive"
)

// Fixed .conf values for a compressed OSIS bible module.
const (
	ModDrvZText     = "zText"
	EncodingUTF8    = "UTF-8"
	SourceTypeOSIS  = "OSIS"
	CompressTypeZIP = "ZIP"
	BlockTypeBook   = "BOOK"
)

// ConfFile is a SWORD module .conf file.
type ConfFile struct {
	ModuleName    string            `json:"module_name"`
	Description   string            `json:"description"`
	DataPath      string            `json:"data_path"`
	ModDrv        string            `json:"mod_drv"`
	Encoding      string            `json:"encoding"`
	SourceType    string            `json:"source_type,omitempty"`
	CompressType  string            `json:"compress_type,omitempty"`
	BlockType     string            `json:"block_type,omitempty"`
	Lang          string            `json:"lang"`
	Version       string            `json:"version"`
	About         string            `json:"about,omitempty"`
	License       string            `json:"license,omitempty"`
	TextSource    string            `json:"text_source,omitempty"`
	Versification string            `json:"versification,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// DataPath returns the install-relative directory of a zText module.
func DataPath(name string) string {
	return "./modules/texts/ztext/" + strings.ToLower(name) + "/"
}

// NewConf returns the .conf for a zText module built from an OSIS file.
func NewConf(m Metadata) *ConfFile {
	return &ConfFile{
		ModuleName:    m.Name,
		Description:   m.Description,
		DataPath:      DataPath(m.Name),
		ModDrv:        ModDrvZText,
		Encoding:      EncodingUTF8,
		SourceType:    SourceTypeOSIS,
		CompressType:  CompressTypeZIP,
		BlockType:     BlockTypeBook,
		Lang:          m.Language,
		Version:       m.Version,
		About:         AboutText(m.About),
		License:       m.License,
		TextSource:    m.Author,
		Versification: m.Versification,
	}
}

// Render writes the .conf text. Values are flattened to one line.
func (c *ConfFile) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", c.ModuleName)

	line := func(key, value string) {
		fmt.Fprintf(&b, "%s=%s\n", key, encoding.EscapeConf(value))
	}
	line("DataPath", c.DataPath)
	line("ModDrv", c.ModDrv)
	line("Encoding", c.Encoding)
	line("SourceType", c.SourceType)
	line("CompressType", c.CompressType)
	line("BlockType", c.BlockType)
	line("Lang", c.Lang)
	line("Version", c.Version)
	line("Description", c.Description)
	line("About", c.About)
	line("DistributionLicense", c.License)
	line("TextSource", c.TextSource)
	if c.Versification != "" {
		line("Versification", c.Versification)
	}
	return b.String()
}

// ArchiveConf reads and parses mods.d/<module>.conf from a packaged module.
func ArchiveConf(archivePath, module string) (*ConfFile, error) {
	data, err := archive.ReadFile(archivePath, "mods.d/"+module+".conf")
	if err != nil {
		return nil, err
	}
	conf, err := ParseConf(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if conf.ModuleName != module {
		return nil, fmt.Errorf("conf names module %q, want %q", conf.ModuleName, module)
	}
	return conf, nil
}

// ParseConf parses .conf text. The first section header names the module;
// a value ending in "\" continues on the next line.
func ParseConf(r io.Reader) (*ConfFile, error) {
	conf := &ConfFile{Properties: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	var contKey string
	var contValue strings.Builder

	flush := func() {
		if contKey != "" {
			conf.setProperty(contKey, strings.TrimSpace(contValue.String()))
			contKey = ""
			contValue.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if contKey != "" {
			if strings.HasSuffix(trimmed, "\\") {
				contValue.WriteString(" ")
				contValue.WriteString(strings.TrimSpace(strings.TrimSuffix(trimmed, "\\")))
				continue
			}
			contValue.WriteString(" ")
			contValue.WriteString(trimmed)
			flush()
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if conf.ModuleName == "" {
				conf.ModuleName = trimmed[1 : len(trimmed)-1]
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.HasSuffix(value, "\\") {
			contKey = key
			contValue.WriteString(strings.TrimSpace(strings.TrimSuffix(value, "\\")))
			continue
		}
		conf.setProperty(key, value)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading conf file: %w", err)
	}
	if conf.ModuleName == "" {
		return nil, fmt.Errorf("conf file has no [module] section")
	}
	return conf, nil
}

// setProperty records a key and maps the known ones onto fields.
func (c *ConfFile) setProperty(key, value string) {
	c.Properties[key] = value

	switch strings.ToLower(key) {
	case "description":
		c.Description = value
	case "datapath":
		c.DataPath = value
	case "moddrv":
		c.ModDrv = value
	case "encoding":
		c.Encoding = value
	case "sourcetype":
		c.SourceType = value
	case "compresstype":
		c.CompressType = value
	case "blocktype":
		c.BlockType = value
	case "lang":
		c.Lang = value
	case "version":
		c.Version = value
	case "about":
		c.About = value
	case "distributionlicense":
		c.License = value
	case "textsource":
		c.TextSource = value
	case "versification":
		c.Versification = value
	}
}
