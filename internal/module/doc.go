// Package module turns a corpus into an installable SWORD module: it writes
// the OSIS file, compiles it with osis2mod, renders the .conf and packs the
// install tree into an archive.
//
// The install tree inside the build directory is
//
//	modules/texts/ztext/<name>/   compiled zText data
//	mods.d/<name>.conf            module configuration
//	xml/<name>.xml                the OSIS source, kept for reference
package module
