// Package config decodes q3 documents.
//
// A document declares fragments in three sections. In TOML:
//
//	[list.colors]
//	value = "red\ngreen\nblue"
//	script = "q3.join_or(value)"
//
//	[generator.greeting]
//	script = '"hello"'
//
//	[query.search]
//	value = "#{greeting} (#{colors})"
//
// The same document may be written in YAML, with the sections as top-level
// mappings, or in HCL, with list, generator and query blocks labeled by
// name. HCL documents may read the process environment as env.KEY.
//
// A list takes its data from exactly one of value or file; a file path is
// relative to the document. The list separator defaults to a newline.
package config
