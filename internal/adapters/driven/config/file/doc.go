// Package file stores agenda settings in a TOML file, by default
// ~/.agenda/config.toml.
//
// Keys are dotted paths into the TOML tables, so "query.include_past"
// lives under [query] and "caldav.password" under [caldav]. Missing
// files load as empty and are created on the first Set.
package file
