// Package render formats decompositions, key and closure sets, and
// lossless-join reports for the terminal and for machines.
//
// Text output lists each relation as "(key..., rest...)" with the key
// first, and styles it through a lipgloss renderer bound to the output
// writer, so color follows the writer and never the process's stdout.
// JSON and YAML emit the same content as structured documents. SQL emits
// one CREATE TABLE statement per relation.
package render
