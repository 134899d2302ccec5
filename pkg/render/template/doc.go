// Package template defines the template engine contract used by the HTML page
// renderer. The pongo subpackage implements it on top of pongo2.
package template
