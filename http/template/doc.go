/*
Package template parses HTML templates from an fs.FS,
falling back to the templates embedded in this package under tmpl/.

The embedded "status" template renders flashes into the element with the ID auth-status.
Error flashes are additionally raised with window.alert.
*/
package template
