package template

import "io/fs"

// A ParserOptFn configures a *Parse under construction.
type ParserOptFn func(*Parse)

// WithFn adds fn to the template function map under name,
// e.g., WithFn(Env(playbook.Testing)).
func WithFn(name string, fn any) ParserOptFn {
	return func(p *Parse) { p.AddFn(name, fn) }
}

// WithFS reads pages from filesys before the built in templates.
// A nil filesys leaves the working directory in place.
func WithFS(filesys fs.FS) ParserOptFn {
	return func(p *Parse) {
		if filesys != nil {
			p.fs = filesys
		}
	}
}
