// Package view renders field binders as HTML fragments using an embedded
// pongo2 template. Each kind maps to a widget: text, number or url inputs,
// selects with a blank "&nbsp;" option for enums and booleans, a read-only
// "dd mmm yyyy" date box, and markup rendered from Markdown with goldmark
// then sanitized with bluemonday. Edit actions are emitted
// only while the binder is in an edit session.
package view
