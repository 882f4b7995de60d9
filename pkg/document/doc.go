// Package document provides an in-memory model of a printable document made
// of tables and blank paragraphs.
//
// A [Document] is filled through the [Builder] and [TableBuilder] interfaces.
// It does not know about pages: the layout package paginates it into
// absolutely positioned boxes, and the sink package turns those into PDF,
// PNG or JSON.
//
//	doc := document.New(document.DefaultOptions())
//	tbl, _ := doc.AddTable(1, 17)
//	_ = tbl.AddImage(0, 0, pngBytes, 9, "1")
//	_ = tbl.AddText(0, 1, "1-1", 8)
//	_ = doc.AddParagraph()
//
// All lengths are millimetres; font sizes are points.
package document
