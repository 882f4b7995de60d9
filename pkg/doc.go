// Package pkg provides the libraries behind qrsheet, a generator of
// numbered QR label sheets.
//
// # Overview
//
// qrsheet turns an integer range into printable sheets: one QR code per
// number, grouped in blocks with a "first-last" label and blank spacer
// paragraphs between blocks. The pkg directory is organized as:
//
//  1. [sheet] - Layout core (chunking, grid placement, block plans)
//  2. [qrcode] - QR encoding backends producing PNG images
//  3. [document] - Document model, pagination and output sinks
//  4. [pipeline] - Orchestration (plan → assemble → render) and background runs
//  5. [config], [cache], [observability], [errors], [fonts], [buildinfo] - Support
//
// # Architecture
//
// The data flow of one run:
//
//	START, END
//	     ↓
//	[sheet] package (chunk the range, place codes on the grid)
//	     ↓
//	[pipeline] package (encode each number, write tables, labels, spacers)
//	     ↓
//	[document/layout] package (paginate into mm boxes)
//	     ↓
//	[document/sink] package (PDF, PNG pages, JSON)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Start: 1000, End: 1200}, nil)
//	if err != nil {
//	    return err
//	}
//	paths, err := pipeline.WriteArtifacts(res, "QR_1000_1200.pdf")
//
// Plan a sheet without rendering it:
//
//	plans, _ := sheet.Assemble(1, 201, sheet.DefaultChunkSize, sheet.DefaultColumns)
//	for _, p := range plans {
//	    fmt.Println(p.Label.Text, p.Rows, "rows")
//	}
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/sheet/...     # Specific package
//	go test -run Example ./...  # Examples only
//
// [sheet]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/sheet
// [qrcode]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/qrcode
// [document]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/document
// [document/layout]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/document/layout
// [document/sink]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/document/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/errors
// [fonts]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/qrsheet/pkg/buildinfo
package pkg
