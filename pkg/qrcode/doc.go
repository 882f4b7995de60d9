// Package qrcode renders numbers as QR code PNG images.
//
// Two encoder backends are available: "skip2" (github.com/skip2/go-qrcode,
// the default) and "boombuler" (github.com/boombuler/barcode/qr). Both
// produce a module matrix that is rasterised by this package, so box size,
// border and colours behave the same regardless of the backend.
//
//	enc, _ := qrcode.New("skip2")
//	png, err := enc.Encode(ctx, "1042", qrcode.DefaultOptions())
//
// With the default options the symbol version is forced to 1 and Fit is
// false, so data that does not fit version 1 fails instead of growing the
// symbol. Set Fit (or Version to 0) to let the encoder pick a version.
package qrcode
