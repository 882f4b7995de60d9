package qrcode

import (
	goqrcode "github.com/skip2/go-qrcode"
)

func skip2Level(l Level) goqrcode.RecoveryLevel {
	switch ParseLevel(string(l)) {
	case LevelMedium:
		return goqrcode.Medium
	case LevelQuartile:
		return goqrcode.High
	case LevelHigh:
		return goqrcode.Highest
	default:
		return goqrcode.Low
	}
}

func skip2Matrix(data string, opts Options) ([][]bool, error) {
	var (
		q   *goqrcode.QRCode
		err error
	)
	if opts.autoVersion() {
		q, err = goqrcode.New(data, skip2Level(opts.ErrorCorrection))
	} else {
		q, err = goqrcode.NewWithForcedVersion(data, opts.Version, skip2Level(opts.ErrorCorrection))
	}
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}
