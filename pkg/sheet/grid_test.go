package sheet

import (
	"testing"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		index, columns int
		want           Placement
	}{
		{0, 17, Placement{0, 0}},
		{16, 17, Placement{0, 16}},
		{17, 17, Placement{1, 0}},
		{99, 17, Placement{5, 14}},
		{5, 1, Placement{5, 0}},
	}
	for _, tt := range tests {
		got, err := Place(tt.index, tt.columns)
		if err != nil {
			t.Fatalf("Place(%d, %d): %v", tt.index, tt.columns, err)
		}
		if got != tt.want {
			t.Errorf("Place(%d, %d) = %+v, want %+v", tt.index, tt.columns, got, tt.want)
		}
	}
}

func TestPlaceInvalid(t *testing.T) {
	if _, err := Place(0, 0); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("columns 0: err = %v", err)
	}
	if _, err := Place(-1, 17); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("index -1: err = %v", err)
	}
}

func TestPlaceRoundTrip(t *testing.T) {
	for _, cols := range []int{1, 2, 17, 40} {
		g, _ := NewGrid(cols)
		for i := 0; i < 500; i++ {
			p := g.Place(i)
			if p.Column < 0 || p.Column >= cols {
				t.Fatalf("cols=%d i=%d: column %d out of range", cols, i, p.Column)
			}
			if p.Row*cols+p.Column != i {
				t.Fatalf("cols=%d i=%d: %+v does not map back", cols, i, p)
			}
		}
	}
}

func TestLabelPosition(t *testing.T) {
	tests := []struct {
		name      string
		lastIndex int
		columns   int
		want      LabelPlacement
	}{
		{"NextCell", 4, 17, LabelPlacement{Row: 0, Column: 5}},
		{"LastColumn", 16, 17, LabelPlacement{Row: 0, Column: 16, SharesCell: true}},
		{"SecondRow", 17, 17, LabelPlacement{Row: 1, Column: 1}},
		{"FullBlock", 99, 17, LabelPlacement{Row: 5, Column: 15}},
		{"SingleColumn", 3, 1, LabelPlacement{Row: 3, Column: 0, SharesCell: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LabelPosition(tt.lastIndex, tt.columns)
			if err != nil {
				t.Fatalf("LabelPosition: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLabelStaysInRow(t *testing.T) {
	for _, cols := range []int{1, 3, 17} {
		g, _ := NewGrid(cols)
		for i := 0; i < 200; i++ {
			lp := g.LabelPosition(i)
			last := g.Place(i)
			if lp.Row != last.Row {
				t.Fatalf("cols=%d i=%d: label row %d, item row %d", cols, i, lp.Row, last.Row)
			}
			if lp.Column >= cols {
				t.Fatalf("cols=%d i=%d: label column %d out of range", cols, i, lp.Column)
			}
		}
	}
}

func TestGridRows(t *testing.T) {
	g, _ := NewGrid(17)
	for count, want := range map[int]int{0: 0, 1: 1, 17: 1, 18: 2, 100: 6} {
		if got := g.Rows(count); got != want {
			t.Errorf("Rows(%d) = %d, want %d", count, got, want)
		}
	}
}

func TestZeroGridUsesDefault(t *testing.T) {
	if got := (Grid{}).Columns(); got != DefaultColumns {
		t.Errorf("Columns() = %d, want %d", got, DefaultColumns)
	}
}
