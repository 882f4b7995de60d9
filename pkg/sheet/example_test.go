package sheet_test

import (
	"fmt"

	"github.com/matzehuels/qrsheet/pkg/sheet"
)

func ExampleChunker_Chunks() {
	c, _ := sheet.NewChunker(3)
	for ch := range c.Chunks(1, 11) {
		fmt.Println(ch)
	}
	// Output:
	// 1-3
	// 4-6
	// 7-9
	// 10-10
}

func ExampleLayoutBlock() {
	plan, _ := sheet.LayoutBlock(1, 17, 17)
	fmt.Println("Rows:", plan.Rows)
	fmt.Println("Label:", plan.Label.Text, plan.Label.Row, plan.Label.Column, plan.Label.SharesCell)
	// Output:
	// Rows: 1
	// Label: 1-17 0 16 true
}

func ExampleAssemble() {
	plans, _ := sheet.Assemble(100, 300, 100, 17)
	for _, p := range plans {
		fmt.Printf("%s: %d codes in %d rows\n", p.Label.Text, p.Count(), p.Rows)
	}
	// Output:
	// 100-199: 100 codes in 6 rows
	// 200-299: 100 codes in 6 rows
}
