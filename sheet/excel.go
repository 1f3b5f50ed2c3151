package sheet

import (
	"context"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// XLSX reads the first worksheet of a local Excel workbook.
type XLSX struct {
	File string
}

func (x *XLSX) Rows(ctx context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(x.File)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook %v (%w)", x.File, err)
	}

	defer f.Close()

	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, fmt.Errorf("workbook %v has no worksheets", x.File)
	}

	rows, err := f.GetRows(list[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read worksheet '%v' (%w)", list[0], err)
	}

	return pad(rows), nil
}

// XLS reads the first worksheet of a local legacy (BIFF8) Excel workbook.
type XLS struct {
	File    string
	Charset string
}

func (x *XLS) Rows(ctx context.Context) ([][]string, error) {
	charset := x.Charset
	if charset == "" {
		charset = "utf-8"
	}

	wb, err := xls.Open(x.File, charset)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook %v (%w)", x.File, err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook %v has no worksheets", x.File)
	}

	// ReadAllCells runs on into the following worksheets, so cap it at the
	// row count of the first one
	if sheet.MaxRow == 0 {
		return [][]string{}, nil
	}

	rows := wb.ReadAllCells(int(sheet.MaxRow) + 1)

	return pad(rows), nil
}
