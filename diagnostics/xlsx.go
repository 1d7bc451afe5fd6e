package diagnostics

import (
	"io"

	"github.com/tealeg/xlsx"

	"github.com/CWRUChielLab/metabolism-sub000/chem"
	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// WriteXLSX writes the current census snapshot and diffusion table as two
// worksheets in a single workbook (--xlsx_file), best-effort. Unlike the
// fixed-width census file, this captures only the current iteration's
// counts, not the full history. A convenience export, not a replacement.
func WriteXLSX(w io.Writer, e *engine.Engine) {
	bestEffort(e.Logger(), "xlsx export", func() error {
		file := xlsx.NewFile()
		if err := addCensusSheet(file, e); err != nil {
			return err
		}
		if err := addDiffusionSheet(file, e); err != nil {
			return err
		}
		return file.Write(w)
	})
}

func addCensusSheet(file *xlsx.File, e *engine.Engine) error {
	sheet, err := file.AddSheet("Census")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	header.AddCell().SetString("element")
	header.AddCell().SetString("count")
	header.AddCell().SetString("start_concentration")

	total := 0
	e.PeriodicTable().Iterate(func(el *chem.Element) bool {
		if el.Name == chem.SolventName {
			return true
		}
		row := sheet.AddRow()
		row.AddCell().SetString(el.Name)
		row.AddCell().SetInt(el.Count)
		row.AddCell().SetFloat(el.StartConcentration.Value())
		total += el.Count
		return true
	})
	totalRow := sheet.AddRow()
	totalRow.AddCell().SetString("total")
	totalRow.AddCell().SetInt(total)
	return nil
}

func addDiffusionSheet(file *xlsx.File, e *engine.Engine) error {
	sheet, err := file.AddSheet("Diffusion")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, col := range []string{"type", "dx_actual", "dy_actual", "dx_ideal", "dy_ideal", "collisions"} {
		header.AddCell().SetString(col)
	}

	w, h := e.WorldSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := e.WorldAt(x, y)
			if a == nil {
				continue
			}
			row := sheet.AddRow()
			row.AddCell().SetString(a.Type.Name)
			row.AddCell().SetInt(a.DxActual)
			row.AddCell().SetInt(a.DyActual)
			row.AddCell().SetInt(a.DxIdeal)
			row.AddCell().SetInt(a.DyIdeal)
			row.AddCell().SetInt(a.Collisions)
		}
	}
	return nil
}
