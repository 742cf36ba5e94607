package xl

// populateDataCaches fills empty series caches from the referenced worksheet
// cells. A cache is only filled when the reference is a single row or column
// on a sheet of this workbook and every cell in it holds a numeric value;
// otherwise it stays empty and the application recomputes it.
func populateDataCaches(wb *Workbook) {
	for _, ch := range wb.Charts {
		for _, s := range ch.Series {
			populateRange(wb, s.Categories)
			populateRange(wb, s.Values)
		}
	}
}

func populateRange(wb *Workbook, r *SeriesRange) {
	if r.Formula == "" || len(r.cache) > 0 {
		return
	}
	cr, err := ParseRange(r.Formula)
	if err != nil || cr.Sheet == "" {
		return
	}
	if cr.FirstRow != cr.LastRow && cr.FirstCol != cr.LastCol {
		return
	}
	sh := wb.lookupSheet(cr.Sheet)
	if sh == nil {
		return
	}
	values := make([]float64, 0, cr.Len())
	for row := cr.FirstRow; row <= cr.LastRow; row++ {
		for col := cr.FirstCol; col <= cr.LastCol; col++ {
			c := sh.Cell(row, col)
			if c == nil {
				return
			}
			switch c.typ {
			case CellTypeNumber, CellTypeFormula, CellTypeBool:
				values = append(values, c.number)
			default:
				return
			}
		}
	}
	r.SetDataCache(values)
}
