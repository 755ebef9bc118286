package models

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// TableCandidates detects table-like regions in a sheet.
// Returns the bounding range of the non-blank cells when it is dense enough.
func (s *Sheet) TableCandidates(params TableDetectionParams) []Range {
	var bounds Range
	nonEmpty := 0
	for ref, c := range s.cells {
		if c.IsBlank() {
			continue
		}
		if nonEmpty == 0 {
			bounds = CellRange(ref)
		} else {
			bounds.From.Col = min(bounds.From.Col, ref.Col)
			bounds.From.Row = min(bounds.From.Row, ref.Row)
			bounds.To.Col = max(bounds.To.Col, ref.Col)
			bounds.To.Row = max(bounds.To.Row, ref.Row)
		}
		nonEmpty++
	}

	if nonEmpty < params.MinNonemptyCells {
		return nil
	}

	// Calculate density
	density := float64(nonEmpty) / float64(bounds.Size())
	if density < params.DensityMin {
		return nil
	}
	return []Range{bounds}
}
