package binning

import "strconv"

// Group is one bin of a categorical partition.
type Group struct {
	Label   string   `json:"label"`
	Members []string `json:"members"`
}

// Partition is a snapshot of a binner's bins. Exactly one of Cuts and Groups
// is set.
type Partition struct {
	Cuts   []float64 `json:"cuts,omitempty"`
	Groups []Group   `json:"groups,omitempty"`
}

func (p Partition) Bins() int {
	if p.Groups != nil {
		return len(p.Groups)
	}
	if len(p.Cuts) < 2 {
		return 0
	}
	return len(p.Cuts) - 1
}

// Names identifies the partition's boundaries: the cut points for an ordered
// partition, the composite labels for a categorical one.
func (p Partition) Names() []string {
	if p.Groups != nil {
		out := make([]string, len(p.Groups))
		for i, g := range p.Groups {
			out[i] = g.Label
		}
		return out
	}
	out := make([]string, len(p.Cuts))
	for i, c := range p.Cuts {
		out[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return out
}

// Intervals renders ordered bins as (left, right].
func (p Partition) Intervals() []string {
	if p.Bins() == 0 || p.Groups != nil {
		return nil
	}
	names := p.Names()
	out := make([]string, len(names)-1)
	for i := range out {
		out[i] = "(" + names[i] + ", " + names[i+1] + "]"
	}
	return out
}

func (p Partition) clone() Partition {
	var c Partition
	if p.Cuts != nil {
		c.Cuts = append([]float64(nil), p.Cuts...)
	}
	if p.Groups != nil {
		c.Groups = make([]Group, len(p.Groups))
		for i, g := range p.Groups {
			c.Groups[i] = Group{Label: g.Label, Members: append([]string(nil), g.Members...)}
		}
	}
	return c
}

// IterationRecord describes one iteration: the partition that was observed,
// its statistics, and the pair of bins merged afterwards.
type IterationRecord struct {
	Iteration int       `json:"iteration"`
	Partition Partition `json:"partition"`
	Stats     Table     `json:"stats"`
	IV        float64   `json:"iv"`
	WOE       float64   `json:"woe"`
	Merged    [2]int    `json:"merged"`
}

// History is the outcome of a run: one record per iteration, in order.
type History struct {
	Predictor string            `json:"predictor"`
	Ordered   bool              `json:"ordered"`
	Records   []IterationRecord `json:"records"`
	// Final is the partition left after the last merge.
	Final Partition `json:"final"`
}

func (h *History) Len() int { return len(h.Records) }

func (h *History) IVs() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.IV
	}
	return out
}

// Table lays the history out with one column per iteration and one row per
// bin identifier. Shorter columns are padded with empty cells. The first row
// is the header.
func (h *History) Table() [][]string {
	rows := 0
	cols := make([][]string, len(h.Records))
	for i, r := range h.Records {
		cols[i] = r.Partition.Names()
		if len(cols[i]) > rows {
			rows = len(cols[i])
		}
	}
	out := make([][]string, 0, rows+1)
	header := make([]string, len(cols)+1)
	header[0] = "bin"
	for i := range cols {
		header[i+1] = "iter_" + strconv.Itoa(h.Records[i].Iteration)
	}
	out = append(out, header)
	for j := 0; j < rows; j++ {
		row := make([]string, len(cols)+1)
		row[0] = strconv.Itoa(j)
		for i, c := range cols {
			if j < len(c) {
				row[i+1] = c[j]
			}
		}
		out = append(out, row)
	}
	return out
}

const compositeSep = "__"

func compositeLabel(left, right string) string { return left + compositeSep + right }
