// Package insights aggregates a cleaned registry table for the presentation layer.
// Every function is pure and tolerates missing columns by returning empty results.
package insights

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"negociosverdes/internal/catalog"
	"negociosverdes/internal/classifier"
	"negociosverdes/internal/normalize"
	"negociosverdes/pkg/model"
)

const (
	DefaultTopSectors     = 10
	DefaultTopAuthorities = 15

	// UnregisteredAuthority labels records without an authority.
	UnregisteredAuthority = "No registra"
)

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Share struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Overview struct {
	Records       int    `json:"records"`
	Columns       int    `json:"columns"`
	Departments   int    `json:"departments"`
	TopDepartment string `json:"top_department,omitempty"`
	TopRegion     string `json:"top_region,omitempty"`
	TopSector     string `json:"top_sector,omitempty"`
	YearMin       *int64 `json:"year_min,omitempty"`
	YearMax       *int64 `json:"year_max,omitempty"`
	// Honey counts descriptions mentioning "miel".
	Honey Share `json:"honey"`
	// Energy counts sectors mentioning "energ".
	Energy Share `json:"energy"`
}

// Summarize computes the headline figures of a table.
func Summarize(t *model.Table) Overview {
	o := Overview{
		Records: t.Len(),
		Columns: len(t.Columns),
	}

	departments := countBy(t.Column(model.ColumnDepartment))
	o.Departments = len(departments)
	if len(departments) > 0 {
		o.TopDepartment = departments[0].Label
	}
	if regions := countBy(t.Column(model.ColumnRegion)); len(regions) > 0 {
		o.TopRegion = regions[0].Label
	}
	if sectors := countBy(t.Column(model.ColumnSector)); len(sectors) > 0 {
		o.TopSector = sectors[0].Label
	}

	for _, v := range t.Column(model.ColumnYear) {
		year, ok := v.AsInt()
		if !ok {
			continue
		}
		if o.YearMin == nil || year < *o.YearMin {
			o.YearMin = &year
		}
		if o.YearMax == nil || year > *o.YearMax {
			o.YearMax = &year
		}
	}

	o.Honey = share(t, model.ColumnDescription, "miel")
	o.Energy = share(t, model.ColumnSector, "energ")
	return o
}

func share(t *model.Table, column, stem string) Share {
	n := 0
	for _, v := range t.Column(column) {
		if strings.Contains(catalog.MatchKey(v.Text()), stem) {
			n++
		}
	}
	return Share{Count: n, Percent: percent(n, t.Len(), 2)}
}

type DepartmentStat struct {
	Department string  `json:"department"`
	Total      int     `json:"total"`
	Aligned    int     `json:"aligned"`
	Percent    float64 `json:"aligned_percent"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Color      string  `json:"color,omitempty"`
}

// Departments reports per department totals and Basura Cero alignment. Departments
// without known coordinates are left out. Results are ordered by total, descending.
func Departments(t *model.Table) []DepartmentStat {
	if !t.HasAll(model.ColumnDepartment, model.ColumnAlignmentCategories) {
		return []DepartmentStat{}
	}

	byName := map[string]*DepartmentStat{}
	for i := range t.Rows {
		v := t.Get(i, model.ColumnDepartment)
		coords, ok := normalize.Coordinates(v)
		if !ok {
			continue
		}
		name := v.Text()
		stat, seen := byName[name]
		if !seen {
			stat = &DepartmentStat{Department: name, Lat: coords.Lat, Lon: coords.Lon}
			if d, ok := catalog.LookupDepartment(name); ok {
				stat.Color = d.Color
			}
			byName[name] = stat
		}
		stat.Total++
		if classifier.HasAlignmentValue(t.Get(i, model.ColumnAlignmentCategories)) {
			stat.Aligned++
		}
	}

	out := make([]DepartmentStat, 0, len(byName))
	for _, stat := range byName {
		stat.Percent = percent(stat.Aligned, stat.Total, 1)
		out = append(out, *stat)
	}
	slices.SortFunc(out, func(a, b DepartmentStat) int {
		return cmp.Or(cmp.Compare(b.Total, a.Total), strings.Compare(a.Department, b.Department))
	})
	return out
}

// TopSectors returns the n most frequent sectors. n <= 0 means DefaultTopSectors.
func TopSectors(t *model.Table, n int) []Count {
	if n <= 0 {
		n = DefaultTopSectors
	}
	counts := countBy(t.Column(model.ColumnSector))
	return counts[:min(n, len(counts))]
}

type AuthorityStat struct {
	Authority string  `json:"authority"`
	Total     int     `json:"total"`
	Aligned   int     `json:"aligned"`
	Unaligned int     `json:"unaligned"`
	Percent   float64 `json:"aligned_percent"`
}

// TopAuthorities returns the n authorities with most records, split by alignment.
// Records without an authority are grouped under UnregisteredAuthority.
func TopAuthorities(t *model.Table, n int) []AuthorityStat {
	if !t.Has(model.ColumnAuthority) {
		return []AuthorityStat{}
	}
	if n <= 0 {
		n = DefaultTopAuthorities
	}

	labels := make([]model.Value, t.Len())
	for i, v := range t.Column(model.ColumnAuthority) {
		label := strings.TrimSpace(v.Text())
		if label == "" {
			label = UnregisteredAuthority
		}
		labels[i] = model.String(label)
	}

	top := countBy(labels)
	top = top[:min(n, len(top))]
	index := make(map[string]int, len(top))
	out := make([]AuthorityStat, len(top))
	for i, c := range top {
		index[c.Label] = i
		out[i] = AuthorityStat{Authority: c.Label, Total: c.Count}
	}

	for i, v := range labels {
		j, ok := index[v.Text()]
		if !ok {
			continue
		}
		if classifier.HasAlignmentValue(t.Get(i, model.ColumnAlignmentCategories)) {
			out[j].Aligned++
		} else {
			out[j].Unaligned++
		}
	}
	for i := range out {
		out[i].Percent = percent(out[i].Aligned, out[i].Total, 1)
	}
	return out
}

type YearCount struct {
	Year  int64 `json:"year"`
	Count int   `json:"count"`
}

// AnnualTrend counts records per year, ascending. Null years are ignored.
func AnnualTrend(t *model.Table) []YearCount {
	counts := map[int64]int{}
	for _, v := range t.Column(model.ColumnYear) {
		if year, ok := v.AsInt(); ok {
			counts[year]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, YearCount{Year: year, Count: n})
	}
	slices.SortFunc(out, func(a, b YearCount) int { return cmp.Compare(a.Year, b.Year) })
	return out
}

type AlignmentStat struct {
	Aligned    int     `json:"aligned"`
	Unaligned  int     `json:"unaligned"`
	Percent    float64 `json:"aligned_percent"`
	Categories []Count `json:"categories"`
}

// Alignment splits the table into aligned and unaligned records and counts each
// Basura Cero category, most frequent first.
func Alignment(t *model.Table) AlignmentStat {
	stat := AlignmentStat{Categories: []Count{}}
	if !t.Has(model.ColumnAlignmentCategories) {
		return stat
	}

	var categories []model.Value
	for _, v := range t.Column(model.ColumnAlignmentCategories) {
		if !classifier.HasAlignmentValue(v) {
			stat.Unaligned++
			continue
		}
		stat.Aligned++
		for _, c := range classifier.Split(v.Text()) {
			categories = append(categories, model.String(c))
		}
	}
	stat.Percent = percent(stat.Aligned, t.Len(), 1)
	stat.Categories = countBy(categories)
	return stat
}

type MatrixCell struct {
	Region   string `json:"region"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RegionCategoryMatrix counts records per (region, category). Unaligned records and
// null regions do not contribute. Cells are ordered by region, then by category in
// catalog order.
func RegionCategoryMatrix(t *model.Table) []MatrixCell {
	if !t.HasAll(model.ColumnRegion, model.ColumnAlignmentCategories) {
		return []MatrixCell{}
	}

	type key struct{ region, category string }
	counts := map[key]int{}
	for i := range t.Rows {
		region := t.Get(i, model.ColumnRegion)
		if region.IsNull() {
			continue
		}
		for _, c := range classifier.Split(t.Get(i, model.ColumnAlignmentCategories).Text()) {
			counts[key{region.Text(), c}]++
		}
	}

	order := map[string]int{}
	for i, name := range catalog.CategoryNames() {
		order[name] = i
	}
	rank := func(category string) int {
		if i, ok := order[category]; ok {
			return i
		}
		return len(order)
	}

	out := make([]MatrixCell, 0, len(counts))
	for k, n := range counts {
		out = append(out, MatrixCell{Region: k.region, Category: k.category, Count: n})
	}
	slices.SortFunc(out, func(a, b MatrixCell) int {
		return cmp.Or(
			strings.Compare(a.Region, b.Region),
			cmp.Compare(rank(a.Category), rank(b.Category)),
			strings.Compare(a.Category, b.Category),
		)
	})
	return out
}

// countBy tallies non-empty cells, most frequent first, ties by label.
func countBy(values []model.Value) []Count {
	tally := map[string]int{}
	for _, v := range values {
		if label := v.Text(); strings.TrimSpace(label) != "" {
			tally[label]++
		}
	}
	out := make([]Count, 0, len(tally))
	for label, n := range tally {
		out = append(out, Count{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), strings.Compare(a.Label, b.Label))
	})
	return out
}

func percent(part, total, decimals int) float64 {
	if total == 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(part)/float64(total)*100*scale) / scale
}
