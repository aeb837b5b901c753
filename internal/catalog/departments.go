package catalog

import (
	"maps"
	"slices"
)

const (
	Bogota    = "BOGOTÁ, D.C."
	SanAndres = "SAN ANDRÉS, PROVIDENCIA Y SANTA CATALINA"
)

type Department struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Color       string      `json:"color"`
}

var departments = []Department{
	{"AMAZONAS", Coordinates{-1.566, -72.640}, "#A6CEE3"},
	{"ANTIOQUIA", Coordinates{7.1986, -75.3412}, "#1F78B4"},
	{"ARAUCA", Coordinates{6.5519, -70.9410}, "#B2DF8A"},
	{"ATLÁNTICO", Coordinates{10.6966, -74.8741}, "#33A02C"},
	{Bogota, Coordinates{4.6097, -74.0817}, ""},
	{"BOLÍVAR", Coordinates{9.1938, -74.9120}, "#FB9A99"},
	{"BOYACÁ", Coordinates{5.5450, -73.3678}, "#E31A1C"},
	{"CALDAS", Coordinates{5.2983, -75.2479}, "#FDBF6F"},
	{"CAQUETÁ", Coordinates{0.8699, -73.8419}, "#FF7F00"},
	{"CASANARE", Coordinates{5.7589, -71.5724}, "#CAB2D6"},
	{"CAUCA", Coordinates{2.4068, -76.7250}, "#6A3D9A"},
	{"CESAR", Coordinates{9.3373, -73.6536}, "#FFFF99"},
	{"CHOCÓ", Coordinates{5.6947, -76.6583}, "#B15928"},
	{"CÓRDOBA", Coordinates{8.7496, -75.8735}, "#8DD3C7"},
	{"CUNDINAMARCA", Coordinates{4.8143, -74.3540}, "#FFFFB3"},
	{"GUAINÍA", Coordinates{2.5658, -68.5247}, "#BEBADA"},
	{"LA GUAJIRA", Coordinates{11.3548, -72.5205}, "#FDB462"},
	{"GUAVIARE", Coordinates{1.8537, -72.9087}, "#FB8072"},
	{"HUILA", Coordinates{2.9273, -75.2819}, "#80B1D3"},
	{"MAGDALENA", Coordinates{10.2373, -74.2064}, "#B3DE69"},
	{"META", Coordinates{3.4760, -73.7517}, "#FCCDE5"},
	{"NARIÑO", Coordinates{1.2894, -77.3570}, "#D9D9D9"},
	{"NORTE DE SANTANDER", Coordinates{7.9463, -72.8988}, "#BC80BD"},
	{"PUTUMAYO", Coordinates{0.4416, -76.6270}, "#CCEBC5"},
	{"QUINDÍO", Coordinates{4.4610, -75.6674}, "#FFED6F"},
	{"RISARALDA", Coordinates{4.9820, -75.6039}, "#1B9E77"},
	{SanAndres, Coordinates{12.5589, -81.7188}, "#D95F02"},
	{"SANTANDER", Coordinates{6.6437, -73.6531}, "#7570B3"},
	{"SUCRE", Coordinates{9.3164, -75.3972}, "#E7298A"},
	{"TOLIMA", Coordinates{4.0925, -75.1545}, "#66A61E"},
	{"VALLE DEL CAUCA", Coordinates{3.5297, -76.3035}, "#E6AB02"},
	{"VAUPÉS", Coordinates{0.8554, -70.8110}, "#A6761D"},
	{"VICHADA", Coordinates{4.4234, -69.2878}, "#666666"},
}

// departmentVariants lists the registry spellings that do not reduce to their
// canonical name under DepartmentKey.
var departmentVariants = map[string]string{
	"BOGOTA":                   Bogota,
	"BOGOTA DC":                Bogota,
	"BOGOTA D C":               Bogota,
	"BOGOTÁ D.C.":              Bogota,
	"GUAJIRA":                  "LA GUAJIRA",
	"SAN ANDRES":               SanAndres,
	"SAN ANDRÉS":               SanAndres,
	"SAN ANDRES Y PROVIDENCIA": SanAndres,
	"ARCHIPIELAGO DE SAN ANDRES PROVIDENCIA Y SANTA CATALINA":  SanAndres,
	"ARCHIPIÉLAGO DE SAN ANDRÉS, PROVIDENCIA Y SANTA CATALINA": SanAndres,
	"VALLE": "VALLE DEL CAUCA",
}

var (
	byKey  map[string]string
	byName map[string]Department
)

func init() {
	byName = make(map[string]Department, len(departments))
	byKey = make(map[string]string, len(departments)+len(departmentVariants))
	for _, d := range departments {
		byName[d.Name] = d
		byKey[DepartmentKey(d.Name)] = d.Name
	}
	for variant, canonical := range departmentVariants {
		byKey[DepartmentKey(variant)] = canonical
	}
}

// CanonicalDepartment resolves any known spelling of a department to its canonical
// display name.
func CanonicalDepartment(name string) (string, bool) {
	canonical, ok := byKey[DepartmentKey(name)]
	return canonical, ok
}

// DepartmentCoordinates looks up the coordinates of a canonical department name.
func DepartmentCoordinates(canonical string) (Coordinates, bool) {
	d, ok := byName[canonical]
	return d.Coordinates, ok
}

func LookupDepartment(canonical string) (Department, bool) {
	d, ok := byName[canonical]
	return d, ok
}

// Departments returns the canonical departments sorted by name.
func Departments() []Department {
	out := slices.Clone(departments)
	slices.SortFunc(out, func(a, b Department) int {
		return compareText(a.Name, b.Name)
	})
	return out
}

// DepartmentVariants returns every spelling the catalog recognizes mapped to its
// canonical name, canonical names included.
func DepartmentVariants() map[string]string {
	out := maps.Clone(departmentVariants)
	for _, d := range departments {
		out[d.Name] = d.Name
	}
	return out
}

func compareText(a, b string) int {
	ka, kb := DepartmentKey(a), DepartmentKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}
