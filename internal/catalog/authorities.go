package catalog

import "maps"

const (
	RegionCaribe     = "CARIBE"
	RegionAndina     = "ANDINA"
	RegionPacifico   = "PACÍFICO"
	RegionOrinoquia  = "ORINOQUÍA"
	RegionAmazonia   = "AMAZONÍA"
	RegionInsular    = "INSULAR"
	RegionNoRegistra = "NO REGISTRA"
)

var authorityRegions = map[string]string{
	"AMVA":                   RegionAndina,
	"CAM":                    RegionAndina,
	"CAR":                    RegionAndina,
	"CARDER":                 RegionAndina,
	"CARDIQUE":               RegionCaribe,
	"CARSUCRE":               RegionCaribe,
	"CAS":                    RegionAndina,
	"CDA":                    RegionAmazonia,
	"CDMB":                   RegionAndina,
	"CODECHOCÓ":              RegionPacifico,
	"CORALINA":               RegionInsular,
	"CORANTIOQUIA":           RegionAndina,
	"CORMACARENA":            RegionOrinoquia,
	"CORNARE":                RegionAndina,
	"CORPAMAG":               RegionCaribe,
	"CORPOAMAZONÍA":          RegionAmazonia,
	"CORPOBOYACÁ":            RegionAndina,
	"CORPOCALDAS":            RegionAndina,
	"CORPOCESAR":             RegionCaribe,
	"CORPOCHIVOR":            RegionAndina,
	"CORPOGUAJIRA":           RegionCaribe,
	"CORPOGUAVIO":            RegionAndina,
	"CORPOMOJANA":            RegionCaribe,
	"CORPONARIÑO":            RegionPacifico,
	"CORPONOR":               RegionCaribe,
	"CORPORINOQUÍA":          RegionOrinoquia,
	"CORPOURABÁ":             RegionPacifico,
	"CORTOLIMA":              RegionAndina,
	"CRA":                    RegionCaribe,
	"CRC":                    RegionPacifico,
	"CRQ":                    RegionAndina,
	"CSB":                    RegionCaribe,
	"CVC":                    RegionPacifico,
	"CVS":                    RegionCaribe,
	"DADSA":                  RegionAndina,
	"DAGMA":                  RegionAndina,
	"EPA BARRANQUILLA VERDE": RegionCaribe,
	"EPA BUENAVENTURA":       RegionPacifico,
	"EPA CARTAGENA":          RegionCaribe,
	"SDA":                    RegionAndina,
}

// regionColors are the chart colors of the five continental regions.
var regionColors = map[string]string{
	RegionCaribe:    "#FFD92F",
	RegionAndina:    "#1F78B4",
	RegionPacifico:  "#33A02C",
	RegionOrinoquia: "#FB9A99",
	RegionAmazonia:  "#B2DF8A",
}

var authorityByKey map[string]string

func init() {
	authorityByKey = make(map[string]string, len(authorityRegions))
	for code, region := range authorityRegions {
		authorityByKey[AuthorityKey(code)] = region
	}
}

// AuthorityRegion returns the region an environmental authority operates in. Codes are
// matched ignoring case and accents, so "codechoco" resolves like "CODECHOCÓ".
func AuthorityRegion(code string) (string, bool) {
	region, ok := authorityByKey[AuthorityKey(code)]
	return region, ok
}

func Authorities() map[string]string {
	return maps.Clone(authorityRegions)
}

func RegionColor(region string) (string, bool) {
	c, ok := regionColors[region]
	return c, ok
}
