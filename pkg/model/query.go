package model

// RecordQuery selects rows of a snapshot. Empty selections match everything; within a
// selection any value may match.
type RecordQuery struct {
	Regions     []string `json:"regions,omitempty" validate:"max=20,dive,required,max=100"`
	Departments []string `json:"departments,omitempty" validate:"max=40,dive,required,max=100"`
	Sectors     []string `json:"sectors,omitempty" validate:"max=50,dive,required,max=200"`
	Categories  []string `json:"categories,omitempty" validate:"max=7,dive,category"`
	Aligned     *bool    `json:"aligned,omitempty"`
	Search      string   `json:"q,omitempty" validate:"max=200"`
	Limit       int      `json:"limit" validate:"min=0,max=1000"`
	Offset      int      `json:"offset" validate:"min=0"`
}

type FilterOptions struct {
	Regions     []string `json:"regions"`
	Departments []string `json:"departments"`
	Sectors     []string `json:"sectors"`
	Categories  []string `json:"categories"`
}

type ClassifyRequest struct {
	Description string `json:"description" validate:"required_without_all=Sector Subsector,max=5000"`
	Sector      string `json:"sector" validate:"max=500"`
	Subsector   string `json:"subsector" validate:"max=500"`
}

type ClassifyResponse struct {
	Categories []string `json:"categories"`
	Label      string   `json:"label"`
	Aligned    string   `json:"aligned"`
}

type RefreshRequest struct {
	Version string `json:"version" validate:"omitempty,max=64,version_token"`
}

type CoordinatesResponse struct {
	Department string  `json:"department"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}
